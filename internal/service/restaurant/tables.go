package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"metria/internal/models"

	"github.com/google/uuid"
)

// ListTables returns every table ordered by number.
func (s *Service) ListTables(ctx context.Context) ([]models.DiningTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, number, restaurant_id, qr_code, current_session_id, created_at FROM dining_tables ORDER BY number ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []models.DiningTable
	for rows.Next() {
		var t models.DiningTable
		var sessionID sql.NullString
		if err := rows.Scan(&t.ID, &t.Number, &t.RestaurantID, &t.QRCode, &sessionID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		t.CurrentSessionID = sessionID.String
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// GenerateTables creates quantity tables numbered after the current highest
// table and returns them. Each QR code encodes the client entry URL; image
// rendering is the front end's job.
func (s *Service) GenerateTables(ctx context.Context, publicBaseURL string, quantity int) ([]models.DiningTable, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	r, err := s.GetRestaurant(ctx)
	if err != nil {
		return nil, err
	}

	var maxNumber int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM dining_tables WHERE restaurant_id = ?`, r.ID,
	).Scan(&maxNumber); err != nil {
		return nil, fmt.Errorf("max table number: %w", err)
	}

	now := time.Now().UTC()
	tables := make([]models.DiningTable, 0, quantity)
	for i := 1; i <= quantity; i++ {
		t := models.DiningTable{
			ID:           uuid.NewString(),
			Number:       maxNumber + i,
			RestaurantID: r.ID,
			CreatedAt:    now,
		}
		t.QRCode = fmt.Sprintf("%s/m/%s/%s?t=", publicBaseURL, r.ID, t.ID)
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO dining_tables (id, number, restaurant_id, qr_code, current_session_id, created_at) VALUES (?, ?, ?, ?, NULL, ?)`,
			t.ID, t.Number, t.RestaurantID, t.QRCode, now,
		); err != nil {
			return nil, fmt.Errorf("insert table %d: %w", t.Number, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// CloseTableSession closes the table's current session, if any, and clears
// the table pointer. Closing a table with no session is a no-op.
func (s *Service) CloseTableSession(ctx context.Context, tableID string) error {
	var sessionID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT current_session_id FROM dining_tables WHERE id = ?`, tableID,
	).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("get table: %w", err)
	}
	if !sessionID.Valid || sessionID.String == "" {
		return nil
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE table_sessions SET status = ?, closed_at = ? WHERE id = ?`,
		models.SessionClosed, now, sessionID.String,
	); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE dining_tables SET current_session_id = NULL WHERE id = ?`, tableID,
	); err != nil {
		return fmt.Errorf("clear table session: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit close session: %w", err)
	}
	return nil
}
