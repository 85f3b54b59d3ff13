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

// validNext encodes the session lifecycle. CLOSED is additionally reachable
// from any state through the admin close-table operation.
var validNext = map[models.SessionStatus]models.SessionStatus{
	models.SessionOpen:     models.SessionOrdering,
	models.SessionOrdering: models.SessionPaying,
	models.SessionPaying:   models.SessionPaid,
	models.SessionPaid:     models.SessionClosed,
}

// GetOrCreateSession resolves the session for a scanned table. The table's
// current session is reused when the presented token matches; otherwise a
// fresh session is created and attached to the table. A token that does not
// match an active session is rejected with ErrInvalidToken.
func (s *Service) GetOrCreateSession(ctx context.Context, restaurantID, tableID, token string) (*models.TableSession, error) {
	var (
		number    int
		sessionID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT number, current_session_id FROM dining_tables WHERE id = ? AND restaurant_id = ?`,
		tableID, restaurantID,
	).Scan(&number, &sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	if sessionID.Valid && sessionID.String != "" {
		current, err := s.GetSessionByID(ctx, sessionID.String)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if current != nil && current.Status != models.SessionClosed {
			if token != "" && current.Token == token {
				return current, nil
			}
			if token != "" {
				return nil, ErrInvalidToken
			}
		}
	}

	now := time.Now().UTC()
	session := &models.TableSession{
		ID:           uuid.NewString(),
		TableID:      tableID,
		RestaurantID: restaurantID,
		TableNumber:  number,
		Status:       models.SessionOpen,
		Token:        uuid.NewString(),
		CreatedAt:    now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO table_sessions (id, table_id, restaurant_id, table_number, status, token, created_at, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		session.ID, session.TableID, session.RestaurantID, session.TableNumber, session.Status, session.Token, now,
	); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE dining_tables SET current_session_id = ? WHERE id = ?`, session.ID, tableID,
	); err != nil {
		return nil, fmt.Errorf("attach session to table: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create session: %w", err)
	}
	return session, nil
}

// GetSessionByID returns one session, or sql.ErrNoRows.
func (s *Service) GetSessionByID(ctx context.Context, sessionID string) (*models.TableSession, error) {
	var (
		session  models.TableSession
		closedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, table_id, restaurant_id, table_number, status, token, created_at, closed_at
		FROM table_sessions WHERE id = ?`, sessionID,
	).Scan(&session.ID, &session.TableID, &session.RestaurantID, &session.TableNumber,
		&session.Status, &session.Token, &session.CreatedAt, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if closedAt.Valid {
		t := closedAt.Time
		session.ClosedAt = &t
	}
	return &session, nil
}

// UpdateSessionStatus advances the session lifecycle. Only the next status in
// OPEN→ORDERING→PAYING→PAID→CLOSED is accepted; setting the current status
// again is a harmless no-op.
func (s *Service) UpdateSessionStatus(ctx context.Context, sessionID string, status models.SessionStatus) (*models.TableSession, error) {
	session, err := s.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == status {
		return session, nil
	}
	if session.Status == models.SessionClosed {
		return nil, ErrSessionClosed
	}
	if validNext[session.Status] != status {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, status)
	}

	if status == models.SessionClosed {
		now := time.Now().UTC()
		if _, err := s.db.ExecContext(ctx,
			`UPDATE table_sessions SET status = ?, closed_at = ? WHERE id = ?`, status, now, sessionID,
		); err != nil {
			return nil, fmt.Errorf("update session status: %w", err)
		}
		session.ClosedAt = &now
	} else {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE table_sessions SET status = ? WHERE id = ?`, status, sessionID,
		); err != nil {
			return nil, fmt.Errorf("update session status: %w", err)
		}
	}
	session.Status = status
	return session, nil
}
