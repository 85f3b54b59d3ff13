package restaurant

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"metria/internal/models"

	"github.com/google/uuid"
)

// CreateWaiterCall raises a staff notification for the session's table.
func (s *Service) CreateWaiterCall(ctx context.Context, sessionID, message string) (*models.WaiterCall, error) {
	session, err := s.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionClosed {
		return nil, ErrSessionClosed
	}

	call := &models.WaiterCall{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		TableNumber: session.TableNumber,
		Message:     strings.TrimSpace(message),
		Status:      models.CallPending,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO waiter_calls (id, session_id, table_number, message, status, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		call.ID, call.SessionID, call.TableNumber, call.Message, call.Status, call.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("create waiter call: %w", err)
	}
	return call, nil
}

// ListPendingCalls returns unresolved calls newest first.
func (s *Service) ListPendingCalls(ctx context.Context) ([]models.WaiterCall, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, table_number, message, status, created_at, resolved_at
		FROM waiter_calls WHERE status = ? ORDER BY created_at DESC`, models.CallPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list waiter calls: %w", err)
	}
	defer rows.Close()

	var calls []models.WaiterCall
	for rows.Next() {
		var (
			call       models.WaiterCall
			resolvedAt sql.NullTime
		)
		if err := rows.Scan(&call.ID, &call.SessionID, &call.TableNumber, &call.Message,
			&call.Status, &call.CreatedAt, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scan waiter call: %w", err)
		}
		if resolvedAt.Valid {
			t := resolvedAt.Time
			call.ResolvedAt = &t
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

// ResolveCall marks a pending call as handled. Resolving a call twice is
// rejected with sql.ErrNoRows so staff screens can drop stale entries.
func (s *Service) ResolveCall(ctx context.Context, callID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE waiter_calls SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		models.CallResolved, time.Now().UTC(), callID, models.CallPending,
	)
	if err != nil {
		return fmt.Errorf("resolve waiter call: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("waiter call rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
