package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"metria/internal/models"
)

func TestGetOrCreateSessionCreatesAndAttaches(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)

	session := openSession(t, svc, restaurantID, tableID)
	if session.Status != models.SessionOpen {
		t.Fatalf("new session should be OPEN, got %s", session.Status)
	}
	if session.TableNumber != 1 {
		t.Fatalf("expected table number 1, got %d", session.TableNumber)
	}
	if session.Token == "" {
		t.Fatalf("new session must carry a token")
	}

	var current sql.NullString
	if err := db.QueryRow(`SELECT current_session_id FROM dining_tables WHERE id = ?`, tableID).Scan(&current); err != nil {
		t.Fatalf("read table: %v", err)
	}
	if current.String != session.ID {
		t.Fatalf("session not attached to table: %q", current.String)
	}
}

func TestGetOrCreateSessionReusesOnTokenMatch(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)

	first := openSession(t, svc, restaurantID, tableID)
	same, err := svc.GetOrCreateSession(context.Background(), restaurantID, tableID, first.Token)
	if err != nil {
		t.Fatalf("reuse session: %v", err)
	}
	if same.ID != first.ID {
		t.Fatalf("expected matching token to reuse session %s, got %s", first.ID, same.ID)
	}
}

func TestGetOrCreateSessionRejectsWrongToken(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)

	openSession(t, svc, restaurantID, tableID)
	_, err := svc.GetOrCreateSession(context.Background(), restaurantID, tableID, "not-the-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetOrCreateSessionUnknownTable(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)

	_, err := svc.GetOrCreateSession(context.Background(), restaurantID, "missing", "")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for missing table, got %v", err)
	}
}

func TestUpdateSessionStatusLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)
	session := openSession(t, svc, restaurantID, tableID)

	for _, status := range []models.SessionStatus{
		models.SessionOrdering,
		models.SessionPaying,
		models.SessionPaid,
		models.SessionClosed,
	} {
		updated, err := svc.UpdateSessionStatus(context.Background(), session.ID, status)
		if err != nil {
			t.Fatalf("advance to %s: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}

	final, err := svc.GetSessionByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if final.ClosedAt == nil {
		t.Fatalf("closed session must record closed_at")
	}
}

func TestUpdateSessionStatusRejectsSkips(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)
	session := openSession(t, svc, restaurantID, tableID)

	_, err := svc.UpdateSessionStatus(context.Background(), session.ID, models.SessionPaid)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition skipping to PAID, got %v", err)
	}
}

func TestUpdateSessionStatusSameStatusIsNoOp(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)
	session := openSession(t, svc, restaurantID, tableID)

	updated, err := svc.UpdateSessionStatus(context.Background(), session.ID, models.SessionOpen)
	if err != nil {
		t.Fatalf("same-status update should succeed: %v", err)
	}
	if updated.Status != models.SessionOpen {
		t.Fatalf("unexpected status %s", updated.Status)
	}
}

func TestUpdateSessionStatusClosedIsTerminal(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)
	session := openSession(t, svc, restaurantID, tableID)

	if err := svc.CloseTableSession(context.Background(), tableID); err != nil {
		t.Fatalf("close table: %v", err)
	}
	_, err := svc.UpdateSessionStatus(context.Background(), session.ID, models.SessionOrdering)
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestCloseTableSessionClearsTable(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)
	session := openSession(t, svc, restaurantID, tableID)

	if err := svc.CloseTableSession(context.Background(), tableID); err != nil {
		t.Fatalf("close table: %v", err)
	}

	closed, err := svc.GetSessionByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if closed.Status != models.SessionClosed || closed.ClosedAt == nil {
		t.Fatalf("session not closed: %#v", closed)
	}

	var current sql.NullString
	if err := db.QueryRow(`SELECT current_session_id FROM dining_tables WHERE id = ?`, tableID).Scan(&current); err != nil {
		t.Fatalf("read table: %v", err)
	}
	if current.Valid && current.String != "" {
		t.Fatalf("table should no longer point at a session")
	}

	// Idempotent: a table without a session closes cleanly.
	if err := svc.CloseTableSession(context.Background(), tableID); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
}

func TestGenerateTablesNumbersSequentially(t *testing.T) {
	svc, db := newTestService(t)
	seedRestaurant(t, db)

	first, err := svc.GenerateTables(context.Background(), "http://localhost:5173", 3)
	if err != nil {
		t.Fatalf("generate tables: %v", err)
	}
	if len(first) != 3 || first[0].Number != 1 || first[2].Number != 3 {
		t.Fatalf("unexpected first batch numbering: %#v", first)
	}

	second, err := svc.GenerateTables(context.Background(), "http://localhost:5173", 2)
	if err != nil {
		t.Fatalf("generate more tables: %v", err)
	}
	if second[0].Number != 4 || second[1].Number != 5 {
		t.Fatalf("numbering must continue after the highest table: %#v", second)
	}
	if second[0].QRCode == "" {
		t.Fatalf("generated table missing QR url")
	}

	tables, err := svc.ListTables(context.Background())
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(tables) != 5 {
		t.Fatalf("expected 5 tables, got %d", len(tables))
	}
}
