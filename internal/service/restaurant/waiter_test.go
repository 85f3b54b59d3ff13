package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"metria/internal/models"
)

func TestCreateWaiterCall(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 7)
	session := openSession(t, svc, restaurantID, tableID)

	call, err := svc.CreateWaiterCall(context.Background(), session.ID, "  mais guardanapos  ")
	if err != nil {
		t.Fatalf("create waiter call: %v", err)
	}
	if call.TableNumber != 7 {
		t.Fatalf("call must carry the session's table number, got %d", call.TableNumber)
	}
	if call.Message != "mais guardanapos" {
		t.Fatalf("message not trimmed: %q", call.Message)
	}
	if call.Status != models.CallPending {
		t.Fatalf("new call must be PENDING, got %s", call.Status)
	}

	if _, err := svc.CreateWaiterCall(context.Background(), "missing", ""); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for unknown session, got %v", err)
	}
}

func TestResolveWaiterCall(t *testing.T) {
	svc, db := newTestService(t)
	restaurantID := seedRestaurant(t, db)
	tableID := seedTable(t, db, restaurantID, 1)
	session := openSession(t, svc, restaurantID, tableID)

	call, err := svc.CreateWaiterCall(context.Background(), session.ID, "conta, por favor")
	if err != nil {
		t.Fatalf("create waiter call: %v", err)
	}
	second, err := svc.CreateWaiterCall(context.Background(), session.ID, "")
	if err != nil {
		t.Fatalf("create second call: %v", err)
	}

	pending, err := svc.ListPendingCalls(context.Background())
	if err != nil {
		t.Fatalf("list pending calls: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending calls, got %d", len(pending))
	}

	if err := svc.ResolveCall(context.Background(), call.ID); err != nil {
		t.Fatalf("resolve call: %v", err)
	}
	pending, err = svc.ListPendingCalls(context.Background())
	if err != nil {
		t.Fatalf("list pending calls: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("resolved call still pending: %#v", pending)
	}

	if err := svc.ResolveCall(context.Background(), call.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows resolving twice, got %v", err)
	}
}
