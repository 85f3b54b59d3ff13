package restaurant

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"metria/internal/config"
	"metria/internal/models"
	"metria/internal/storage"

	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()

	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A fresh pool connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db), db
}

func seedRestaurant(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO restaurants (id, name, logo, ai_prompt, created_at) VALUES (?, ?, '', '', ?)`,
		id, "Cantina de Teste", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return id
}

func seedTable(t *testing.T, db *sql.DB, restaurantID string, number int) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO dining_tables (id, number, restaurant_id, qr_code, current_session_id, created_at) VALUES (?, ?, ?, '', NULL, ?)`,
		id, number, restaurantID, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return id
}

func seedMenuItem(t *testing.T, svc *Service, name string, price float64) *models.MenuItem {
	t.Helper()
	item, err := svc.CreateMenuItem(context.Background(), models.MenuItem{
		Name:        name,
		Description: "descrição de teste",
		Price:       price,
		Category:    "Pratos Principais",
	})
	if err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	return item
}

func openSession(t *testing.T, svc *Service, restaurantID, tableID string) *models.TableSession {
	t.Helper()
	session, err := svc.GetOrCreateSession(context.Background(), restaurantID, tableID, "")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return session
}
