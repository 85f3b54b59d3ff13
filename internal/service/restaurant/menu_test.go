package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"metria/internal/models"
)

func TestCategoryCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, "Sobremesas", "🍰")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("category must get an id")
	}

	if err := svc.UpdateCategory(ctx, created.ID, "Doces", "🍮"); err != nil {
		t.Fatalf("update category: %v", err)
	}
	categories, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Doces" || categories[0].Icon != "🍮" {
		t.Fatalf("unexpected categories: %#v", categories)
	}

	if err := svc.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if err := svc.DeleteCategory(ctx, created.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows deleting twice, got %v", err)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateCategory(context.Background(), "  ", "🍰"); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := svc.CreateCategory(context.Background(), "Sobremesas", ""); err == nil {
		t.Fatalf("expected error for missing icon")
	}
}

func TestDeleteCategoryRemovesItsMenuItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Massas", "🍝")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	item, err := svc.CreateMenuItem(ctx, models.MenuItem{
		Name: "Carbonara", Price: 45, Category: "Massas",
	})
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	other := seedMenuItem(t, svc, "Filé Mignon", 89.90)

	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := svc.GetMenuItem(ctx, item.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("item in deleted category should be gone, got %v", err)
	}
	if _, err := svc.GetMenuItem(ctx, other.ID); err != nil {
		t.Fatalf("item in another category must survive: %v", err)
	}
}

func TestMenuItemCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMenuItem(ctx, models.MenuItem{
		Name:        "Salada Caesar",
		Description: "Alface romana com molho caesar",
		Price:       22.50,
		Category:    "Saladas",
		Ingredients: "alface, parmesão, croutons",
		Allergens:   []string{"lactose", "glúten"},
	})
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	if !created.Available {
		t.Fatalf("new items must default to available")
	}

	loaded, err := svc.GetMenuItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("get menu item: %v", err)
	}
	if !reflect.DeepEqual(loaded.Allergens, []string{"lactose", "glúten"}) {
		t.Fatalf("allergens did not round trip: %#v", loaded.Allergens)
	}
	if loaded.Price != 22.50 {
		t.Fatalf("unexpected price %f", loaded.Price)
	}

	loaded.Name = "Salada Caesar Grande"
	loaded.Price = 28
	loaded.Available = false
	if err := svc.UpdateMenuItem(ctx, created.ID, *loaded); err != nil {
		t.Fatalf("update menu item: %v", err)
	}

	updated, err := svc.GetMenuItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload menu item: %v", err)
	}
	if updated.Name != "Salada Caesar Grande" || updated.Price != 28 || updated.Available {
		t.Fatalf("update not applied: %#v", updated)
	}

	if err := svc.DeleteMenuItem(ctx, created.ID); err != nil {
		t.Fatalf("delete menu item: %v", err)
	}
	if err := svc.DeleteMenuItem(ctx, created.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows deleting twice, got %v", err)
	}
}

func TestCreateMenuItemValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMenuItem(ctx, models.MenuItem{Name: "", Price: 10, Category: "X"}); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, err := svc.CreateMenuItem(ctx, models.MenuItem{Name: "Suco", Price: 0, Category: "Bebidas"}); err == nil {
		t.Fatalf("expected error for non-positive price")
	}
}

func TestListMenuItemsAvailabilityFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	visible := seedMenuItem(t, svc, "Bruschetta", 18.90)
	hidden := seedMenuItem(t, svc, "Petit Gâteau", 24.90)
	hidden.Available = false
	if err := svc.UpdateMenuItem(ctx, hidden.ID, *hidden); err != nil {
		t.Fatalf("hide item: %v", err)
	}

	all, err := svc.ListMenuItems(ctx, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items, got %d", len(all))
	}

	available, err := svc.ListMenuItems(ctx, true)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 || available[0].ID != visible.ID {
		t.Fatalf("availability filter failed: %#v", available)
	}
}
