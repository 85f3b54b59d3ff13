package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type seedItem struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Icon        string
	Ingredients string
	Allergens   []string
}

var seedCategories = []struct {
	Name string
	Icon string
}{
	{"Entradas", "🥗"},
	{"Pratos Principais", "🍖"},
	{"Massas", "🍝"},
	{"Pizzas", "🍕"},
	{"Saladas", "🥬"},
	{"Sobremesas", "🍰"},
	{"Bebidas", "🍷"},
}

var seedMenu = []seedItem{
	{
		Name:        "Bruschetta Italiana",
		Description: "Pão italiano tostado com tomate, manjericão e azeite extra virgem",
		Price:       18.90,
		Category:    "Entradas",
		Icon:        "🥗",
		Ingredients: "Pão italiano, tomate, manjericão, alho, azeite extra virgem",
		Allergens:   []string{"Glúten"},
	},
	{
		Name:        "Filé Mignon Grelhado",
		Description: "Filé mignon grelhado com batatas rústicas e legumes salteados",
		Price:       65.90,
		Category:    "Pratos Principais",
		Icon:        "🍖",
		Ingredients: "Filé mignon, batatas, brócolis, cenoura, abobrinha",
	},
	{
		Name:        "Spaghetti Carbonara",
		Description: "Massa italiana com molho cremoso, bacon e parmesão",
		Price:       42.50,
		Category:    "Massas",
		Icon:        "🍝",
		Ingredients: "Spaghetti, bacon, ovos, parmesão, pimenta do reino",
		Allergens:   []string{"Glúten", "Ovos", "Lactose"},
	},
	{
		Name:        "Pizza Margherita",
		Description: "Molho de tomate, mussarela, manjericão fresco",
		Price:       35.00,
		Category:    "Pizzas",
		Icon:        "🍕",
		Ingredients: "Massa, molho de tomate, mussarela, manjericão",
		Allergens:   []string{"Glúten", "Lactose"},
	},
	{
		Name:        "Salada Caesar",
		Description: "Alface romana, croutons, parmesão, molho caesar",
		Price:       22.50,
		Category:    "Saladas",
		Icon:        "🥬",
		Ingredients: "Alface romana, croutons, parmesão, molho caesar",
		Allergens:   []string{"Glúten", "Lactose"},
	},
	{
		Name:        "Petit Gâteau",
		Description: "Bolo de chocolate com recheio cremoso e sorvete de creme",
		Price:       24.00,
		Category:    "Sobremesas",
		Icon:        "🍰",
		Ingredients: "Chocolate, ovos, farinha, sorvete de creme",
		Allergens:   []string{"Glúten", "Ovos", "Lactose"},
	},
	{
		Name:        "Suco de Laranja",
		Description: "Suco natural da fruta",
		Price:       8.50,
		Category:    "Bebidas",
		Icon:        "🍷",
		Ingredients: "Laranja",
	},
}

const seedTableCount = 4

// Seed loads a sample restaurant, categories, menu and tables into an empty
// database. Running it against a populated database is a no-op.
func Seed(ctx context.Context, db *sql.DB, publicBaseURL string) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count); err != nil {
		return fmt.Errorf("count restaurants: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	restaurantID := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO restaurants (id, name, logo, ai_prompt, created_at) VALUES (?, ?, ?, ?, ?)`,
		restaurantID, "Restaurante Exemplo", "", "", now,
	)
	if err != nil {
		return fmt.Errorf("seed restaurant: %w", err)
	}

	for _, c := range seedCategories {
		_, err := db.ExecContext(ctx,
			`INSERT INTO categories (id, name, icon, created_at) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), c.Name, c.Icon, now,
		)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}

	for _, item := range seedMenu {
		allergens := item.Allergens
		if allergens == nil {
			allergens = []string{}
		}
		allergensJSON, err := json.Marshal(allergens)
		if err != nil {
			return fmt.Errorf("encode allergens: %w", err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO menu_items (id, name, description, price, category, image, ingredients, preparation, allergens, available, created_at)
			VALUES (?, ?, ?, ?, ?, '', ?, '', ?, 1, ?)`,
			uuid.NewString(), item.Name, item.Description, item.Price, item.Category, item.Ingredients, string(allergensJSON), now,
		)
		if err != nil {
			return fmt.Errorf("seed menu item %s: %w", item.Name, err)
		}
	}

	for n := 1; n <= seedTableCount; n++ {
		tableID := uuid.NewString()
		qr := fmt.Sprintf("%s/m/%s/%s?t=", publicBaseURL, restaurantID, tableID)
		_, err := db.ExecContext(ctx,
			`INSERT INTO dining_tables (id, number, restaurant_id, qr_code, current_session_id, created_at) VALUES (?, ?, ?, ?, NULL, ?)`,
			tableID, n, restaurantID, qr, now,
		)
		if err != nil {
			return fmt.Errorf("seed table %d: %w", n, err)
		}
	}
	return nil
}
