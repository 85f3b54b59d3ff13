package models

import "time"

// Category groups menu items in the client and admin UIs.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// MenuItem is one dish or drink. Only name, description, price and category
// feed the maître prompt; the rest serves the menu screens.
type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	CategoryIcon string    `json:"categoryIcon,omitempty"`
	Image        string    `json:"image,omitempty"`
	Ingredients  string    `json:"ingredients,omitempty"`
	Preparation  string    `json:"preparation,omitempty"`
	Allergens    []string  `json:"allergens"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
}
