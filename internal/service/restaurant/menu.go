package restaurant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"metria/internal/models"

	"github.com/google/uuid"
)

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, icon, created_at FROM categories ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category and returns it.
func (s *Service) CreateCategory(ctx context.Context, name, icon string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || icon == "" {
		return nil, errors.New("name and icon are required")
	}
	c := models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, icon, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, c.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// UpdateCategory renames a category.
func (s *Service) UpdateCategory(ctx context.Context, id, name, icon string) error {
	name = strings.TrimSpace(name)
	if name == "" || icon == "" {
		return errors.New("name and icon are required")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ? WHERE id = ?`, name, icon, id,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("category rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCategory removes the category and every menu item filed under it.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("get category: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM menu_items WHERE category = ?`, name); err != nil {
		return fmt.Errorf("delete category items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete category: %w", err)
	}
	return nil
}

// ListMenuItems returns menu items ordered by category then name. With
// onlyAvailable set, items toggled off by the admin are filtered out.
func (s *Service) ListMenuItems(ctx context.Context, onlyAvailable bool) ([]models.MenuItem, error) {
	query := `SELECT id, name, description, price, category, image, ingredients, preparation, allergens, available, created_at
		FROM menu_items`
	if onlyAvailable {
		query += ` WHERE available = 1`
	}
	query += ` ORDER BY category ASC, name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetMenuItem returns one item, or sql.ErrNoRows.
func (s *Service) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, category, image, ingredients, preparation, allergens, available, created_at
		FROM menu_items WHERE id = ?`, id,
	)
	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return item, nil
}

// CreateMenuItem validates and inserts a new dish.
func (s *Service) CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if item.Name == "" || item.Category == "" {
		return nil, errors.New("name and category are required")
	}
	if item.Price <= 0 {
		return nil, errors.New("price must be positive")
	}
	item.ID = uuid.NewString()
	item.Available = true
	item.CreatedAt = time.Now().UTC()

	allergens, err := encodeAllergens(item.Allergens)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, name, description, price, category, image, ingredients, preparation, allergens, available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		item.ID, item.Name, strings.TrimSpace(item.Description), item.Price, item.Category,
		item.Image, strings.TrimSpace(item.Ingredients), strings.TrimSpace(item.Preparation),
		allergens, item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return &item, nil
}

// UpdateMenuItem replaces the editable fields of an existing dish.
func (s *Service) UpdateMenuItem(ctx context.Context, id string, item models.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if item.Name == "" || item.Category == "" {
		return errors.New("name and category are required")
	}
	if item.Price <= 0 {
		return errors.New("price must be positive")
	}
	allergens, err := encodeAllergens(item.Allergens)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE menu_items SET name = ?, description = ?, price = ?, category = ?, image = ?,
			ingredients = ?, preparation = ?, allergens = ?, available = ? WHERE id = ?`,
		item.Name, strings.TrimSpace(item.Description), item.Price, item.Category, item.Image,
		strings.TrimSpace(item.Ingredients), strings.TrimSpace(item.Preparation), allergens,
		item.Available, id,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("menu item rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteMenuItem removes one dish.
func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("menu item rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	var (
		item      models.MenuItem
		allergens string
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.Image, &item.Ingredients, &item.Preparation, &allergens, &item.Available, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan menu item: %w", err)
	}
	if allergens != "" {
		if err := json.Unmarshal([]byte(allergens), &item.Allergens); err != nil {
			return nil, fmt.Errorf("decode allergens: %w", err)
		}
	}
	if item.Allergens == nil {
		item.Allergens = []string{}
	}
	return &item, nil
}

func encodeAllergens(allergens []string) (string, error) {
	if allergens == nil {
		allergens = []string{}
	}
	data, err := json.Marshal(allergens)
	if err != nil {
		return "", fmt.Errorf("encode allergens: %w", err)
	}
	return string(data), nil
}
