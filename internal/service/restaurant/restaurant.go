package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"metria/internal/models"
)

// Restaurant profile access. The platform currently serves a single venue, so
// reads take the first document.

// GetRestaurant returns the venue profile, or sql.ErrNoRows when the
// database was never seeded.
func (s *Service) GetRestaurant(ctx context.Context) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, logo, ai_prompt, created_at FROM restaurants ORDER BY created_at ASC LIMIT 1`,
	).Scan(&r.ID, &r.Name, &r.Logo, &r.AIPrompt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &r, nil
}

// CustomPrompt returns the admin-configured maître prompt. A missing
// restaurant document is not an error: the maître falls back to its default
// template.
func (s *Service) CustomPrompt(ctx context.Context) (string, error) {
	r, err := s.GetRestaurant(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return r.AIPrompt, nil
}

// UpdateAIPrompt stores the maître prompt edited from the admin panel.
func (s *Service) UpdateAIPrompt(ctx context.Context, prompt string) error {
	r, err := s.GetRestaurant(ctx)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET ai_prompt = ? WHERE id = ?`, strings.TrimSpace(prompt), r.ID,
	); err != nil {
		return fmt.Errorf("update ai prompt: %w", err)
	}
	return nil
}
