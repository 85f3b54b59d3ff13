package restaurant

import (
	"database/sql"
	"errors"
)

// Service owns all reads and writes against the restaurant document tables.
type Service struct {
	db *sql.DB
}

// NewService builds a new restaurant service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrInvalidToken      = errors.New("invalid session token")
	ErrInvalidTransition = errors.New("invalid session status transition")
	ErrSessionClosed     = errors.New("session is closed")
)
