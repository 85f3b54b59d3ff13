package models

import "time"

// StaffUser is an account for the kitchen and admin panels.
type StaffUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
