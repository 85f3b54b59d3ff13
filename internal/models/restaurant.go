package models

import "time"

// Restaurant is the single configuration document for the venue, including
// the custom maître prompt editable from the admin panel.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	AIPrompt  string    `json:"aiPrompt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
