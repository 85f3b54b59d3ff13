package models

import "time"

// DiningTable is a physical table with its printed QR entry point. QRCode is
// the encoded URL only; image rendering happens client side.
type DiningTable struct {
	ID               string    `json:"id"`
	Number           int       `json:"number"`
	RestaurantID     string    `json:"restaurantId"`
	QRCode           string    `json:"qrCode"`
	CurrentSessionID string    `json:"currentSessionId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
