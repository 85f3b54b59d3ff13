package models

import "time"

// SessionStatus tracks a table visit from seating to checkout.

type SessionStatus string

const (
	SessionOpen     SessionStatus = "OPEN"
	SessionOrdering SessionStatus = "ORDERING"
	SessionPaying   SessionStatus = "PAYING"
	SessionPaid     SessionStatus = "PAID"
	SessionClosed   SessionStatus = "CLOSED"
)

// TableSession groups everything a party does at one table: orders, waiter
// calls, and the maître conversation keyed by its id.
type TableSession struct {
	ID           string        `json:"id"`
	TableID      string        `json:"tableId"`
	RestaurantID string        `json:"restaurantId"`
	TableNumber  int           `json:"tableNumber"`
	Status       SessionStatus `json:"status"`
	Token        string        `json:"token"`
	CreatedAt    time.Time     `json:"createdAt"`
	ClosedAt     *time.Time    `json:"closedAt,omitempty"`
}
