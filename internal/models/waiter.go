package models

import "time"

type CallStatus string

const (
	CallPending  CallStatus = "PENDING"
	CallResolved CallStatus = "RESOLVED"
)

// WaiterCall is a staff notification raised from a table session.
type WaiterCall struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"sessionId"`
	TableNumber int        `json:"tableNumber"`
	Message     string     `json:"message"`
	Status      CallStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}
