package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
)

// Connection is one edge of the user connection graph. A pending row is a
// request from requester to recipient; an accepted row links both users.
type Connection struct {
	ID          uuid.UUID `db:"id" json:"id"`
	RequesterID uuid.UUID `db:"requester_id" json:"requester_id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ConnectionSets is a user's view over the connection graph.
type ConnectionSets struct {
	Sent        []uuid.UUID `json:"sent_requests"`
	Received    []uuid.UUID `json:"received_requests"`
	Connections []uuid.UUID `json:"connections"`
}
