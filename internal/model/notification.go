package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeMessage           = "message"
	NotificationTypeConnectionRequest = "connection_request"
	NotificationTypeConnectionUpdate  = "connection_update"
)

type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	FromID    uuid.UUID `db:"from_id" json:"from_id"`
	Content   string    `db:"content" json:"content"`
	Read      bool      `db:"read" json:"read"`
	Seen      bool      `db:"seen" json:"seen"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
