package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RoomID is the deterministic key for a two-party chat: the sorted join of
// both participant ids, so either direction maps to the same room.
func RoomID(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return strings.Join(ids, "_")
}

type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Text       string    `db:"text" json:"text"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Conversation struct {
	RoomID      string    `json:"room_id"`
	LastMessage Message   `json:"last_message"`
	OtherUserID uuid.UUID `json:"other_user_id"`
	UnreadCount int       `json:"unread_count"`
}
