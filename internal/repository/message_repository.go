package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

type MessageRepository interface {
	Save(ctx context.Context, msg *model.Message) error
	ListByRoom(ctx context.Context, roomID string) ([]model.Message, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error)
	MarkRead(ctx context.Context, roomID string, receiverID uuid.UUID) error
}

type postgresMessageRepository struct {
	db *sqlx.DB
}

func NewPostgresMessageRepository(db *sqlx.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (room_id, sender_id, receiver_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, msg.RoomID, msg.SenderID, msg.ReceiverID, msg.Text)
	return row.Scan(&msg.ID, &msg.CreatedAt)
}

func (r *postgresMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]model.Message, error) {
	var messages []model.Message
	query := `
		SELECT id, room_id, sender_id, receiver_id, text, read, created_at
		FROM messages WHERE room_id = $1 ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, roomID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

func (r *postgresMessageRepository) Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error) {
	// Latest message per room the user participates in, plus unread count.
	query := `
		SELECT DISTINCT ON (m.room_id)
		       m.id, m.room_id, m.sender_id, m.receiver_id, m.text, m.read, m.created_at,
		       (SELECT COUNT(*) FROM messages u
		        WHERE u.room_id = m.room_id AND u.receiver_id = $1 AND u.read = FALSE) AS unread_count
		FROM messages m
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.room_id, m.created_at DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []model.Conversation{}
	for rows.Next() {
		var msg model.Message
		var unread int
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.ReceiverID,
			&msg.Text, &msg.Read, &msg.CreatedAt, &unread); err != nil {
			return nil, err
		}
		other := msg.SenderID
		if other == userID {
			other = msg.ReceiverID
		}
		conversations = append(conversations, model.Conversation{
			RoomID:      msg.RoomID,
			LastMessage: msg,
			OtherUserID: other,
			UnreadCount: unread,
		})
	}
	return conversations, rows.Err()
}

func (r *postgresMessageRepository) MarkRead(ctx context.Context, roomID string, receiverID uuid.UUID) error {
	query := `UPDATE messages SET read = TRUE WHERE room_id = $1 AND receiver_id = $2 AND read = FALSE`
	_, err := r.db.ExecContext(ctx, query, roomID, receiverID)
	return err
}
