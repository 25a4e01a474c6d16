package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateMessagesTable, downCreateMessagesTable)
}

func upCreateMessagesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			room_id TEXT NOT NULL,
			sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_messages_room_id ON messages(room_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_messages_receiver_id ON messages(receiver_id);
	`)
	return err
}

func downCreateMessagesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS messages;`)
	return err
}
