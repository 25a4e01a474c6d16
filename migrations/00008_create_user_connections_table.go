package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateUserConnectionsTable, downCreateUserConnectionsTable)
}

func upCreateUserConnectionsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS user_connections (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			requester_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			UNIQUE (requester_id, recipient_id)
		);

		CREATE INDEX IF NOT EXISTS idx_user_connections_recipient_id ON user_connections(recipient_id);
	`)
	return err
}

func downCreateUserConnectionsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS user_connections;`)
	return err
}
