package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsersTable, downCreateUsersTable)
}

func upCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE users (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  email TEXT UNIQUE NOT NULL,
	  password_hash TEXT NOT NULL,
	  full_name TEXT,
	  avatar_url TEXT,
	  role TEXT NOT NULL DEFAULT 'user',
	  banned BOOLEAN NOT NULL DEFAULT FALSE,
	  balance NUMERIC(12, 2) NOT NULL DEFAULT 0,
	  credits INTEGER NOT NULL DEFAULT 3 CHECK (credits >= 0),
	  availability JSONB NOT NULL DEFAULT '{}',
	  teaching_skills JSONB NOT NULL DEFAULT '[]',
	  learning_skills JSONB NOT NULL DEFAULT '[]',
	  average_rating NUMERIC(3, 1) NOT NULL DEFAULT 0,
	  rating_count INTEGER NOT NULL DEFAULT 0,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS users;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
