package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCoursesTables, downCreateCoursesTables)
}

func upCreateCoursesTables(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE courses (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  title TEXT NOT NULL,
	  description TEXT NOT NULL DEFAULT '',
	  user_a_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  user_b_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  status TEXT NOT NULL DEFAULT 'pending',
	  duration_weeks INTEGER NOT NULL,
	  exchange_type TEXT NOT NULL,
	  skill_a TEXT NOT NULL DEFAULT '',
	  level_a TEXT NOT NULL DEFAULT '',
	  skill_b TEXT NOT NULL DEFAULT '',
	  level_b TEXT NOT NULL DEFAULT '',
	  progress_a INTEGER NOT NULL DEFAULT 0,
	  progress_b INTEGER NOT NULL DEFAULT 0,
	  progress INTEGER NOT NULL DEFAULT 0,
	  proposed_by UUID NOT NULL,
	  proposed_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  accepted_at TIMESTAMP WITH TIME ZONE,
	  start_date TIMESTAMP WITH TIME ZONE,
	  completed_at TIMESTAMP WITH TIME ZONE,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_courses_user_a_id ON courses(user_a_id);
	CREATE INDEX idx_courses_user_b_id ON courses(user_b_id);

	CREATE TABLE course_weeks (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	  side TEXT NOT NULL,
	  week INTEGER NOT NULL,
	  title TEXT NOT NULL DEFAULT '',
	  description TEXT NOT NULL DEFAULT '',
	  content JSONB NOT NULL DEFAULT '[]',
	  completed BOOLEAN NOT NULL DEFAULT FALSE,
	  UNIQUE (course_id, side, week)
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCoursesTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE IF EXISTS course_weeks;
	DROP TABLE IF EXISTS courses;
	`)
	return err
}
