package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAppointmentsTable, downCreateAppointmentsTable)
}

func upCreateAppointmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE appointments (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  date DATE NOT NULL,
	  time_of_day TEXT NOT NULL,
	  status TEXT NOT NULL DEFAULT 'pending',
	  course_id UUID,
	  course_week INTEGER,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_appointments_teacher_id ON appointments(teacher_id);
	CREATE INDEX idx_appointments_student_id ON appointments(student_id);

	-- Canceled rows free the slot, so uniqueness only covers live bookings.
	CREATE UNIQUE INDEX uniq_appointments_teacher_slot
	  ON appointments(teacher_id, date, time_of_day)
	  WHERE status <> 'canceled';
	CREATE UNIQUE INDEX uniq_appointments_student_slot
	  ON appointments(student_id, date, time_of_day)
	  WHERE status <> 'canceled';
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateAppointmentsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS appointments;`)
	return err
}
