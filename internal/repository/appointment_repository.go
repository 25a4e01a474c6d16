package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

// ErrSlotTaken is returned when either participant already has a non-canceled
// appointment at the requested (date, time).
var ErrSlotTaken = errors.New("time slot already booked")

type RescheduleParams struct {
	TeacherID uuid.UUID
	Date      time.Time
	TimeOfDay string
}

type AppointmentRepository interface {
	// Book debits one credit from the student and inserts the pending
	// appointment in a single transaction.
	Book(ctx context.Context, appt *model.Appointment) (*model.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, teacherID, studentID *uuid.UUID) ([]model.AppointmentDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error)
	// Cancel marks the appointment canceled and refunds the student one
	// credit, in one transaction. Canceling an already-canceled appointment
	// returns it unchanged without a refund.
	Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, params RescheduleParams) (*model.Appointment, error)
	ListConfirmedByUser(ctx context.Context, userID uuid.UUID) ([]model.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresAppointmentRepository struct {
	db *sqlx.DB
}

func NewPostgresAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &postgresAppointmentRepository{db: db}
}

const appointmentColumns = `id, teacher_id, student_id, date, time_of_day, status, course_id, course_week, created_at, updated_at`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func slotTaken(ctx context.Context, q sqlx.QueryerContext, teacherID, studentID uuid.UUID, date time.Time, timeOfDay string, exclude uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE (teacher_id IN ($1, $2) OR student_id IN ($1, $2))
			  AND date = $3 AND time_of_day = $4
			  AND status <> 'canceled'
			  AND id <> $5
		)
	`
	err := sqlx.GetContext(ctx, q, &exists, query, teacherID, studentID, date, timeOfDay, exclude)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresAppointmentRepository) Book(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	taken, err := slotTaken(ctx, tx, appt.TeacherID, appt.StudentID, appt.Date, appt.TimeOfDay, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	debit := `UPDATE users SET credits = credits - 1, updated_at = now() WHERE id = $1 AND credits >= 1`
	result, err := tx.ExecContext(ctx, debit, appt.StudentID)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInsufficientCredit
	}

	insert := `
		INSERT INTO appointments (teacher_id, student_id, date, time_of_day, status, course_id, course_week)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)
		RETURNING id, status, created_at, updated_at
	`
	row := tx.QueryRowxContext(ctx, insert,
		appt.TeacherID, appt.StudentID, appt.Date, appt.TimeOfDay, appt.CourseID, appt.CourseWeek)
	if err := row.Scan(&appt.ID, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt); err != nil {
		// The partial unique slot indexes are the backstop against the
		// check-then-insert race between concurrent bookings.
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return appt, nil
}

func (r *postgresAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	err := r.db.GetContext(ctx, &appt, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &appt, nil
}

func (r *postgresAppointmentRepository) List(ctx context.Context, teacherID, studentID *uuid.UUID) ([]model.AppointmentDetails, error) {
	query := `
		SELECT a.id, a.teacher_id, a.student_id, a.date, a.time_of_day, a.status,
		       a.course_id, a.course_week, a.created_at, a.updated_at,
		       t.full_name AS teacher_name, s.full_name AS student_name
		FROM appointments a
		JOIN users t ON a.teacher_id = t.id
		JOIN users s ON a.student_id = s.id
		WHERE ($1::uuid IS NULL OR a.teacher_id = $1)
		  AND ($2::uuid IS NULL OR a.student_id = $2)
		ORDER BY a.date ASC, a.time_of_day ASC
	`
	var appts []model.AppointmentDetails
	err := r.db.SelectContext(ctx, &appts, query, teacherID, studentID)
	if err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []model.AppointmentDetails{}
	}
	return appts, nil
}

func (r *postgresAppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error) {
	var appt model.Appointment
	query := `
		UPDATE appointments SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + appointmentColumns + `
	`
	err := r.db.GetContext(ctx, &appt, query, id, status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *postgresAppointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var appt model.Appointment
	// The status guard makes re-canceling a no-op: no row updates, no refund.
	update := `
		UPDATE appointments SET status = 'canceled', updated_at = now()
		WHERE id = $1 AND status <> 'canceled'
		RETURNING ` + appointmentColumns + `
	`
	err = sqlx.GetContext(ctx, tx, &appt, update, id)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, err
		}
		err = sqlx.GetContext(ctx, tx, &appt, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, err
		}
		// Already canceled; nothing to refund.
		return &appt, tx.Commit()
	}

	refund := `UPDATE users SET credits = credits + 1, updated_at = now() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, refund, appt.StudentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &appt, nil
}

func (r *postgresAppointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, params RescheduleParams) (*model.Appointment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current model.Appointment
	err = sqlx.GetContext(ctx, tx, &current, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	taken, err := slotTaken(ctx, tx, params.TeacherID, current.StudentID, params.Date, params.TimeOfDay, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	var appt model.Appointment
	update := `
		UPDATE appointments SET teacher_id = $2, date = $3, time_of_day = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + appointmentColumns + `
	`
	err = sqlx.GetContext(ctx, tx, &appt, update, id, params.TeacherID, params.Date, params.TimeOfDay)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &appt, nil
}

func (r *postgresAppointmentRepository) ListConfirmedByUser(ctx context.Context, userID uuid.UUID) ([]model.Appointment, error) {
	var appts []model.Appointment
	query := `
		SELECT ` + appointmentColumns + ` FROM appointments
		WHERE (teacher_id = $1 OR student_id = $1) AND status = 'confirmed'
		ORDER BY date ASC, time_of_day ASC
	`
	err := r.db.SelectContext(ctx, &appts, query, userID)
	return appts, err
}

func (r *postgresAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
