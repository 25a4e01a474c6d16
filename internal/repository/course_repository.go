package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

type CourseFilter struct {
	UserID uuid.UUID
	Role   string // "userA", "userB" or "" for either
	Status string // "" or "all" for any
	Limit  int
	Offset int
}

type ProgressUpdate struct {
	ProgressA   int
	ProgressB   int
	Progress    int
	Status      string
	CompletedAt sql.NullTime
}

type CourseRepository interface {
	// Create inserts the course and all its week rows in one transaction.
	Create(ctx context.Context, course *model.Course, weeks []model.CourseWeek) (*model.Course, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindActivePair(ctx context.Context, userA, userB uuid.UUID, statuses []string) (*model.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]model.Course, int, error)
	ListProposals(ctx context.Context, userB uuid.UUID, limit, offset int) ([]model.Course, int, error)
	UpdateStatus(ctx context.Context, course *model.Course) error

	Weeks(ctx context.Context, courseID uuid.UUID) ([]model.CourseWeek, error)
	InsertWeeks(ctx context.Context, weeks []model.CourseWeek) error
	UpdateWeek(ctx context.Context, week *model.CourseWeek) error
	// SetWeekCompleted flags the week and applies the recalculated progress
	// to the course row in one transaction.
	SetWeekCompleted(ctx context.Context, courseID uuid.UUID, side string, week int, update ProgressUpdate) error
}

type postgresCourseRepository struct {
	db *sqlx.DB
}

func NewPostgresCourseRepository(db *sqlx.DB) CourseRepository {
	return &postgresCourseRepository{db: db}
}

const courseColumns = `id, title, description, user_a_id, user_b_id, status, duration_weeks, exchange_type,
	skill_a, level_a, skill_b, level_b, progress_a, progress_b, progress,
	proposed_by, proposed_at, accepted_at, start_date, completed_at, created_at, updated_at`

const weekColumns = `id, course_id, side, week, title, description, content, completed`

func (r *postgresCourseRepository) Create(ctx context.Context, course *model.Course, weeks []model.CourseWeek) (*model.Course, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO courses (title, description, user_a_id, user_b_id, status, duration_weeks, exchange_type,
			skill_a, level_a, skill_b, level_b, proposed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, proposed_at, created_at, updated_at
	`
	row := tx.QueryRowxContext(ctx, insert,
		course.Title, course.Description, course.UserAID, course.UserBID, course.Status,
		course.DurationWeeks, course.ExchangeType,
		course.SkillA, course.LevelA, course.SkillB, course.LevelB, course.ProposedBy)
	if err := row.Scan(&course.ID, &course.ProposedAt, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return nil, err
	}

	for i := range weeks {
		weeks[i].CourseID = course.ID
	}
	if err := insertWeeks(ctx, tx, weeks); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return course, nil
}

func insertWeeks(ctx context.Context, e sqlx.ExtContext, weeks []model.CourseWeek) error {
	query := `
		INSERT INTO course_weeks (course_id, side, week, title, description, content, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, w := range weeks {
		if _, err := e.ExecContext(ctx, query, w.CourseID, w.Side, w.Week, w.Title, w.Description, w.Content, w.Completed); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresCourseRepository) InsertWeeks(ctx context.Context, weeks []model.CourseWeek) error {
	return insertWeeks(ctx, r.db, weeks)
}

func (r *postgresCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	err := r.db.GetContext(ctx, &course, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *postgresCourseRepository) FindActivePair(ctx context.Context, userA, userB uuid.UUID, statuses []string) (*model.Course, error) {
	query := `
		SELECT ` + courseColumns + ` FROM courses
		WHERE ((user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?))
		  AND status IN (?)
		LIMIT 1
	`
	query, args, err := sqlx.In(query, userA, userB, userB, userA, statuses)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var course model.Course
	err = r.db.GetContext(ctx, &course, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *postgresCourseRepository) List(ctx context.Context, filter CourseFilter) ([]model.Course, int, error) {
	base := `FROM courses WHERE `
	args := []interface{}{filter.UserID}
	switch filter.Role {
	case "userA":
		base += `user_a_id = $1`
	case "userB":
		base += `user_b_id = $1`
	default:
		base += `(user_a_id = $1 OR user_b_id = $1)`
	}
	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		base += ` AND status = $2`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) `+base, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + courseColumns + ` ` + base + ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	var courses []model.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, total, nil
}

func (r *postgresCourseRepository) ListProposals(ctx context.Context, userB uuid.UUID, limit, offset int) ([]model.Course, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM courses WHERE user_b_id = $1 AND status = 'pending'`, userB)
	if err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	query := `
		SELECT ` + courseColumns + ` FROM courses
		WHERE user_b_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &courses, query, userB, limit, offset); err != nil {
		return nil, 0, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, total, nil
}

func (r *postgresCourseRepository) UpdateStatus(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses SET status = $2, accepted_at = $3, start_date = $4, completed_at = $5, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, course.ID, course.Status, course.AcceptedAt, course.StartDate, course.CompletedAt)
	return err
}

func (r *postgresCourseRepository) Weeks(ctx context.Context, courseID uuid.UUID) ([]model.CourseWeek, error) {
	var weeks []model.CourseWeek
	query := `SELECT ` + weekColumns + ` FROM course_weeks WHERE course_id = $1 ORDER BY side ASC, week ASC`
	err := r.db.SelectContext(ctx, &weeks, query, courseID)
	return weeks, err
}

func (r *postgresCourseRepository) UpdateWeek(ctx context.Context, week *model.CourseWeek) error {
	query := `
		UPDATE course_weeks SET title = $4, description = $5, content = $6
		WHERE course_id = $1 AND side = $2 AND week = $3
	`
	_, err := r.db.ExecContext(ctx, query, week.CourseID, week.Side, week.Week, week.Title, week.Description, week.Content)
	return err
}

func (r *postgresCourseRepository) SetWeekCompleted(ctx context.Context, courseID uuid.UUID, side string, week int, update ProgressUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	flag := `UPDATE course_weeks SET completed = TRUE WHERE course_id = $1 AND side = $2 AND week = $3`
	if _, err := tx.ExecContext(ctx, flag, courseID, side, week); err != nil {
		return err
	}

	apply := `
		UPDATE courses SET progress_a = $2, progress_b = $3, progress = $4, status = $5, completed_at = $6, updated_at = now()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, apply, courseID,
		update.ProgressA, update.ProgressB, update.Progress, update.Status, update.CompletedAt); err != nil {
		return err
	}

	return tx.Commit()
}
