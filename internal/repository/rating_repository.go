package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

// ErrDuplicateRating maps the unique (appointment_id, student_id) violation.
var ErrDuplicateRating = errors.New("session already rated by this student")

type RatingStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalRatings  int         `json:"total_ratings"`
	Distribution  map[int]int `json:"distribution"`
}

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rating, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error)
	Stats(ctx context.Context, teacherID uuid.UUID) (*RatingStats, error)
	UpdateReply(ctx context.Context, id uuid.UUID, reply string) error
}

type postgresRatingRepository struct {
	db *sqlx.DB
}

func NewPostgresRatingRepository(db *sqlx.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO ratings (teacher_id, student_id, appointment_id, rating, review)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		rating.TeacherID, rating.StudentID, rating.AppointmentID, rating.Rating, rating.Review)
	err := row.Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRating
		}
		return err
	}
	return nil
}

func (r *postgresRatingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	var rating model.Rating
	query := `SELECT id, teacher_id, student_id, appointment_id, rating, review, reply, created_at FROM ratings WHERE id = $1`
	err := r.db.GetContext(ctx, &rating, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

const ratingDetailsQuery = `
	SELECT r.id, r.teacher_id, r.student_id, r.appointment_id, r.rating, r.review, r.reply, r.created_at,
	       s.full_name AS student_name, t.full_name AS teacher_name
	FROM ratings r
	JOIN users s ON r.student_id = s.id
	JOIN users t ON r.teacher_id = t.id
`

func (r *postgresRatingRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ratings WHERE teacher_id = $1`, teacherID); err != nil {
		return nil, 0, err
	}

	var ratings []model.RatingDetails
	query := ratingDetailsQuery + ` WHERE r.teacher_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &ratings, query, teacherID, limit, offset); err != nil {
		return nil, 0, err
	}
	if ratings == nil {
		ratings = []model.RatingDetails{}
	}
	return ratings, total, nil
}

func (r *postgresRatingRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ratings WHERE student_id = $1`, studentID); err != nil {
		return nil, 0, err
	}

	var ratings []model.RatingDetails
	query := ratingDetailsQuery + ` WHERE r.student_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &ratings, query, studentID, limit, offset); err != nil {
		return nil, 0, err
	}
	if ratings == nil {
		ratings = []model.RatingDetails{}
	}
	return ratings, total, nil
}

func (r *postgresRatingRepository) Stats(ctx context.Context, teacherID uuid.UUID) (*RatingStats, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT rating, COUNT(*) FROM ratings WHERE teacher_id = $1 GROUP BY rating`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &RatingStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.Distribution[rating] = count
		stats.TotalRatings += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.TotalRatings > 0 {
		avg := float64(sum) / float64(stats.TotalRatings)
		stats.AverageRating = float64(int(avg*10+0.5)) / 10
	}
	return stats, nil
}

func (r *postgresRatingRepository) UpdateReply(ctx context.Context, id uuid.UUID, reply string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE ratings SET reply = $2 WHERE id = $1`, id, reply)
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
