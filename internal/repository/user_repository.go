package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

var (
	// ErrInsufficientCredit is returned when a conditional credit debit matches no row.
	ErrInsufficientCredit = errors.New("insufficient credits")
	// ErrInsufficientFunds is returned when a purchase exceeds the monetary balance.
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type UpdateProfileParams struct {
	FullName       *string
	AvatarURL      *string
	Availability   model.Availability
	TeachingSkills model.SkillList
	LearningSkills model.SkillList
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error

	IncrementCredits(ctx context.Context, id uuid.UUID, amount int) error
	DecrementCredits(ctx context.Context, id uuid.UUID, amount int) error
	PurchaseCredits(ctx context.Context, id uuid.UUID, amount int) error
	UpdateRatingAggregates(ctx context.Context, teacherID uuid.UUID) error

	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	GetDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, avatar_url, role, banned, balance, credits,
	availability, teaching_skills, learning_skills, average_rating, rating_count, created_at, updated_at`

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, credits, availability, teaching_skills, learning_skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Credits,
		user.Availability, user.TeachingSkills, user.LearningSkills,
	).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) error {
	query := `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			avatar_url = COALESCE($3, avatar_url),
			availability = COALESCE($4, availability),
			teaching_skills = COALESCE($5, teaching_skills),
			learning_skills = COALESCE($6, learning_skills),
			updated_at = now()
		WHERE id = $1
	`
	var availability, teaching, learning interface{}
	if params.Availability != nil {
		availability = params.Availability
	}
	if params.TeachingSkills != nil {
		teaching = params.TeachingSkills
	}
	if params.LearningSkills != nil {
		learning = params.LearningSkills
	}

	_, err := r.db.ExecContext(ctx, query, id, params.FullName, params.AvatarURL, availability, teaching, learning)
	return err
}

func (r *postgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Appointments cascade via FK; other records keep their rows.
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *postgresUserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET banned = $2, updated_at = now() WHERE id = $1`, id, banned)
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

func (r *postgresUserRepository) IncrementCredits(ctx context.Context, id uuid.UUID, amount int) error {
	query := `UPDATE users SET credits = credits + $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, amount)
	return err
}

// DecrementCredits applies a conditional single-statement debit so the balance
// never goes below zero, regardless of concurrent bookings.
func (r *postgresUserRepository) DecrementCredits(ctx context.Context, id uuid.UUID, amount int) error {
	query := `UPDATE users SET credits = credits - $2, updated_at = now() WHERE id = $1 AND credits >= $2`
	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInsufficientCredit
	}
	return nil
}

// PurchaseCredits converts monetary balance to credits 1:1 in one statement.
func (r *postgresUserRepository) PurchaseCredits(ctx context.Context, id uuid.UUID, amount int) error {
	query := `
		UPDATE users SET balance = balance - $2, credits = credits + $2, updated_at = now()
		WHERE id = $1 AND balance >= $2
	`
	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (r *postgresUserRepository) UpdateRatingAggregates(ctx context.Context, teacherID uuid.UUID) error {
	query := `
		UPDATE users SET
			average_rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM ratings WHERE teacher_id = $1), 0),
			rating_count = (SELECT COUNT(*) FROM ratings WHERE teacher_id = $1),
			updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, teacherID)
	return err
}

func (r *postgresUserRepository) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO user_device_tokens (user_id, device_token)
		VALUES ($1, $2)
		ON CONFLICT (user_id, device_token) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

func (r *postgresUserRepository) GetDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	query := `SELECT device_token FROM user_device_tokens WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &tokens, query, userID)
	return tokens, err
}
