package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	repo "github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

func TestPostgresUserRepository_Create(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("a@b.com", "hash", "Name", 3, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	newID, err := r.Create(context.Background(), &model.User{
		Email:          "a@b.com",
		PasswordHash:   "hash",
		FullName:       "Name",
		Credits:        3,
		Availability:   model.Availability{},
		TeachingSkills: model.SkillList{},
		LearningSkills: model.SkillList{},
	})
	require.NoError(t, err)
	require.Equal(t, id, newID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_DecrementCredits_Insufficient(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET credits = credits - $2`)).
		WithArgs(id, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.DecrementCredits(context.Background(), id, 1)
	require.ErrorIs(t, err, repo.ErrInsufficientCredit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_PurchaseCredits(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance = balance - $2, credits = credits + $2`)).
		WithArgs(id, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.PurchaseCredits(context.Background(), id, 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_PurchaseCredits_InsufficientFunds(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance = balance - $2, credits = credits + $2`)).
		WithArgs(id, 50).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.PurchaseCredits(context.Background(), id, 50)
	require.ErrorIs(t, err, repo.ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Exists(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := r.Exists(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
