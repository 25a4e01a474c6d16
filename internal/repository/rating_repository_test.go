package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	repo "github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

func TestPostgresRatingRepository_Create_Duplicate(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresRatingRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO ratings`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := r.Create(context.Background(), &model.Rating{
		TeacherID:     uuid.New(),
		StudentID:     uuid.New(),
		AppointmentID: uuid.New(),
		Rating:        5,
	})
	require.ErrorIs(t, err, repo.ErrDuplicateRating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_Stats(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresRatingRepository(sqlxDB)

	teacherID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT rating, COUNT(*) FROM ratings WHERE teacher_id = $1 GROUP BY rating`)).
		WithArgs(teacherID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}).
			AddRow(5, 3).
			AddRow(4, 1))

	stats, err := r.Stats(context.Background(), teacherID)
	require.NoError(t, err)
	require.Equal(t, 4, stats.TotalRatings)
	require.Equal(t, 4.8, stats.AverageRating)
	require.Equal(t, 3, stats.Distribution[5])
	require.Equal(t, 0, stats.Distribution[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_Stats_Empty(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresRatingRepository(sqlxDB)

	teacherID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT rating, COUNT(*) FROM ratings`)).
		WithArgs(teacherID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}))

	stats, err := r.Stats(context.Background(), teacherID)
	require.NoError(t, err)
	require.Zero(t, stats.TotalRatings)
	require.Zero(t, stats.AverageRating)
	require.NoError(t, mock.ExpectationsWereMet())
}
