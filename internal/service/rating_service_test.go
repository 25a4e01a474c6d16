package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

type fakeApptFinder struct {
	repository.AppointmentRepository
	appt *model.Appointment
}

func (f *fakeApptFinder) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return f.appt, nil
}

type fakeRatingRepo struct {
	repository.RatingRepository
	created *model.Rating
	found   *model.Rating
}

func (f *fakeRatingRepo) Create(ctx context.Context, rating *model.Rating) error {
	rating.ID = uuid.New()
	f.created = rating
	return nil
}

func (f *fakeRatingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	return f.found, nil
}

func (f *fakeRatingRepo) UpdateReply(ctx context.Context, id uuid.UUID, reply string) error {
	f.found.Reply = &reply
	return nil
}

type fakeAggregatesRepo struct {
	repository.UserRepository
	updatedFor []uuid.UUID
}

func (f *fakeAggregatesRepo) UpdateRatingAggregates(ctx context.Context, teacherID uuid.UUID) error {
	f.updatedFor = append(f.updatedFor, teacherID)
	return nil
}

func completedAppt(studentID uuid.UUID) *model.Appointment {
	return &model.Appointment{
		ID:        uuid.New(),
		TeacherID: uuid.New(),
		StudentID: studentID,
		Status:    model.AppointmentStatusCompleted,
	}
}

func TestRateSession_Success(t *testing.T) {
	studentID := uuid.New()
	appt := completedAppt(studentID)
	users := &fakeAggregatesRepo{}
	svc := service.NewRatingService(&fakeRatingRepo{}, &fakeApptFinder{appt: appt}, users)

	rating, err := svc.RateSession(context.Background(), studentID, appt.ID, 5, "great session")
	require.NoError(t, err)
	require.Equal(t, appt.TeacherID, rating.TeacherID)
	require.Equal(t, []uuid.UUID{appt.TeacherID}, users.updatedFor)
}

func TestRateSession_OutOfRange(t *testing.T) {
	svc := service.NewRatingService(&fakeRatingRepo{}, &fakeApptFinder{}, &fakeAggregatesRepo{})

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.RateSession(context.Background(), uuid.New(), uuid.New(), rating, "")
		require.ErrorIs(t, err, service.ErrRatingOutOfRange)
	}
}

func TestRateSession_NotStudent(t *testing.T) {
	appt := completedAppt(uuid.New())
	svc := service.NewRatingService(&fakeRatingRepo{}, &fakeApptFinder{appt: appt}, &fakeAggregatesRepo{})

	_, err := svc.RateSession(context.Background(), uuid.New(), appt.ID, 4, "")
	require.ErrorIs(t, err, service.ErrNotSessionStudent)
}

func TestRateSession_NotCompleted(t *testing.T) {
	studentID := uuid.New()
	appt := completedAppt(studentID)
	appt.Status = model.AppointmentStatusConfirmed
	svc := service.NewRatingService(&fakeRatingRepo{}, &fakeApptFinder{appt: appt}, &fakeAggregatesRepo{})

	_, err := svc.RateSession(context.Background(), studentID, appt.ID, 4, "")
	require.ErrorIs(t, err, service.ErrSessionNotRatable)
}

func TestReply_OnlyRatedTeacher(t *testing.T) {
	teacherID := uuid.New()
	ratingRepo := &fakeRatingRepo{found: &model.Rating{ID: uuid.New(), TeacherID: teacherID}}
	svc := service.NewRatingService(ratingRepo, &fakeApptFinder{}, &fakeAggregatesRepo{})

	err := svc.Reply(context.Background(), ratingRepo.found.ID, uuid.New(), "thanks")
	require.ErrorIs(t, err, service.ErrNotRatingRecipient)

	require.NoError(t, svc.Reply(context.Background(), ratingRepo.found.ID, teacherID, "thanks"))
	require.NotNil(t, ratingRepo.found.Reply)
}
