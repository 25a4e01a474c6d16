package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

type stubApptRepo struct {
	repository.AppointmentRepository
	bookErr error
}

func (s *stubApptRepo) Book(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	appt.ID = uuid.New()
	appt.Status = model.AppointmentStatusPending
	return appt, nil
}

func (s *stubApptRepo) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return &model.Appointment{ID: id, Status: model.AppointmentStatusCanceled}, nil
}

type stubUserRepo struct {
	repository.UserRepository
}

func (stubUserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

type stubPublisher struct{}

func (stubPublisher) PublishAppointmentCreated(appt *model.Appointment) error  { return nil }
func (stubPublisher) PublishAppointmentCanceled(appt *model.Appointment) error { return nil }
func (stubPublisher) PublishCourseAccepted(course *model.Course) error         { return nil }
func (stubPublisher) PublishNotificationCreated(n *model.Notification) error   { return nil }

func validBooking() *model.Appointment {
	return &model.Appointment{
		TeacherID: uuid.New(),
		StudentID: uuid.New(),
		Date:      time.Now(),
		TimeOfDay: "10:00",
	}
}

func TestBookingOutcomeCounters(t *testing.T) {
	created := testutil.ToFloat64(bookingOutcomes.WithLabelValues("created"))
	conflict := testutil.ToFloat64(bookingOutcomes.WithLabelValues("conflict"))
	canceled := testutil.ToFloat64(bookingOutcomes.WithLabelValues("canceled"))

	svc := NewAppointmentService(&stubApptRepo{}, stubUserRepo{}, stubPublisher{})

	_, err := svc.BookAppointment(context.Background(), validBooking())
	require.NoError(t, err)
	require.Equal(t, created+1, testutil.ToFloat64(bookingOutcomes.WithLabelValues("created")))

	conflicting := NewAppointmentService(&stubApptRepo{bookErr: repository.ErrSlotTaken}, stubUserRepo{}, stubPublisher{})
	_, err = conflicting.BookAppointment(context.Background(), validBooking())
	require.ErrorIs(t, err, repository.ErrSlotTaken)
	require.Equal(t, conflict+1, testutil.ToFloat64(bookingOutcomes.WithLabelValues("conflict")))

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), model.AppointmentStatusCanceled)
	require.NoError(t, err)
	require.Equal(t, canceled+1, testutil.ToFloat64(bookingOutcomes.WithLabelValues("canceled")))
}
