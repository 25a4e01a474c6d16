package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/events"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrSelfBooking         = errors.New("cannot book an appointment with yourself")
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrInvalidTime         = errors.New("invalid appointment time")
)

type AppointmentService interface {
	BookAppointment(ctx context.Context, appt *model.Appointment) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, teacherID, studentID *uuid.UUID) ([]model.AppointmentDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, params repository.RescheduleParams) (*model.Appointment, error)
	NextSession(ctx context.Context, userID uuid.UUID, now time.Time) (*model.Appointment, error)
	ActiveSession(ctx context.Context, userID uuid.UUID, now time.Time) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

type appointmentService struct {
	apptRepo  repository.AppointmentRepository
	userRepo  repository.UserRepository
	publisher events.EventPublisher
}

func NewAppointmentService(apptRepo repository.AppointmentRepository, userRepo repository.UserRepository, pub events.EventPublisher) AppointmentService {
	return &appointmentService{apptRepo: apptRepo, userRepo: userRepo, publisher: pub}
}

func (s *appointmentService) BookAppointment(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	if appt.TeacherID == appt.StudentID {
		return nil, ErrSelfBooking
	}
	if _, err := appt.StartTime(); err != nil {
		return nil, ErrInvalidTime
	}

	exists, err := s.userRepo.Exists(ctx, appt.TeacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTeacherNotFound
	}

	booked, err := s.apptRepo.Book(ctx, appt)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			bookingOutcomes.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}
	bookingOutcomes.WithLabelValues("created").Inc()

	go s.publisher.PublishAppointmentCreated(booked)

	return booked, nil
}

func (s *appointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.apptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *appointmentService) ListAppointments(ctx context.Context, teacherID, studentID *uuid.UUID) ([]model.AppointmentDetails, error) {
	return s.apptRepo.List(ctx, teacherID, studentID)
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error) {
	if !model.ValidAppointmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	if status == model.AppointmentStatusCanceled {
		appt, err := s.apptRepo.Cancel(ctx, id)
		if err != nil {
			return nil, err
		}
		if appt == nil {
			return nil, ErrAppointmentNotFound
		}
		bookingOutcomes.WithLabelValues("canceled").Inc()

		go s.publisher.PublishAppointmentCanceled(appt)

		return appt, nil
	}

	appt, err := s.apptRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *appointmentService) Reschedule(ctx context.Context, id uuid.UUID, params repository.RescheduleParams) (*model.Appointment, error) {
	sched := model.Appointment{Date: params.Date, TimeOfDay: params.TimeOfDay}
	if _, err := sched.StartTime(); err != nil {
		return nil, ErrInvalidTime
	}

	exists, err := s.userRepo.Exists(ctx, params.TeacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTeacherNotFound
	}

	appt, err := s.apptRepo.Reschedule(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

// NextSession returns the user's earliest confirmed appointment that has not
// ended yet, or nil when there is none.
func (s *appointmentService) NextSession(ctx context.Context, userID uuid.UUID, now time.Time) (*model.Appointment, error) {
	appts, err := s.apptRepo.ListConfirmedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range appts {
		end, err := appts[i].EndTime()
		if err != nil {
			continue
		}
		if !now.After(end) {
			return &appts[i], nil
		}
	}

	return nil, nil
}

// ActiveSession returns the confirmed appointment whose session window
// contains now, or nil when the user is not in a session.
func (s *appointmentService) ActiveSession(ctx context.Context, userID uuid.UUID, now time.Time) (*model.Appointment, error) {
	appts, err := s.apptRepo.ListConfirmedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range appts {
		if appts[i].ActiveAt(now) {
			return &appts[i], nil
		}
	}

	return nil, nil
}

func (s *appointmentService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.apptRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}
