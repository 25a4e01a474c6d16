package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrRatingNotFound     = errors.New("rating not found")
	ErrNotRatingRecipient = errors.New("only the rated teacher can reply")
	ErrNotSessionStudent  = errors.New("only the session student can rate it")
	ErrSessionNotRatable  = errors.New("session has not been completed yet")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
)

type RatingService interface {
	RateSession(ctx context.Context, studentID, appointmentID uuid.UUID, rating int, review string) (*model.Rating, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error)
	Stats(ctx context.Context, teacherID uuid.UUID) (*repository.RatingStats, error)
	Reply(ctx context.Context, ratingID, teacherID uuid.UUID, reply string) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	apptRepo   repository.AppointmentRepository
	userRepo   repository.UserRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, apptRepo repository.AppointmentRepository, userRepo repository.UserRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		apptRepo:   apptRepo,
		userRepo:   userRepo,
	}
}

func (s *ratingService) RateSession(ctx context.Context, studentID, appointmentID uuid.UUID, rating int, review string) (*model.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	appt, err := s.apptRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.StudentID != studentID {
		return nil, ErrNotSessionStudent
	}
	if appt.Status != model.AppointmentStatusCompleted {
		return nil, ErrSessionNotRatable
	}

	newRating := &model.Rating{
		TeacherID:     appt.TeacherID,
		StudentID:     studentID,
		AppointmentID: appointmentID,
		Rating:        rating,
		Review:        review,
	}
	if err := s.ratingRepo.Create(ctx, newRating); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRatingAggregates(ctx, appt.TeacherID); err != nil {
		return nil, err
	}

	return newRating, nil
}

func (s *ratingService) ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error) {
	return s.ratingRepo.ListByTeacher(ctx, teacherID, limit, offset)
}

func (s *ratingService) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]model.RatingDetails, int, error) {
	return s.ratingRepo.ListByStudent(ctx, studentID, limit, offset)
}

func (s *ratingService) Stats(ctx context.Context, teacherID uuid.UUID) (*repository.RatingStats, error) {
	return s.ratingRepo.Stats(ctx, teacherID)
}

func (s *ratingService) Reply(ctx context.Context, ratingID, teacherID uuid.UUID, reply string) error {
	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating == nil {
		return ErrRatingNotFound
	}
	if rating.TeacherID != teacherID {
		return ErrNotRatingRecipient
	}
	return s.ratingRepo.UpdateReply(ctx, ratingID, reply)
}
