package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidAmount = errors.New("amount must be positive")
)

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params repository.UpdateProfileParams) (*model.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	PurchaseCredits(ctx context.Context, id uuid.UUID, amount int) (*model.User, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, params repository.UpdateProfileParams) (*model.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, id, params); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *userService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := s.userRepo.Delete(ctx, id)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	return err
}

func (s *userService) PurchaseCredits(ctx context.Context, id uuid.UUID, amount int) (*model.User, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.userRepo.PurchaseCredits(ctx, id, amount); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *userService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.userRepo.RegisterDeviceToken(ctx, userID, token)
}

func (s *userService) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	err := s.userRepo.SetBanned(ctx, id, banned)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	return err
}
