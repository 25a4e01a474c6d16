package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrSelfConnection    = errors.New("cannot connect with yourself")
	ErrAlreadyConnected  = errors.New("users are already connected")
	ErrNoPendingRequest  = errors.New("no pending connection request")
	ErrRequestInProgress = errors.New("a connection request is already pending")
)

type ConnectionService interface {
	SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID) error
	RespondToRequest(ctx context.Context, requesterID, recipientID uuid.UUID, accept bool) error
	// CancelConnection removes any pending request and any established
	// connection between the two users, in both directions. It is
	// idempotent: canceling when no edge exists is a no-op.
	CancelConnection(ctx context.Context, userID, otherID uuid.UUID) error
	Sets(ctx context.Context, userID uuid.UUID) (*model.ConnectionSets, error)
	AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type connectionService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
	notifier NotificationService
}

func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository, notifier NotificationService) ConnectionService {
	return &connectionService{connRepo: connRepo, userRepo: userRepo, notifier: notifier}
}

func (s *connectionService) SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	if requesterID == recipientID {
		return ErrSelfConnection
	}

	exists, err := s.userRepo.Exists(ctx, recipientID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	connected, err := s.connRepo.AreConnected(ctx, requesterID, recipientID)
	if err != nil {
		return err
	}
	if connected {
		return ErrAlreadyConnected
	}

	reverse, err := s.connRepo.FindPending(ctx, recipientID, requesterID)
	if err != nil {
		return err
	}
	if reverse != nil {
		return ErrRequestInProgress
	}

	if err := s.connRepo.CreatePending(ctx, requesterID, recipientID); err != nil {
		return err
	}

	_, err = s.notifier.Notify(ctx, recipientID, requesterID,
		model.NotificationTypeConnectionRequest, "sent you a connection request")
	return err
}

func (s *connectionService) RespondToRequest(ctx context.Context, requesterID, recipientID uuid.UUID, accept bool) error {
	pending, err := s.connRepo.FindPending(ctx, requesterID, recipientID)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrNoPendingRequest
	}

	if accept {
		if err := s.connRepo.Accept(ctx, requesterID, recipientID); err != nil {
			return err
		}
	} else {
		if err := s.connRepo.DeletePending(ctx, requesterID, recipientID); err != nil {
			return err
		}
	}

	// The original request notification is superseded by the response.
	if err := s.notifier.ClearBetween(ctx, requesterID, recipientID, model.NotificationTypeConnectionRequest); err != nil {
		return err
	}

	content := "declined your connection request"
	if accept {
		content = "accepted your connection request"
	}
	_, err = s.notifier.Notify(ctx, requesterID, recipientID, model.NotificationTypeConnectionUpdate, content)
	return err
}

func (s *connectionService) CancelConnection(ctx context.Context, userID, otherID uuid.UUID) error {
	if err := s.connRepo.DeleteBetween(ctx, userID, otherID); err != nil {
		return err
	}

	// A pending request notification makes no sense once the edge is gone.
	return s.notifier.ClearBetween(ctx, userID, otherID, model.NotificationTypeConnectionRequest)
}

func (s *connectionService) Sets(ctx context.Context, userID uuid.UUID) (*model.ConnectionSets, error) {
	return s.connRepo.SetsFor(ctx, userID)
}

func (s *connectionService) AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	return s.connRepo.AreConnected(ctx, userA, userB)
}
