package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/events"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// RealtimePusher delivers payloads to a user's live websocket connection, if
// any. Pushes are best effort and always happen after the row is persisted.
type RealtimePusher interface {
	SendToUser(userID uuid.UUID, v interface{}) bool
}

type NotificationService interface {
	// Notify collapses any earlier notification of the same type between the
	// two users into the new one, so a user never accumulates a backlog from
	// the same sender.
	Notify(ctx context.Context, userID, fromID uuid.UUID, notifType, content string) (*model.Notification, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	MarkSeen(ctx context.Context, id, userID uuid.UUID) error
	Remove(ctx context.Context, id, userID uuid.UUID) error
	ClearBetween(ctx context.Context, userA, userB uuid.UUID, notifType string) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	publisher events.EventPublisher
	pusher    RealtimePusher
}

func NewNotificationService(notifRepo repository.NotificationRepository, pub events.EventPublisher, pusher RealtimePusher) NotificationService {
	return &notificationService{notifRepo: notifRepo, publisher: pub, pusher: pusher}
}

func (s *notificationService) Notify(ctx context.Context, userID, fromID uuid.UUID, notifType, content string) (*model.Notification, error) {
	if err := s.notifRepo.DeleteBetween(ctx, userID, fromID, notifType); err != nil {
		return nil, err
	}

	n := &model.Notification{
		UserID:  userID,
		FromID:  fromID,
		Type:    notifType,
		Content: content,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	go s.publisher.PublishNotificationCreated(n)

	if s.pusher != nil {
		s.pusher.SendToUser(n.UserID, map[string]interface{}{"event": n.Type, "data": n})
	}

	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return s.notifRepo.MarkManyRead(ctx, userID, ids)
}

func (s *notificationService) MarkSeen(ctx context.Context, id, userID uuid.UUID) error {
	n, err := s.notifRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return ErrNotificationNotFound
	}
	// A second "seen" on an already-seen notification dismisses it entirely.
	if n.Seen {
		return s.notifRepo.Delete(ctx, id)
	}
	return s.notifRepo.MarkSeen(ctx, id)
}

func (s *notificationService) Remove(ctx context.Context, id, userID uuid.UUID) error {
	n, err := s.notifRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.notifRepo.Delete(ctx, id)
}

func (s *notificationService) ClearBetween(ctx context.Context, userA, userB uuid.UUID, notifType string) error {
	return s.notifRepo.DeleteBetween(ctx, userA, userB, notifType)
}
