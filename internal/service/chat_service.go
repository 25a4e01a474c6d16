package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrSelfMessage  = errors.New("cannot message yourself")
)

type ChatService interface {
	// SendMessage persists the message and its notification before any
	// realtime delivery happens, so a dropped socket never loses chat history.
	SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*model.Message, error)
	RoomHistory(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error)
	MarkRead(ctx context.Context, readerID, otherID uuid.UUID) error
}

type chatService struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	notifier NotificationService
}

func NewChatService(msgRepo repository.MessageRepository, userRepo repository.UserRepository, notifier NotificationService) ChatService {
	return &chatService{msgRepo: msgRepo, userRepo: userRepo, notifier: notifier}
}

func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*model.Message, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}

	exists, err := s.userRepo.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	msg := &model.Message{
		RoomID:     model.RoomID(senderID, receiverID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}
	if err := s.msgRepo.Save(ctx, msg); err != nil {
		return nil, err
	}

	if _, err := s.notifier.Notify(ctx, receiverID, senderID, model.NotificationTypeMessage, text); err != nil {
		return nil, err
	}

	return msg, nil
}

func (s *chatService) RoomHistory(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error) {
	return s.msgRepo.ListByRoom(ctx, model.RoomID(userA, userB))
}

func (s *chatService) Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error) {
	return s.msgRepo.Conversations(ctx, userID)
}

func (s *chatService) MarkRead(ctx context.Context, readerID, otherID uuid.UUID) error {
	return s.msgRepo.MarkRead(ctx, model.RoomID(readerID, otherID), readerID)
}
