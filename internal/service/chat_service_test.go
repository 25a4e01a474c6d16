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

type fakeMessageRepo struct {
	repository.MessageRepository
	saved []*model.Message
}

func (f *fakeMessageRepo) Save(ctx context.Context, msg *model.Message) error {
	msg.ID = uuid.New()
	f.saved = append(f.saved, msg)
	return nil
}

func TestSendMessage_PersistsAndNotifies(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	msgRepo := &fakeMessageRepo{}
	notifier := &fakeNotifier{}
	svc := service.NewChatService(msgRepo,
		&fakeUserRepo{existing: map[uuid.UUID]bool{receiver: true}}, notifier)

	msg, err := svc.SendMessage(context.Background(), sender, receiver, "hello")
	require.NoError(t, err)
	require.Equal(t, model.RoomID(sender, receiver), msg.RoomID)
	require.Len(t, msgRepo.saved, 1)

	require.Len(t, notifier.sent, 1)
	require.Equal(t, model.NotificationTypeMessage, notifier.sent[0].Type)
	require.Equal(t, receiver, notifier.sent[0].UserID)
}

func TestSendMessage_Rejections(t *testing.T) {
	sender := uuid.New()
	svc := service.NewChatService(&fakeMessageRepo{}, &fakeUserRepo{}, &fakeNotifier{})

	_, err := svc.SendMessage(context.Background(), sender, uuid.New(), "")
	require.ErrorIs(t, err, service.ErrEmptyMessage)

	_, err = svc.SendMessage(context.Background(), sender, sender, "hi me")
	require.ErrorIs(t, err, service.ErrSelfMessage)

	_, err = svc.SendMessage(context.Background(), sender, uuid.New(), "hi")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
