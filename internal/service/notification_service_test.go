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

// fakeNotificationRepo keeps notifications in memory and records deletions.
type fakeNotificationRepo struct {
	repository.NotificationRepository
	rows    map[uuid.UUID]*model.Notification
	deleted []uuid.UUID
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: map[uuid.UUID]*model.Notification{}}
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationRepo) MarkSeen(ctx context.Context, id uuid.UUID) error {
	if n, ok := f.rows[id]; ok {
		n.Seen = true
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func TestNotificationService_MarkSeen_SetsFlag(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	id := uuid.New()
	repo.rows[id] = &model.Notification{ID: id, UserID: userID}

	svc := service.NewNotificationService(repo, &fakePublisher{}, nil)

	require.NoError(t, svc.MarkSeen(context.Background(), id, userID))
	require.True(t, repo.rows[id].Seen)
	require.Empty(t, repo.deleted)
}

func TestNotificationService_MarkSeen_SecondCallDeletes(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	id := uuid.New()
	repo.rows[id] = &model.Notification{ID: id, UserID: userID}

	svc := service.NewNotificationService(repo, &fakePublisher{}, nil)

	require.NoError(t, svc.MarkSeen(context.Background(), id, userID))
	require.NoError(t, svc.MarkSeen(context.Background(), id, userID))

	require.NotContains(t, repo.rows, id)
	require.Equal(t, []uuid.UUID{id}, repo.deleted)
}

func TestNotificationService_MarkSeen_WrongOwner(t *testing.T) {
	repo := newFakeNotificationRepo()
	id := uuid.New()
	repo.rows[id] = &model.Notification{ID: id, UserID: uuid.New()}

	svc := service.NewNotificationService(repo, &fakePublisher{}, nil)

	err := svc.MarkSeen(context.Background(), id, uuid.New())
	require.ErrorIs(t, err, service.ErrNotificationNotFound)
}
