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

type edge struct{ requester, recipient uuid.UUID }

// fakeConnectionRepo keeps pending and accepted edges in memory.
type fakeConnectionRepo struct {
	repository.ConnectionRepository
	pending  map[edge]bool
	accepted map[edge]bool
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{pending: map[edge]bool{}, accepted: map[edge]bool{}}
}

func (f *fakeConnectionRepo) CreatePending(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	f.pending[edge{requesterID, recipientID}] = true
	return nil
}

func (f *fakeConnectionRepo) FindPending(ctx context.Context, requesterID, recipientID uuid.UUID) (*model.Connection, error) {
	if f.pending[edge{requesterID, recipientID}] {
		return &model.Connection{RequesterID: requesterID, RecipientID: recipientID, Status: "pending"}, nil
	}
	return nil, nil
}

func (f *fakeConnectionRepo) Accept(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	delete(f.pending, edge{requesterID, recipientID})
	f.accepted[edge{requesterID, recipientID}] = true
	return nil
}

func (f *fakeConnectionRepo) DeletePending(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	delete(f.pending, edge{requesterID, recipientID})
	return nil
}

func (f *fakeConnectionRepo) DeleteBetween(ctx context.Context, userA, userB uuid.UUID) error {
	for _, e := range []edge{{userA, userB}, {userB, userA}} {
		delete(f.pending, e)
		delete(f.accepted, e)
	}
	return nil
}

func (f *fakeConnectionRepo) AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	return f.accepted[edge{userA, userB}] || f.accepted[edge{userB, userA}], nil
}

// fakeNotifier records Notify calls and honors the supersede semantics of
// ClearBetween by dropping earlier entries of the same type.
type fakeNotifier struct {
	service.NotificationService
	sent []model.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, fromID uuid.UUID, notifType, content string) (*model.Notification, error) {
	kept := f.sent[:0]
	for _, n := range f.sent {
		if n.UserID == userID && n.FromID == fromID && n.Type == notifType {
			continue
		}
		kept = append(kept, n)
	}
	n := model.Notification{UserID: userID, FromID: fromID, Type: notifType, Content: content}
	f.sent = append(kept, n)
	return &n, nil
}

func (f *fakeNotifier) ClearBetween(ctx context.Context, userA, userB uuid.UUID, notifType string) error {
	kept := f.sent[:0]
	for _, n := range f.sent {
		if n.Type == notifType &&
			((n.UserID == userA && n.FromID == userB) || (n.UserID == userB && n.FromID == userA)) {
			continue
		}
		kept = append(kept, n)
	}
	f.sent = kept
	return nil
}

func newConnectionFixture(t *testing.T) (service.ConnectionService, *fakeConnectionRepo, *fakeNotifier, uuid.UUID, uuid.UUID) {
	t.Helper()
	requester := uuid.New()
	recipient := uuid.New()
	connRepo := newFakeConnectionRepo()
	notifier := &fakeNotifier{}
	svc := service.NewConnectionService(connRepo,
		&fakeUserRepo{existing: map[uuid.UUID]bool{requester: true, recipient: true}}, notifier)
	return svc, connRepo, notifier, requester, recipient
}

func TestSendRequest_NotifiesRecipient(t *testing.T) {
	svc, connRepo, notifier, requester, recipient := newConnectionFixture(t)

	require.NoError(t, svc.SendRequest(context.Background(), requester, recipient))
	require.True(t, connRepo.pending[edge{requester, recipient}])
	require.Len(t, notifier.sent, 1)
	require.Equal(t, model.NotificationTypeConnectionRequest, notifier.sent[0].Type)
	require.Equal(t, recipient, notifier.sent[0].UserID)
}

func TestSendRequest_Self(t *testing.T) {
	svc, _, _, requester, _ := newConnectionFixture(t)
	require.ErrorIs(t, svc.SendRequest(context.Background(), requester, requester), service.ErrSelfConnection)
}

func TestSendRequest_ReverseAlreadyPending(t *testing.T) {
	svc, connRepo, _, requester, recipient := newConnectionFixture(t)
	connRepo.pending[edge{recipient, requester}] = true

	err := svc.SendRequest(context.Background(), requester, recipient)
	require.ErrorIs(t, err, service.ErrRequestInProgress)
}

func TestSendRequest_AlreadyConnected(t *testing.T) {
	svc, connRepo, _, requester, recipient := newConnectionFixture(t)
	connRepo.accepted[edge{recipient, requester}] = true

	err := svc.SendRequest(context.Background(), requester, recipient)
	require.ErrorIs(t, err, service.ErrAlreadyConnected)
}

func TestRespondToRequest_Accept(t *testing.T) {
	svc, connRepo, notifier, requester, recipient := newConnectionFixture(t)
	require.NoError(t, svc.SendRequest(context.Background(), requester, recipient))

	require.NoError(t, svc.RespondToRequest(context.Background(), requester, recipient, true))

	connected, err := svc.AreConnected(context.Background(), requester, recipient)
	require.NoError(t, err)
	require.True(t, connected)

	// The request notification was superseded by a single update to the requester.
	require.Len(t, notifier.sent, 1)
	require.Equal(t, model.NotificationTypeConnectionUpdate, notifier.sent[0].Type)
	require.Equal(t, requester, notifier.sent[0].UserID)
	require.Equal(t, "accepted your connection request", notifier.sent[0].Content)
	require.Empty(t, connRepo.pending)
}

func TestRespondToRequest_Reject(t *testing.T) {
	svc, connRepo, notifier, requester, recipient := newConnectionFixture(t)
	require.NoError(t, svc.SendRequest(context.Background(), requester, recipient))

	require.NoError(t, svc.RespondToRequest(context.Background(), requester, recipient, false))

	connected, err := svc.AreConnected(context.Background(), requester, recipient)
	require.NoError(t, err)
	require.False(t, connected)
	require.Empty(t, connRepo.pending)

	require.Len(t, notifier.sent, 1)
	require.Equal(t, "declined your connection request", notifier.sent[0].Content)
}

func TestRespondToRequest_NoPending(t *testing.T) {
	svc, _, _, requester, recipient := newConnectionFixture(t)
	err := svc.RespondToRequest(context.Background(), requester, recipient, true)
	require.ErrorIs(t, err, service.ErrNoPendingRequest)
}

func TestCancelConnection_ClearsPendingAndNotification(t *testing.T) {
	svc, connRepo, notifier, requester, recipient := newConnectionFixture(t)
	require.NoError(t, svc.SendRequest(context.Background(), requester, recipient))

	require.NoError(t, svc.CancelConnection(context.Background(), requester, recipient))
	require.Empty(t, connRepo.pending)
	require.Empty(t, notifier.sent)
}

func TestCancelConnection_RemovesEstablishedEdge(t *testing.T) {
	svc, connRepo, _, requester, recipient := newConnectionFixture(t)
	require.NoError(t, svc.SendRequest(context.Background(), requester, recipient))
	require.NoError(t, svc.RespondToRequest(context.Background(), requester, recipient, true))

	// Either party can cancel, regardless of who originally asked.
	require.NoError(t, svc.CancelConnection(context.Background(), recipient, requester))

	connected, err := svc.AreConnected(context.Background(), requester, recipient)
	require.NoError(t, err)
	require.False(t, connected)
	require.Empty(t, connRepo.pending)
	require.Empty(t, connRepo.accepted)
}

func TestCancelConnection_NoEdgeIsNoop(t *testing.T) {
	svc, _, _, requester, recipient := newConnectionFixture(t)
	require.NoError(t, svc.CancelConnection(context.Background(), requester, recipient))
}
