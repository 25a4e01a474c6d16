package realtime_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/realtime"
)

type fakeClient struct {
	sent   []interface{}
	closed bool
}

func (f *fakeClient) SendJSON(v interface{}) error {
	f.sent = append(f.sent, v)
	return nil
}

func (f *fakeClient) Close() {
	f.closed = true
}

func TestHub_RegisterReplacesConnection(t *testing.T) {
	hub := realtime.NewHub()
	userID := uuid.New()

	first := &fakeClient{}
	second := &fakeClient{}

	hub.Register(userID, first)
	require.True(t, hub.Online(userID))
	require.Equal(t, 1, hub.ActiveCount())

	hub.Register(userID, second)
	require.True(t, first.closed)
	require.Equal(t, 1, hub.ActiveCount())

	require.True(t, hub.SendToUser(userID, "hello"))
	require.Empty(t, first.sent)
	require.Equal(t, []interface{}{"hello"}, second.sent)
}

func TestHub_StaleUnregisterKeepsNewConnection(t *testing.T) {
	hub := realtime.NewHub()
	userID := uuid.New()

	stale := &fakeClient{}
	fresh := &fakeClient{}

	hub.Register(userID, stale)
	hub.Register(userID, fresh)

	// The old socket's close handler fires after the reconnect.
	hub.Unregister(userID, stale)
	require.True(t, hub.Online(userID))

	hub.Unregister(userID, fresh)
	require.False(t, hub.Online(userID))
}

func TestHub_SendToUser_Offline(t *testing.T) {
	hub := realtime.NewHub()
	require.False(t, hub.SendToUser(uuid.New(), "anyone there"))
}

func TestHub_Rooms(t *testing.T) {
	hub := realtime.NewHub()
	alice := uuid.New()
	bob := uuid.New()
	aliceConn := &fakeClient{}
	bobConn := &fakeClient{}

	hub.Register(alice, aliceConn)
	hub.Register(bob, bobConn)

	// Joining requires a live connection.
	ghost := uuid.New()
	hub.JoinRoom("room-1", ghost)
	require.False(t, hub.InRoom("room-1", ghost))

	hub.JoinRoom("room-1", alice)
	hub.JoinRoom("room-1", bob)
	require.True(t, hub.InRoom("room-1", alice))

	hub.BroadcastRoom("room-1", "ping")
	require.Len(t, aliceConn.sent, 1)
	require.Len(t, bobConn.sent, 1)

	hub.LeaveRoom("room-1", bob)
	require.False(t, hub.InRoom("room-1", bob))

	hub.BroadcastRoom("room-1", "ping")
	require.Len(t, aliceConn.sent, 2)
	require.Len(t, bobConn.sent, 1)
}

func TestHub_UnregisterCleansRooms(t *testing.T) {
	hub := realtime.NewHub()
	userID := uuid.New()
	conn := &fakeClient{}

	hub.Register(userID, conn)
	hub.JoinRoom("room-1", userID)

	hub.Unregister(userID, conn)
	require.False(t, hub.InRoom("room-1", userID))
	require.False(t, hub.Online(userID))
}
