package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	messages [][]byte
	fail     bool
	closed   bool
}

func (f *fakeClient) Send(message []byte) bool {
	if f.fail {
		return false
	}
	f.messages = append(f.messages, message)
	return true
}

func (f *fakeClient) Close() { f.closed = true }

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	a := &fakeClient{}
	b := &fakeClient{}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast([]byte(`{"type":"task_created","id":1}`))

	require.Len(t, a.messages, 1)
	require.Len(t, b.messages, 1)
}

func TestHub_UnregisteredClientStopsReceiving(t *testing.T) {
	hub := NewHub()
	a := &fakeClient{}
	hub.Register(a)
	hub.Unregister(a)

	hub.Broadcast([]byte("event"))
	require.Empty(t, a.messages)
}

func TestHub_FailedSendDoesNotStopBroadcast(t *testing.T) {
	hub := NewHub()
	bad := &fakeClient{fail: true}
	good := &fakeClient{}
	hub.Register(bad)
	hub.Register(good)

	hub.Broadcast([]byte("event"))
	require.Len(t, good.messages, 1)
}
