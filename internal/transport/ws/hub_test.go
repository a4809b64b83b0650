package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyUserReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	a := &Connection{UserID: "s1", Send: make(chan []byte, 4), Hub: hub}
	b := &Connection{UserID: "s1", Send: make(chan []byte, 4), Hub: hub}
	other := &Connection{UserID: "s2", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.Connected("s1") == 2 }, time.Second, 10*time.Millisecond)

	hub.NotifyUser("s1", string(MsgAttemptSubmitted), map[string]int{"score": 2})

	for _, c := range []*Connection{a, b} {
		select {
		case data := <-c.Send:
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, MsgAttemptSubmitted, msg.Type)
			assert.JSONEq(t, `{"score":2}`, string(msg.Payload))
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Empty(t, other.Send)
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	c := &Connection{UserID: "s1", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(c)
	hub.Unregister(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.Equal(t, 0, hub.Connected("s1"))
}
