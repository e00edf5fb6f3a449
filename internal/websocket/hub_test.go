package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/isdelr/social-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.Run(ctx) }()
	return hub, cancel, errc
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubBroadcastsPosts(t *testing.T) {
	hub, cancel, errc := startHub(t)

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))

	hub.PublishPost(models.Post{ID: "p1", Content: "hello"})

	for _, c := range []*Client{a, b} {
		var msg struct {
			Action  string      `json:"action"`
			Payload models.Post `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(receive(t, c), &msg))
		assert.Equal(t, ActionPostCreated, msg.Action)
		assert.Equal(t, "p1", msg.Payload.ID)
	}

	hub.Unregister(a)
	_, ok := <-a.Send
	assert.False(t, ok, "unregistered client channel should be closed")

	cancel()
	require.NoError(t, <-errc)
	_, ok = <-b.Send
	assert.False(t, ok, "hub shutdown should close remaining clients")
}

func TestHubStoppedRejectsClients(t *testing.T) {
	hub, cancel, errc := startHub(t)
	cancel()
	require.NoError(t, <-errc)

	c := NewClient(hub, nil)
	assert.False(t, hub.Register(c))
	hub.Unregister(c) // must not block
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub() // not running
	for i := 0; i < broadcastBuffer*2; i++ {
		hub.Publish([]byte("x"))
	}
	assert.Len(t, hub.broadcast, broadcastBuffer)
}
