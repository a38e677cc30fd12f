package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.NewNopLogger())
	go hub.Run()
	return hub
}

func newHubClient(hub *Hub, buffer int) *Client {
	return &Client{Hub: hub, Send: make(chan []byte, buffer)}
}

func receiveOrFail(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for broadcast")
		return nil
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := newRunningHub(t)

	first := newHubClient(hub, 8)
	second := newHubClient(hub, 8)
	hub.register <- first
	hub.register <- second
	assert.Eventually(t, func() bool { return hub.count() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(events.NewKnowledgeIndexed("notes.txt", 3))

	for _, client := range []*Client{first, second} {
		raw := receiveOrFail(t, client)

		var frame struct {
			Type      string                 `json:"type"`
			Data      map[string]interface{} `json:"data"`
			Timestamp time.Time              `json:"timestamp"`
		}
		assert.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, events.TypeKnowledgeIndexed, frame.Type)
		assert.Equal(t, "notes.txt", frame.Data["source"])
		assert.EqualValues(t, 3, frame.Data["chunks"])
		assert.False(t, frame.Timestamp.IsZero())
	}
}

func TestHubDropsClientWithFullBuffer(t *testing.T) {
	hub := newRunningHub(t)

	slow := newHubClient(hub, 1)
	hub.register <- slow
	assert.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 5*time.Millisecond)

	// The first event fills the buffer; the second finds it full and evicts
	// the client.
	hub.Broadcast(events.NewKnowledgeIndexed("one.txt", 1))
	hub.Broadcast(events.NewKnowledgeIndexed("two.txt", 1))

	assert.Eventually(t, func() bool { return hub.count() == 0 }, time.Second, 5*time.Millisecond)

	// The queued event is still readable, then the closed channel signals the
	// write pump to shut down.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHubUnregisterTolerated(t *testing.T) {
	hub := newRunningHub(t)

	client := newHubClient(hub, 1)
	hub.register <- client
	assert.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 5*time.Millisecond)

	// Double unregister must not double-close the send channel.
	hub.unregister <- client
	hub.unregister <- client
	assert.Eventually(t, func() bool { return hub.count() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)
}
