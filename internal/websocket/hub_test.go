package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicmixer/api/internal/model"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_BroadcastsToJobSubscribersOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcher := &Client{JobID: "job-1", Send: make(chan []byte, 4)}
	other := &Client{JobID: "job-2", Send: make(chan []byte, 4)}
	hub.Register(watcher)
	hub.Register(other)

	hub.BroadcastProgress("job-1", 40, model.JobStatusRunning, "Writing lyrics...")
	hub.BroadcastComplete("job-1", &model.GenerationResult{ID: "gen_1", Lyrics: "la"})

	var progress model.WSProgressMessage
	require.NoError(t, json.Unmarshal(receive(t, watcher.Send), &progress))
	assert.Equal(t, model.WSMessageTypeProgress, progress.Type)
	assert.Equal(t, 40, progress.Progress)

	var complete model.WSCompleteMessage
	require.NoError(t, json.Unmarshal(receive(t, watcher.Send), &complete))
	assert.Equal(t, "gen_1", complete.Result.ID)

	assert.Empty(t, other.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{JobID: "job-1", Send: make(chan []byte, 1)}
	hub.Register(client)
	hub.BroadcastError("job-1", "GENERATION_FAILED", "boom")
	receive(t, client.Send)

	hub.Unregister(client)
	hub.Register(&Client{JobID: "job-2", Send: make(chan []byte, 1)})

	_, ok := <-client.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers("job-1"))
}

func TestHub_ReplyAfterSlowSubscriberDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{JobID: "job-1", Send: make(chan []byte, 1)}
	hub.Register(client)
	assert.True(t, hub.Reply(client, []byte(`{"type":"pong"}`)))

	// Buffer is full, so the broadcast drops the client and closes Send.
	hub.BroadcastProgress("job-1", 10, model.JobStatusRunning, "Queued")
	assert.Eventually(t, func() bool { return hub.Subscribers("job-1") == 0 }, time.Second, 5*time.Millisecond)

	assert.NotPanics(t, func() {
		assert.False(t, hub.Reply(client, []byte(`{"type":"pong"}`)))
	})
}
