package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	fifa := &Client{Hub: hub, Send: make(chan []byte, 4), Room: "fifa"}
	darts := &Client{Hub: hub, Send: make(chan []byte, 4), Room: "darts"}
	hub.Register <- fifa
	hub.Register <- darts

	require.Eventually(t, func() bool { return hub.RoomSize("fifa") == 1 && hub.RoomSize("darts") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("fifa", "MATCH_UPDATED", map[string]string{"match_id": "L-R16-1"})

	select {
	case raw := <-fifa.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "MATCH_UPDATED", msg.Type)
		assert.Equal(t, "fifa", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("fifa client did not receive the message")
	}
	assert.Empty(t, darts.Send)

	hub.Unregister <- fifa
	require.Eventually(t, func() bool { return hub.RoomSize("fifa") == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-fifa.Send
	assert.False(t, open)
}
