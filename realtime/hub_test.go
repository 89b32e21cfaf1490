package realtime

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

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestPublishTournamentEventReachesRoom(t *testing.T) {
	hub := newTestHub(t)

	inRoom := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(7)}
	otherRoom := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(8)}
	hub.Register <- inRoom
	hub.Register <- otherRoom
	require.Eventually(t, func() bool {
		return hub.ClientCount(RoomForTournament(7)) == 1 && hub.ClientCount(RoomForTournament(8)) == 1
	}, time.Second, 5*time.Millisecond)

	hub.PublishTournamentEvent(7, EventBracketUpdated, map[string]int{"matches": 4})

	select {
	case raw := <-inRoom.Send:
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
			RoomID  string         `json:"room_id"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventBracketUpdated, msg.Type)
		assert.Equal(t, "tournament_7", msg.RoomID)
		assert.Equal(t, 4, msg.Payload["matches"])
	case <-time.After(time.Second):
		t.Fatal("expected a message in room tournament_7")
	}
	assert.Empty(t, otherRoom.Send)
}

func TestUnregisterClosesSendAndRoom(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(3)}
	hub.Register <- client
	hub.Unregister <- client

	require.Eventually(t, func() bool { return hub.ClientCount(RoomForTournament(3)) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)

	// publishing into an empty room is a no-op
	hub.PublishTournamentEvent(3, EventMatchUpdated, nil)
}

func TestLeaveAndJoinDoNotBlockAfterShutdown(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(5)}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.ClientCount(RoomForTournament(5)) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-client.Send
	assert.False(t, open, "shutdown closes subscribers")

	left := make(chan struct{})
	go func() {
		hub.Leave(client)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Leave blocked on a stopped hub")
	}

	late := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(5)}
	assert.False(t, hub.Join(late))
	assert.Zero(t, hub.ClientCount(RoomForTournament(5)))
}
