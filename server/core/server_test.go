package core

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/automoto/peerfire/game"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessHostRelays(t *testing.T) {
	net := network.NewMemoryNetwork()
	srv := NewServer(Options{Name: "Dedicated", Transport: net, TickRate: 200})
	id, err := srv.Start(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	a := game.New(game.Options{LocalID: "a", Name: "Alice", Transport: net})
	b := game.New(game.Options{LocalID: "b", Name: "Bob", Transport: net})
	require.NoError(t, a.JoinGame(context.Background(), id))
	require.NoError(t, b.JoinGame(context.Background(), id))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		a.Tick(0.005)
		b.Tick(0.005)
		if a.Context().PlayerCount() == 2 && b.Context().PlayerCount() == 2 && srv.PlayerCount() == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, netconfig.GameStatePlaying, a.State())
	assert.Equal(t, 2, a.Context().PlayerCount(), "guests see each other but no host player")
	assert.Equal(t, 2, b.Context().PlayerCount())

	status := srv.Status()
	assert.Equal(t, id, status.SessionID)
	assert.Equal(t, "playing", status.State)
	assert.Equal(t, 2, status.Peers)

	rec := httptest.NewRecorder()
	srv.StatusHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	var got Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, id, got.SessionID)
	assert.Len(t, got.Players, 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, "", srv.Status().SessionID)
}

func TestServerRestartsFinishedMatch(t *testing.T) {
	srv := NewServer(Options{Transport: network.NewMemoryNetwork()})
	_, err := srv.Start(context.Background())
	require.NoError(t, err)

	srv.game.EndGame()
	srv.tick(0)
	assert.Equal(t, "playing", srv.Status().State)
}
