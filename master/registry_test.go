package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(t *testing.T, ttl time.Duration) (*Registry, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	reg := newRegistry(ttl, clock.now)
	t.Cleanup(reg.Stop)
	return reg, clock
}

func TestRegisterUpserts(t *testing.T) {
	reg, _ := newTestRegistry(t, time.Minute)

	assert.True(t, reg.Register(SessionInfo{SessionID: "abc", Address: "ws://a", HostName: "Alice", Players: 1}))
	assert.False(t, reg.Register(SessionInfo{SessionID: "abc", Address: "ws://b", HostName: "Alice", Players: 2}))

	info, ok := reg.Resolve("abc")
	require.True(t, ok)
	assert.Equal(t, "ws://b", info.Address)
	assert.Equal(t, 2, info.Players)
	assert.Len(t, reg.List(), 1)
}

func TestHeartbeatKeepsAlive(t *testing.T) {
	reg, clock := newTestRegistry(t, 30*time.Second)
	reg.Register(SessionInfo{SessionID: "abc", Address: "ws://a"})

	clock.advance(20 * time.Second)
	require.True(t, reg.Heartbeat("abc", 3))
	clock.advance(20 * time.Second)

	info, ok := reg.Resolve("abc")
	require.True(t, ok)
	assert.Equal(t, 3, info.Players)
	assert.False(t, reg.Heartbeat("nope", 1))
}

func TestExpiry(t *testing.T) {
	reg, clock := newTestRegistry(t, 30*time.Second)
	reg.Register(SessionInfo{SessionID: "old", Address: "ws://a"})
	clock.advance(20 * time.Second)
	reg.Register(SessionInfo{SessionID: "new", Address: "ws://b"})
	clock.advance(15 * time.Second)

	_, ok := reg.Resolve("old")
	assert.False(t, ok)
	assert.False(t, reg.Heartbeat("old", 1))
	list := reg.List()
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].SessionID)

	assert.Equal(t, 1, reg.sweep())
	assert.Equal(t, 0, reg.sweep())
}

func TestUnregister(t *testing.T) {
	reg, _ := newTestRegistry(t, time.Minute)
	reg.Register(SessionInfo{SessionID: "abc", Address: "ws://a"})

	assert.True(t, reg.Unregister("abc"))
	assert.False(t, reg.Unregister("abc"))
	assert.Empty(t, reg.List())
}

func TestListSorted(t *testing.T) {
	reg, _ := newTestRegistry(t, time.Minute)
	for _, id := range []string{"c", "a", "b"} {
		reg.Register(SessionInfo{SessionID: id, Address: "ws://" + id})
	}
	var ids []string
	for _, s := range reg.List() {
		ids = append(ids, s.SessionID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
