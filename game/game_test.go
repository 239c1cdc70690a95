package game

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/messages"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func newGame(net network.Transport, id, name string) *Game {
	return New(Options{
		LocalID:   id,
		Name:      name,
		Transport: net,
		Rand:      rand.New(rand.NewSource(1)),
	})
}

// settle ticks every game without advancing time until cond holds.
func settle(t *testing.T, cond func() bool, games ...*Game) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, g := range games {
			g.Tick(0)
		}
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// drain ticks every game a few times so in-flight messages land.
func drain(games ...*Game) {
	for i := 0; i < 5; i++ {
		for _, g := range games {
			g.Tick(0)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func entry(t *testing.T, g *Game, id string) *donburi.Entry {
	t.Helper()
	e, ok := g.Context().Player(id)
	require.True(t, ok, "player %s missing", id)
	return e
}

func place(t *testing.T, g *Game, id string, x, z float64) {
	components.Transform.Get(entry(t, g, id)).Position = gamemath.Vec3{X: x, Y: cfg.Player.Height / 2, Z: z}
}

func health(t *testing.T, g *Game, id string) int {
	return components.Health.Get(entry(t, g, id)).Current
}

func notices(g *Game) []string {
	var out []string
	for _, n := range g.Context().Feed().Notices {
		out = append(out, n.Text)
	}
	return out
}

// start hosts on h and joins every guest.
func start(t *testing.T, h *Game, guests ...*Game) string {
	t.Helper()
	id, err := h.HostGame(context.Background())
	require.NoError(t, err)

	all := append([]*Game{h}, guests...)
	for _, g := range guests {
		require.NoError(t, g.JoinGame(context.Background(), id))
		assert.Equal(t, netconfig.GameStateLoading, g.State())
		settle(t, func() bool { return g.State() == netconfig.GameStatePlaying }, all...)
	}
	settle(t, func() bool {
		for _, g := range all {
			if g.Context().PlayerCount() != len(all) {
				return false
			}
		}
		return true
	}, all...)
	return id
}

func TestHostGame(t *testing.T) {
	h := newGame(network.NewMemoryNetwork(), "host", "Alice")
	id, err := h.HostGame(context.Background())
	require.NoError(t, err)

	assert.Len(t, id, 8)
	assert.Equal(t, id, h.SessionID())
	assert.True(t, h.IsHost())
	assert.Equal(t, netconfig.GameStatePlaying, h.State())
	players := h.Players()
	require.Len(t, players, 1)
	assert.Equal(t, PlayerInfo{ID: "host", Name: "Alice", Health: 100, Local: true}, players[0])

	_, err = h.HostGame(context.Background())
	assert.ErrorIs(t, err, network.ErrAlreadyActive)
	assert.Equal(t, 1, h.Context().PlayerCount())
}

func TestJoinGame(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	g := newGame(net, "guest", "Bob")
	start(t, h, g)

	assert.False(t, g.IsHost())
	assert.Equal(t, "Alice", components.Player.Get(entry(t, g, "host")).Name)
	assert.Equal(t, "Bob", components.Player.Get(entry(t, h, "guest")).Name)
	assert.False(t, components.Player.Get(entry(t, h, "guest")).Local)
	assert.Contains(t, notices(h), "Bob joined")
}

func TestJoinEmptySessionID(t *testing.T) {
	g := newGame(network.NewMemoryNetwork(), "guest", "Bob")
	err := g.JoinGame(context.Background(), "  ")
	assert.ErrorIs(t, err, network.ErrEmptySessionID)
	assert.Equal(t, netconfig.GameStateMenu, g.State())
}

func TestJoinUnknownSession(t *testing.T) {
	g := newGame(network.NewMemoryNetwork(), "guest", "Bob")
	require.NoError(t, g.JoinGame(context.Background(), "nosuchid"))
	settle(t, func() bool { return g.State() == netconfig.GameStateMenu }, g)

	assert.ErrorIs(t, g.LastError(), network.ErrSessionNotFound)
	assert.Zero(t, g.Context().PlayerCount())
	assert.Equal(t, netconfig.SessionDisconnected, g.Session().State())
}

func TestPlayerUpdatesRelayed(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	a := newGame(net, "a", "Bob")
	b := newGame(net, "b", "Carol")
	start(t, h, a, b)

	place(t, a, "a", 5, -7)
	a.Tick(cfg.Network.UpdateInterval.Seconds() + 0.001)

	at := func(g *Game) bool {
		pos := components.Transform.Get(entry(t, g, "a")).Position
		return pos.X == 5 && pos.Z == -7
	}
	settle(t, func() bool { return at(h) && at(b) }, h, a, b)
}

func TestUpdatesThrottled(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	g := newGame(net, "guest", "Bob")
	start(t, h, g)

	place(t, g, "guest", 3, 3)
	g.Tick(cfg.Network.UpdateInterval.Seconds() / 4)
	drain(h, g)
	assert.NotEqual(t, 3.0, components.Transform.Get(entry(t, h, "guest")).Position.X)

	for i := 0; i < 4; i++ {
		g.Tick(cfg.Network.UpdateInterval.Seconds() / 4)
	}
	settle(t, func() bool {
		return components.Transform.Get(entry(t, h, "guest")).Position.X == 3
	}, h, g)
}

func TestHostHitIsAuthoritative(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	g := newGame(net, "guest", "Bob")
	start(t, h, g)

	place(t, h, "host", 0, 0)
	place(t, h, "guest", 0, -5)
	require.True(t, h.Fire())

	assert.Equal(t, 76, health(t, h, "guest"))
	settle(t, func() bool { return health(t, g, "guest") == 76 }, h, g)
}

func TestGuestHitSuggestion(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	a := newGame(net, "a", "Bob")
	b := newGame(net, "b", "Carol")
	start(t, h, a, b)

	place(t, a, "a", 0, 0)
	place(t, a, "host", 20, 0)
	place(t, a, "b", 0, -5)
	require.True(t, a.Fire())
	assert.Equal(t, 76, health(t, a, "b"))

	settle(t, func() bool {
		return health(t, h, "b") == 76 && health(t, b, "b") == 76
	}, h, a, b)
	drain(h, a, b)
	assert.Equal(t, 76, health(t, a, "b"), "shooter must not apply its own hit twice")
}

func TestSpoofedHitDropped(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	a := newGame(net, "a", "Bob")
	b := newGame(net, "b", "Carol")
	start(t, h, a, b)

	require.NoError(t, a.Session().SendToHost(messages.Hit{TargetID: "host", Damage: 50, AttackerID: "b"}))
	require.NoError(t, a.Session().SendToHost(messages.Hit{TargetID: "host", Damage: 10, AttackerID: "a"}))
	settle(t, func() bool { return health(t, h, "host") != 100 }, h, a, b)
	assert.Equal(t, 90, health(t, h, "host"))
}

func TestHitOnDeadTargetDropped(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	a := newGame(net, "a", "Bob")
	b := newGame(net, "b", "Carol")
	start(t, h, a, b)

	require.True(t, systems.TakeDamage(h.Context(), entry(t, h, "b"), 100, "host"))
	require.NoError(t, a.Session().SendToHost(messages.Hit{TargetID: "b", Damage: 30, AttackerID: "a"}))
	require.NoError(t, a.Session().SendToHost(messages.Hit{TargetID: "host", Damage: 10, AttackerID: "a"}))
	settle(t, func() bool { return health(t, b, "host") == 90 }, h, a, b)

	assert.Equal(t, 100, health(t, b, "b"))
	assert.Zero(t, components.Player.Get(entry(t, h, "a")).Kills)
}

func TestKillCreditedEverywhere(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	g := newGame(net, "guest", "Bob")
	start(t, h, g)

	require.NoError(t, g.Session().SendToHost(messages.Hit{TargetID: "host", Damage: 100, AttackerID: "guest"}))
	settle(t, func() bool { return components.Player.Get(entry(t, h, "host")).Dead }, h, g)

	assert.Equal(t, 1, components.Player.Get(entry(t, h, "guest")).Kills)
	assert.Contains(t, notices(h), "Bob eliminated Alice")
	_, pending := systems.RespawnProgress(h.Context(), "host")
	assert.True(t, pending)

	h.Tick(cfg.Player.RespawnDelay.Seconds() + 0.1)
	assert.False(t, components.Player.Get(entry(t, h, "host")).Dead)
	assert.Equal(t, 100, health(t, h, "host"))
}

func TestGuestLeaves(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	a := newGame(net, "a", "Bob")
	b := newGame(net, "b", "Carol")
	start(t, h, a, b)

	a.ReturnToMenu()
	assert.Equal(t, netconfig.GameStateMenu, a.State())
	assert.Zero(t, a.Context().PlayerCount())

	settle(t, func() bool {
		return h.Context().PlayerCount() == 2 && b.Context().PlayerCount() == 2
	}, h, b)
	assert.Contains(t, notices(h), "Bob left")
	assert.Contains(t, notices(b), "Bob left")
	assert.NoError(t, a.LastError())
}

func TestHostLeaves(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	g := newGame(net, "guest", "Bob")
	start(t, h, g)

	h.ReturnToMenu()
	settle(t, func() bool { return g.State() == netconfig.GameStateMenu }, g)
	assert.ErrorIs(t, g.LastError(), network.ErrHostLost)
	assert.Zero(t, g.Context().PlayerCount())

	// Both can start over.
	start(t, g, h)
}

func TestChat(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	a := newGame(net, "a", "Bob")
	b := newGame(net, "b", "Carol")
	start(t, h, a, b)

	assert.False(t, a.SendChat("   "))
	require.True(t, a.SendChat(" hello "))
	assert.Contains(t, notices(a), "Bob: hello")
	settle(t, func() bool {
		hn, bn := notices(h), notices(b)
		return len(hn) > 0 && hn[len(hn)-1] == "Bob: hello" && len(bn) > 0 && bn[len(bn)-1] == "Bob: hello"
	}, h, a, b)
}

func TestChatTruncated(t *testing.T) {
	h := newGame(nil, "host", "Alice")
	_, err := h.HostGame(context.Background())
	require.NoError(t, err)

	long := make([]rune, cfg.Match.ChatMaxLength+10)
	for i := range long {
		long[i] = 'x'
	}
	require.True(t, h.SendChat(string(long)))
	n := notices(h)
	assert.Len(t, []rune(n[len(n)-1]), len("Alice: ")+cfg.Match.ChatMaxLength)
}

func TestHostResendsGameState(t *testing.T) {
	net := network.NewMemoryNetwork()
	h := newGame(net, "host", "Alice")
	g := newGame(net, "guest", "Bob")
	start(t, h, g)

	g.Context().RemovePlayer("host")
	h.Tick(cfg.Network.HeartbeatInterval.Seconds())
	settle(t, func() bool { return g.Context().PlayerCount() == 2 }, h, g)
}

func TestEndGameResults(t *testing.T) {
	h := newGame(nil, "host", "Alice")
	_, err := h.HostGame(context.Background())
	require.NoError(t, err)
	c := h.Context()

	systems.UpsertPlayer(c, messages.Snapshot{ID: "b", Name: "Bob", Health: 100, Kills: 3, Deaths: 2})
	systems.UpsertPlayer(c, messages.Snapshot{ID: "c", Name: "Carol", Health: 100, Kills: 3, Deaths: 1})
	systems.UpsertPlayer(c, messages.Snapshot{ID: "d", Name: "Dave", Health: 0, IsDead: true, Kills: 3, Deaths: 1})
	components.Player.Get(entry(t, h, "host")).Kills = 1

	h.EndGame()
	assert.Equal(t, netconfig.GameStateOver, h.State())
	var names []string
	for _, r := range h.Results() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Carol", "Dave", "Bob", "Alice"}, names)

	assert.False(t, h.Fire(), "no shooting after the match")

	h.Restart()
	assert.Equal(t, netconfig.GameStatePlaying, h.State())
	assert.Nil(t, h.Results())
	for _, p := range h.Players() {
		assert.False(t, p.Dead)
		assert.Equal(t, 100, p.Health)
	}
	assert.Equal(t, 3, components.Player.Get(entry(t, h, "d")).Kills)
}

func TestMatchDurationEndsGame(t *testing.T) {
	h := newGame(nil, "host", "Alice")
	_, err := h.HostGame(context.Background())
	require.NoError(t, err)
	h.Context().Match().Duration = time.Second

	h.Tick(0.6)
	assert.Equal(t, netconfig.GameStatePlaying, h.State())
	h.Tick(0.6)
	assert.Equal(t, netconfig.GameStateOver, h.State())
	require.Len(t, h.Results(), 1)
}

func TestReturnToMenuClearsEverything(t *testing.T) {
	h := newGame(nil, "host", "Alice")
	_, err := h.HostGame(context.Background())
	require.NoError(t, err)
	require.True(t, h.SwitchWeapon(cfg.WeaponShotgun))
	require.True(t, h.Fire())
	require.True(t, h.Reload())

	h.ReturnToMenu()
	assert.Equal(t, netconfig.GameStateMenu, h.State())
	assert.Zero(t, h.Context().PlayerCount())
	assert.Zero(t, h.Context().Timers.Len())
	assert.Equal(t, "", h.SessionID())
	assert.False(t, h.Fire())
	assert.True(t, h.SetName("Alicia"))
	assert.Equal(t, "Alicia", h.Name())
}

func TestSetIntent(t *testing.T) {
	h := newGame(nil, "host", "Alice")
	_, err := h.HostGame(context.Background())
	require.NoError(t, err)

	h.SetIntent(Intent{Move: gamemath.Vec3{Z: -1}, Jump: true, Yaw: math.Pi / 2, Pitch: 0.3})
	local := entry(t, h, "host")
	tr := components.Transform.Get(local)
	assert.Equal(t, math.Pi/2, tr.Rotation.Y)
	assert.Equal(t, 0.3, tr.Rotation.X)

	start := tr.Position
	h.Tick(0.1)
	assert.Less(t, tr.Position.X, start.X)
	assert.InDelta(t, start.Z, tr.Position.Z, 1e-9)
	assert.Greater(t, tr.Position.Y, start.Y)
}

func TestWorldDirection(t *testing.T) {
	tests := []struct {
		name string
		move gamemath.Vec3
		yaw  float64
		want gamemath.Vec3
	}{
		{"forward", gamemath.Vec3{Z: -1}, 0, gamemath.Vec3{Z: -1}},
		{"strafe right", gamemath.Vec3{X: 1}, 0, gamemath.Vec3{X: 1}},
		{"forward turned left", gamemath.Vec3{Z: -1}, math.Pi / 2, gamemath.Vec3{X: -1}},
		{"diagonal capped", gamemath.Vec3{X: 1, Z: -1}, 0, gamemath.Vec3{X: math.Sqrt2 / 2, Z: -math.Sqrt2 / 2}},
		{"vertical ignored", gamemath.Vec3{Y: 1}, 0, gamemath.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := worldDirection(tt.move, tt.yaw)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-9)
		})
	}
	assert.InDelta(t, gamemath.Forward(gamemath.Vec3{Y: 0.7}).X, worldDirection(gamemath.Vec3{Z: -1}, 0.7).X, 1e-12)
}
