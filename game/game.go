// Package game ties the player systems to a network session. A Game is
// driven by one goroutine calling Tick once per frame; every other method
// must be called from that goroutine too.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/messages"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/systems"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// Options configure a Game.
type Options struct {
	// LocalID identifies this peer's player; a random uuid when empty.
	LocalID string
	Name    string

	Arena systems.Arena
	Rand  *rand.Rand

	// Transport carries the session. Without one the game can only host,
	// over a private in-memory network.
	Transport network.Transport
	Session   network.Options

	// Headless games host without a local player.
	Headless bool
}

// Intent is the local player's input for one frame. Move is relative to the
// view: X strafes right, negative Z walks forward. Its length is capped at 1.
type Intent struct {
	Move  gamemath.Vec3
	Jump  bool
	Yaw   float64
	Pitch float64
}

// PlayerInfo is a read-only view of one player for lists and results.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
	Health int    `json:"health"`
	Dead   bool   `json:"dead"`
	Local  bool   `json:"local"`
}

// Game owns the world of one peer and its session.
type Game struct {
	ctx      *systems.Context
	session  *network.Session
	localID  string
	name     string
	headless bool

	syncTimer  float64
	stateTimer float64
	results    []PlayerInfo
	lastErr    error
}

func New(opts Options) *Game {
	if opts.LocalID == "" {
		opts.LocalID = uuid.NewString()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Transport == nil {
		opts.Transport = network.NewMemoryNetwork()
	}
	opts.Name = systems.SanitizeName(opts.Name)
	if opts.Session.HostName == "" {
		opts.Session.HostName = opts.Name
	}

	g := &Game{
		ctx:      systems.NewContext(opts.Arena, opts.Rand),
		localID:  opts.LocalID,
		name:     opts.Name,
		headless: opts.Headless,
	}
	g.session = network.NewSession(opts.LocalID, opts.Transport, g, opts.Session)

	g.ctx.ECS.AddSystem(systems.NewInputSystem(g.ctx))
	g.ctx.ECS.AddSystem(systems.NewMovementSystem(g.ctx))
	g.ctx.ECS.AddSystem(systems.NewTimerSystem(g.ctx))
	g.ctx.ECS.AddSystem(systems.NewMatchSystem(g.ctx, g.EndGame))
	g.ctx.ECS.AddSystem(systems.NewEffectsSystem(g.ctx))
	g.ctx.ECS.AddSystem(systems.NewInterpSystem(g.ctx))
	return g
}

func (g *Game) Context() *systems.Context  { return g.ctx }
func (g *Game) Session() *network.Session  { return g.session }
func (g *Game) LocalID() string            { return g.localID }
func (g *Game) Name() string               { return g.name }
func (g *Game) State() netconfig.GameState { return g.ctx.Match().State }
func (g *Game) SessionID() string          { return g.session.SessionID() }
func (g *Game) IsHost() bool               { return g.session.IsHost() }

// LastError returns the error that last sent the game back to the menu.
func (g *Game) LastError() error { return g.lastErr }

// SetName changes the local display name. It only applies outside a session.
func (g *Game) SetName(name string) bool {
	if g.session.State() != netconfig.SessionDisconnected {
		return false
	}
	g.name = systems.SanitizeName(name)
	return true
}

func (g *Game) setState(s netconfig.GameState) {
	m := g.ctx.Match()
	if m.State == s {
		return
	}
	log.Printf("[game] %s -> %s", m.State, s)
	m.State = s
}

// HostGame starts a fresh match hosted by this peer and returns the session
// id guests join with.
func (g *Game) HostGame(ctx context.Context) (string, error) {
	if g.session.State() != netconfig.SessionDisconnected {
		return "", network.ErrAlreadyActive
	}
	g.prepare()
	id, err := g.session.Host(ctx)
	if err != nil {
		g.fail(err)
		return "", err
	}
	g.setState(netconfig.GameStatePlaying)
	g.ctx.Notify("Hosting session %s", id)
	return id, nil
}

// JoinGame starts joining the session id. The game waits in Loading until
// the host accepts, then plays; a failure lands back in the menu with
// LastError set.
func (g *Game) JoinGame(ctx context.Context, sessionID string) error {
	sessionID = strings.ToLower(strings.TrimSpace(sessionID))
	if sessionID == "" {
		return network.ErrEmptySessionID
	}
	if g.session.State() != netconfig.SessionDisconnected {
		return network.ErrAlreadyActive
	}
	g.prepare()
	if err := g.session.Join(ctx, sessionID); err != nil {
		g.fail(err)
		return err
	}
	g.setState(netconfig.GameStateLoading)
	return nil
}

// prepare clears the previous match and spawns the local player.
func (g *Game) prepare() {
	g.ctx.Reset()
	g.results = nil
	g.lastErr = nil
	g.syncTimer, g.stateTimer = 0, 0
	if !g.headless {
		systems.SpawnPlayer(g.ctx, g.localID, g.name, true)
	}
}

func (g *Game) fail(err error) {
	g.lastErr = err
	g.ctx.Reset()
	g.setState(netconfig.GameStateMenu)
}

// ReturnToMenu leaves the session and tears the match down.
func (g *Game) ReturnToMenu() {
	_ = g.session.Close()
	g.ctx.Reset()
	g.results = nil
	g.setState(netconfig.GameStateMenu)
}

// EndGame stops a running match and records the results.
func (g *Game) EndGame() {
	if g.State() != netconfig.GameStatePlaying {
		return
	}
	g.results = g.Players()
	sortResults(g.results)
	g.setState(netconfig.GameStateOver)
}

// Restart brings every player back at a spawn point and plays again. Scores
// carry over.
func (g *Game) Restart() {
	if g.State() != netconfig.GameStateOver && g.State() != netconfig.GameStatePlaying {
		return
	}
	for _, e := range g.ctx.Players() {
		systems.ResetPlayer(g.ctx, e)
	}
	g.ctx.Match().Elapsed = 0
	g.results = nil
	g.setState(netconfig.GameStatePlaying)
}

// Results returns the final standings of the last ended match, best first.
func (g *Game) Results() []PlayerInfo { return g.results }

// Players returns every player ordered by id.
func (g *Game) Players() []PlayerInfo {
	entries := g.ctx.Players()
	out := make([]PlayerInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, info(e))
	}
	return out
}

// Scoreboard returns every player ordered like the results.
func (g *Game) Scoreboard() []PlayerInfo {
	out := g.Players()
	sortResults(out)
	return out
}

func info(e *donburi.Entry) PlayerInfo {
	p := components.Player.Get(e)
	return PlayerInfo{
		ID:     p.ID,
		Name:   p.Name,
		Kills:  p.Kills,
		Deaths: p.Deaths,
		Health: components.Health.Get(e).Current,
		Dead:   p.Dead,
		Local:  p.Local,
	}
}

// sortResults orders by kills, then fewer deaths, then name.
func sortResults(r []PlayerInfo) {
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Kills != r[j].Kills {
			return r[i].Kills > r[j].Kills
		}
		if r[i].Deaths != r[j].Deaths {
			return r[i].Deaths < r[j].Deaths
		}
		return r[i].Name < r[j].Name
	})
}

// Tick advances the game by dt seconds: network events first, then the
// systems, then outbound sync.
func (g *Game) Tick(dt float64) {
	g.session.Poll()

	g.ctx.Delta = dt
	g.ctx.ECS.Update()

	if !g.ctx.Playing() || !g.session.State().Active() {
		return
	}

	g.syncTimer += dt
	if g.syncTimer >= cfg.Network.UpdateInterval.Seconds() {
		g.syncLocal()
		g.syncTimer = 0
	}

	if g.session.IsHost() && cfg.Network.HeartbeatInterval > 0 {
		g.stateTimer += dt
		if g.stateTimer >= cfg.Network.HeartbeatInterval.Seconds() {
			g.broadcast(g.GameState())
			g.stateTimer = 0
		}
	}
}

func (g *Game) syncLocal() {
	local, ok := g.ctx.LocalPlayer()
	if !ok {
		return
	}
	g.broadcast(messages.PlayerUpdate{Player: systems.Serialize(local)})
}

func (g *Game) broadcast(msg messages.Message, exclude ...string) {
	err := g.session.BroadcastExcept(msg, exclude...)
	if err != nil && !errors.Is(err, network.ErrNotConnected) && !errors.Is(err, network.ErrQueueFull) {
		log.Printf("[game] broadcast %s: %v", msg.Kind(), err)
	}
}

// SetIntent feeds the local player's input for the next tick.
func (g *Game) SetIntent(in Intent) {
	local, ok := g.ctx.LocalPlayer()
	if !ok || !g.ctx.Playing() {
		return
	}
	systems.Aim(local, in.Yaw, in.Pitch)

	input := components.Input.Get(local)
	input.Move = worldDirection(in.Move, in.Yaw)
	input.Jump = input.Jump || in.Jump
}

// worldDirection turns a view-relative move into a direction on the XZ plane.
func worldDirection(move gamemath.Vec3, yaw float64) gamemath.Vec3 {
	move = move.Flat()
	if l := move.Len(); l > 1 {
		move = move.Scale(1 / l)
	}
	sin, cos := math.Sincos(yaw)
	right := gamemath.Vec3{X: cos, Z: -sin}
	forward := gamemath.Vec3{X: -sin, Z: -cos}
	return right.Scale(move.X).Add(forward.Scale(-move.Z))
}

// Fire pulls the trigger of the local player's weapon. Hits are applied
// locally right away; the host announces them, a guest reports them to the
// host.
func (g *Game) Fire() bool {
	local, ok := g.ctx.LocalPlayer()
	if !ok || !g.ctx.Playing() {
		return false
	}
	res := systems.Shoot(g.ctx, local)
	for _, hit := range res.Hits {
		g.announceHit(hit)
	}
	return res.Fired
}

func (g *Game) announceHit(hit messages.Hit) {
	switch g.session.Role() {
	case netconfig.RoleHost:
		g.broadcast(hit)
	case netconfig.RoleGuest:
		if err := g.session.SendToHost(hit); err != nil && !errors.Is(err, network.ErrQueueFull) {
			log.Printf("[game] report hit on %s: %v", hit.TargetID, err)
		}
	}
}

// Reload starts reloading the local player's weapon.
func (g *Game) Reload() bool {
	local, ok := g.ctx.LocalPlayer()
	if !ok || !g.ctx.Playing() {
		return false
	}
	return systems.StartReload(g.ctx, local)
}

// SwitchWeapon selects the local player's weapon by inventory index.
func (g *Game) SwitchWeapon(index int) bool {
	local, ok := g.ctx.LocalPlayer()
	if !ok || !g.ctx.Playing() {
		return false
	}
	return systems.SwitchWeapon(g.ctx, local, index)
}

// SendChat posts a line to everyone in the session and to the local feed.
func (g *Game) SendChat(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if r := []rune(text); len(r) > cfg.Match.ChatMaxLength {
		text = string(r[:cfg.Match.ChatMaxLength])
	}
	g.ctx.Notify("%s: %s", g.name, text)
	g.broadcast(messages.ChatMessage{PlayerID: g.localID, PlayerName: g.name, Message: text})
	return true
}

// Close leaves the session.
func (g *Game) Close() error {
	if err := g.session.Close(); err != nil {
		return fmt.Errorf("game: close: %w", err)
	}
	return nil
}
