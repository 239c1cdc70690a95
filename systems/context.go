package systems

import (
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/automoto/peerfire/archetypes"
	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/shared/schedule"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Arena is the level geometry the systems play against.
type Arena interface {
	RandomSpawnPoint(rng *rand.Rand) gamemath.Vec3
	Colliders() []gamemath.Box
	Size() float64
	MoveAndCollide(pos gamemath.Vec3, dx, dz float64) (gamemath.Vec3, bool, bool)
}

// Context is everything a system needs, passed explicitly. One Context
// belongs to one game; nothing here is global.
type Context struct {
	ECS    *ecs.ECS
	Timers *schedule.Scheduler
	Arena  Arena
	Rand   *rand.Rand

	// Delta is the length of the current tick in seconds.
	Delta float64

	players map[string]donburi.Entity
	match   *donburi.Entry
}

// NewContext creates a world with its match singleton.
func NewContext(arena Arena, rng *rand.Rand) *Context {
	e := ecs.NewECS(donburi.NewWorld())
	c := &Context{
		ECS:     e,
		Timers:  schedule.New(),
		Arena:   arena,
		Rand:    rng,
		players: make(map[string]donburi.Entity),
	}
	c.match = archetypes.Match.Spawn(e)
	components.Match.SetValue(c.match, components.MatchData{
		State:    netconfig.GameStateMenu,
		Duration: cfg.Match.Duration,
	})
	return c
}

// World returns the entity world.
func (c *Context) World() donburi.World { return c.ECS.World }

// Match returns the match singleton.
func (c *Context) Match() *components.MatchData { return components.Match.Get(c.match) }

// Feed returns the notification feed singleton.
func (c *Context) Feed() *components.FeedData { return components.Feed.Get(c.match) }

// Effects returns the visual effects singleton.
func (c *Context) Effects() *components.EffectsData { return components.Effects.Get(c.match) }

// Now returns game time in seconds.
func (c *Context) Now() float64 { return c.Match().Clock }

// Playing reports whether a match is running.
func (c *Context) Playing() bool { return c.Match().State == netconfig.GameStatePlaying }

// Notify posts a line to the notification feed.
func (c *Context) Notify(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	c.Feed().Push(text, cfg.Match.FeedTTL.Seconds(), cfg.Match.FeedMax)
	log.Printf("[game] %s", text)
}

// Player returns the entry for id.
func (c *Context) Player(id string) (*donburi.Entry, bool) {
	entity, ok := c.players[id]
	if !ok || !c.ECS.World.Valid(entity) {
		return nil, false
	}
	return c.ECS.World.Entry(entity), true
}

// LocalPlayer returns the player owned by this process.
func (c *Context) LocalPlayer() (*donburi.Entry, bool) {
	for id := range c.players {
		if e, ok := c.Player(id); ok && components.Player.Get(e).Local {
			return e, true
		}
	}
	return nil, false
}

// Players returns every player ordered by id.
func (c *Context) Players() []*donburi.Entry {
	ids := make([]string, 0, len(c.players))
	for id := range c.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*donburi.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := c.Player(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// PlayerCount returns the number of players in the world.
func (c *Context) PlayerCount() int { return len(c.players) }

func (c *Context) register(id string, e *donburi.Entry) {
	c.players[id] = e.Entity()
}

// RemovePlayer destroys a player and cancels everything scheduled for it.
func (c *Context) RemovePlayer(id string) bool {
	e, ok := c.Player(id)
	delete(c.players, id)
	c.Timers.CancelOwner(id)
	if !ok {
		return false
	}
	c.ECS.World.Remove(e.Entity())
	return true
}

// Reset removes every player and pending task and clears the feeds.
func (c *Context) Reset() {
	for id := range c.players {
		c.RemovePlayer(id)
	}
	c.Timers.Clear()
	c.Feed().Notices = nil
	c.Effects().Tracers = nil
	m := c.Match()
	m.Clock = 0
	m.Elapsed = 0
}
