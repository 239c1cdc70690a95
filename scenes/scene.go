// Package scenes holds the ebiten client screens: the menu, the arena and
// the results screen. Every scene drives the same game.Game.
package scenes

import (
	"github.com/automoto/peerfire/arena"
	"github.com/automoto/peerfire/game"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneChanger switches the active scene.
type SceneChanger interface {
	ChangeScene(scene interface{})
}

// Env is shared by every scene of one client.
type Env struct {
	Game  *game.Game
	Arena *arena.Arena

	// Signal lists hosted sessions; nil without a registry.
	Signal *network.SignalClient

	Store   *systems.ProfileStore
	Profile *systems.SavedProfile
}

// remember stores the player name and the session just entered.
func (env *Env) remember(sessionID string) {
	env.Profile.Name = env.Game.Name()
	env.Profile.LastSession = sessionID
	_ = env.Store.Save(env.Profile)
}

// tickDelta is the length of one ebiten update in seconds.
func tickDelta() float64 {
	return 1 / float64(ebiten.TPS())
}

// view maps the arena floor onto the screen, looking straight down with +X
// to the right and +Z down.
type view struct {
	ox, oy float64
	scale  float64 // pixels per world unit
}

func newView(arenaSize float64, width, height int) view {
	side := float64(min(width, height)) * 0.92
	return view{
		ox:    float64(width) / 2,
		oy:    float64(height) / 2,
		scale: side / arenaSize,
	}
}

func (v view) toScreen(p gamemath.Vec3) (float32, float32) {
	return float32(v.ox + p.X*v.scale), float32(v.oy + p.Z*v.scale)
}

func (v view) toWorld(x, y int) gamemath.Vec3 {
	return gamemath.Vec3{
		X: (float64(x) - v.ox) / v.scale,
		Z: (float64(y) - v.oy) / v.scale,
	}
}

func (v view) length(units float64) float32 {
	return float32(units * v.scale)
}
