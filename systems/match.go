package systems

import (
	"time"

	"github.com/yohamta/donburi/ecs"
)

// NewMatchSystem returns a system that advances the game clock while playing
// and calls onTimeUp once when a timed match runs out.
func NewMatchSystem(c *Context, onTimeUp func()) ecs.System {
	return func(e *ecs.ECS) {
		if !c.Playing() {
			return
		}
		m := c.Match()
		m.Clock += c.Delta
		m.Elapsed += time.Duration(c.Delta * float64(time.Second))
		if m.Duration > 0 && m.Elapsed >= m.Duration && onTimeUp != nil {
			onTimeUp()
		}
	}
}

// NewTimerSystem returns a system that runs due reloads and respawns. Timers
// are frozen outside of play.
func NewTimerSystem(c *Context) ecs.System {
	return func(e *ecs.ECS) {
		if !c.Playing() {
			return
		}
		c.Timers.Update(c.Delta)
	}
}

// NewEffectsSystem returns a system that ages notifications and tracers.
func NewEffectsSystem(c *Context) ecs.System {
	return func(e *ecs.ECS) {
		c.Feed().Decay(c.Delta)
		c.Effects().Decay(c.Delta)
	}
}
