package systems

import (
	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var (
	localPlayers  = donburi.NewQuery(filter.Contains(tags.LocalPlayer, components.Input))
	remotePlayers = donburi.NewQuery(filter.Contains(tags.RemotePlayer, components.Interp))
)

// NewInputSystem returns a system that turns each local player's intent into
// velocity. Jump is edge-triggered and consumed.
func NewInputSystem(c *Context) ecs.System {
	return func(e *ecs.ECS) {
		if !c.Playing() {
			return
		}
		localPlayers.Each(e.World, func(entry *donburi.Entry) {
			in := components.Input.Get(entry)
			if in.Move.X != 0 || in.Move.Z != 0 {
				Move(entry, in.Move)
			}
			if in.Jump {
				Jump(entry)
				in.Jump = false
			}
		})
	}
}

// NewMovementSystem returns a system that integrates local players: gravity,
// velocity, ground clamp, walls, arena bounds and friction. Remote players
// are placed by their owners' snapshots.
func NewMovementSystem(c *Context) ecs.System {
	return func(e *ecs.ECS) {
		if !c.Playing() {
			return
		}
		localPlayers.Each(e.World, func(entry *donburi.Entry) {
			StepMovement(c, entry, c.Delta)
		})
	}
}

// StepMovement advances one player's body by dt seconds.
func StepMovement(c *Context, e *donburi.Entry, dt float64) {
	if components.Player.Get(e).Dead {
		return
	}
	tr := components.Transform.Get(e)

	if !tr.OnGround {
		tr.Velocity.Y -= cfg.Physics.Gravity * dt
	}

	dx, dz := tr.Velocity.X*dt, tr.Velocity.Z*dt
	if c.Arena != nil && (dx != 0 || dz != 0) {
		var blockedX, blockedZ bool
		tr.Position, blockedX, blockedZ = c.Arena.MoveAndCollide(tr.Position, dx, dz)
		if blockedX {
			tr.Velocity.X = 0
		}
		if blockedZ {
			tr.Velocity.Z = 0
		}
	} else {
		tr.Position.X += dx
		tr.Position.Z += dz
	}
	tr.Position.Y += tr.Velocity.Y * dt

	ground := cfg.Player.Height / 2
	if tr.Position.Y < ground {
		tr.Position.Y = ground
		tr.Velocity.Y = 0
		tr.OnGround = true
		tr.CanJump = true
	}

	if c.Arena != nil {
		half := c.Arena.Size() / 2
		if tr.Position.X < -half || tr.Position.X > half {
			tr.Position.X = gamemath.Clamp(tr.Position.X, -half, half)
			tr.Velocity.X = 0
		}
		if tr.Position.Z < -half || tr.Position.Z > half {
			tr.Position.Z = gamemath.Clamp(tr.Position.Z, -half, half)
			tr.Velocity.Z = 0
		}
	}

	tr.Velocity.X = gamemath.ApplyFriction(tr.Velocity.X, cfg.Physics.Friction, cfg.Physics.StopThreshold)
	tr.Velocity.Z = gamemath.ApplyFriction(tr.Velocity.Z, cfg.Physics.Friction, cfg.Physics.StopThreshold)
}

// NewInterpSystem returns a system that eases each remote player's drawn
// position towards its latest snapshot over one update interval.
func NewInterpSystem(c *Context) ecs.System {
	return func(e *ecs.ECS) {
		period := cfg.Network.UpdateInterval.Seconds()
		remotePlayers.Each(e.World, func(entry *donburi.Entry) {
			components.Interp.Get(entry).Advance(c.Delta, period)
		})
	}
}
