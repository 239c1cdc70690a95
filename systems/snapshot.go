package systems

import (
	"github.com/automoto/peerfire/components"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/messages"
	"github.com/yohamta/donburi"
)

// Serialize captures a player's replicated state.
func Serialize(e *donburi.Entry) messages.Snapshot {
	p := components.Player.Get(e)
	tr := components.Transform.Get(e)
	inv := components.Inventory.Get(e)

	current := inv.Active
	if inv.Current() == nil {
		current = -1
	}

	return messages.Snapshot{
		ID:            p.ID,
		Name:          p.Name,
		Position:      tr.Position,
		Rotation:      tr.Rotation,
		Health:        components.Health.Get(e).Current,
		IsDead:        p.Dead,
		CurrentWeapon: current,
		IsReloading:   inv.Reloading,
		Kills:         p.Kills,
		Deaths:        p.Deaths,
	}
}

// ApplySnapshot overwrites a replica with the owner's view of it. Death and
// revival edges are applied once; the weapon only changes when the index
// differs and is not -1.
func ApplySnapshot(c *Context, e *donburi.Entry, s messages.Snapshot) {
	p := components.Player.Get(e)
	tr := components.Transform.Get(e)
	inv := components.Inventory.Get(e)
	health := components.Health.Get(e)

	if s.Name != "" {
		p.Name = s.Name
	}
	tr.Position = s.Position
	tr.Rotation = s.Rotation
	health.Current = int(gamemath.Clamp(float64(s.Health), 0, float64(health.Max)))

	revived := p.Dead && !s.IsDead
	if e.HasComponent(components.Interp) {
		components.Interp.Get(e).Retarget(s.Position, revived)
	}

	if s.IsDead != p.Dead {
		if s.IsDead {
			p.Dead = true
			tr.Visible = false
			tr.Velocity = gamemath.Vec3{}
		} else {
			p.Dead = false
			tr.Visible = true
			c.Timers.Cancel(respawnKey(p.ID))
		}
	}
	if p.Dead {
		health.Current = 0
	}

	if s.CurrentWeapon != -1 && s.CurrentWeapon != inv.Active {
		SwitchWeapon(c, e, s.CurrentWeapon)
	}
	inv.Reloading = s.IsReloading

	p.Kills = s.Kills
	p.Deaths = s.Deaths
}

// UpsertPlayer applies a snapshot to a known player, or creates a remote
// player with a full weapon set and then applies it. It reports whether the
// player was created.
func UpsertPlayer(c *Context, s messages.Snapshot) (*donburi.Entry, bool) {
	if e, ok := c.Player(s.ID); ok {
		ApplySnapshot(c, e, s)
		return e, false
	}
	e := SpawnPlayer(c, s.ID, s.Name, false)
	ApplySnapshot(c, e, s)
	return e, true
}
