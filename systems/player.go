package systems

import (
	"github.com/automoto/peerfire/archetypes"
	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/messages"
	"github.com/automoto/peerfire/shared/schedule"
	"github.com/yohamta/donburi"
)

func reloadKey(id string) schedule.Key  { return schedule.Key{Kind: schedule.Reload, Owner: id} }
func respawnKey(id string) schedule.Key { return schedule.Key{Kind: schedule.Respawn, Owner: id} }

// SpawnPlayer creates a player with full health and a full weapon set at a
// random spawn point. An existing player with the same id is returned as is.
func SpawnPlayer(c *Context, id, name string, local bool) *donburi.Entry {
	if e, ok := c.Player(id); ok {
		return e
	}

	var e *donburi.Entry
	if local {
		e = archetypes.LocalPlayer.Spawn(c.ECS)
	} else {
		e = archetypes.RemotePlayer.Spawn(c.ECS)
	}

	components.Player.SetValue(e, components.PlayerData{
		ID:    id,
		Name:  name,
		Local: local,
	})
	components.Health.SetValue(e, components.HealthData{
		Current: cfg.Player.Health,
		Max:     cfg.Player.Health,
	})
	components.Inventory.SetValue(e, components.NewInventory(cfg.Weapons))
	components.Transform.SetValue(e, components.TransformData{
		Position: spawnPoint(c),
		OnGround: true,
		CanJump:  true,
		Visible:  true,
	})

	c.register(id, e)
	return e
}

func spawnPoint(c *Context) gamemath.Vec3 {
	if c.Arena == nil {
		return gamemath.Vec3{Y: cfg.Player.Height / 2}
	}
	return c.Arena.RandomSpawnPoint(c.Rand)
}

// TakeDamage subtracts amount from the target's health. It is a no-op on a
// dead target. It reports whether this damage killed the target, in which
// case the death is booked and a respawn is scheduled.
func TakeDamage(c *Context, target *donburi.Entry, amount int, attackerID string) bool {
	player := components.Player.Get(target)
	if player.Dead || amount <= 0 {
		return false
	}

	health := components.Health.Get(target)
	health.Current -= amount
	if health.Current > 0 {
		return false
	}
	health.Current = 0
	die(c, target, attackerID)
	return true
}

func die(c *Context, e *donburi.Entry, attackerID string) {
	player := components.Player.Get(e)
	player.Dead = true
	player.Deaths++

	tr := components.Transform.Get(e)
	tr.Visible = false
	tr.Velocity = gamemath.Vec3{}

	if attacker, ok := c.Player(attackerID); ok && attackerID != player.ID {
		a := components.Player.Get(attacker)
		a.Kills++
		c.Notify("%s eliminated %s", a.Name, player.Name)
	} else {
		c.Notify("%s died", player.Name)
	}

	cancelReload(c, e)
	if c.Playing() {
		scheduleRespawn(c, player.ID)
	}
}

func scheduleRespawn(c *Context, id string) {
	c.Timers.Schedule(respawnKey(id), cfg.Player.RespawnDelay.Seconds(), func() {
		if e, ok := c.Player(id); ok {
			Respawn(c, e)
		}
	})
}

// Respawn brings a dead player back with full health and ammo at a random
// spawn point. Kills and deaths are kept.
func Respawn(c *Context, e *donburi.Entry) bool {
	if !components.Player.Get(e).Dead {
		return false
	}
	ResetPlayer(c, e)
	return true
}

// ResetPlayer restores a player, dead or alive, to the state it spawned in
// and moves it to a fresh spawn point.
func ResetPlayer(c *Context, e *donburi.Entry) {
	player := components.Player.Get(e)
	player.Dead = false
	c.Timers.Cancel(respawnKey(player.ID))

	health := components.Health.Get(e)
	health.Current = health.Max

	inv := components.Inventory.Get(e)
	for _, w := range inv.Weapons {
		w.Refill()
	}
	cancelReload(c, e)

	tr := components.Transform.Get(e)
	tr.Position = spawnPoint(c)
	tr.Velocity = gamemath.Vec3{}
	tr.OnGround = true
	tr.CanJump = true
	tr.Visible = true
}

// SwitchWeapon makes the weapon at index active. Out-of-range indexes and the
// already active weapon are ignored. A reload in progress is abandoned.
func SwitchWeapon(c *Context, e *donburi.Entry, index int) bool {
	inv := components.Inventory.Get(e)
	if index < 0 || index >= len(inv.Weapons) || index == inv.Active {
		return false
	}
	cancelReload(c, e)
	inv.Active = index
	return true
}

func cancelReload(c *Context, e *donburi.Entry) {
	c.Timers.Cancel(reloadKey(components.Player.Get(e).ID))
	components.Inventory.Get(e).Reloading = false
}

// StartReload begins reloading the active weapon. The rounds move when the
// weapon's reload time has elapsed on the game tick.
func StartReload(c *Context, e *donburi.Entry) bool {
	player := components.Player.Get(e)
	inv := components.Inventory.Get(e)
	weapon := inv.Current()
	if inv.Reloading || player.Dead || weapon == nil || !weapon.CanReload() {
		return false
	}

	inv.Reloading = true
	id := player.ID
	c.Timers.Schedule(reloadKey(id), weapon.Profile().ReloadTime.Seconds(), func() {
		e, ok := c.Player(id)
		if !ok {
			return
		}
		weapon.Reload()
		components.Inventory.Get(e).Reloading = false
	})
	return true
}

// ReloadProgress returns how far the player's reload has run, from 0 to 1.
func ReloadProgress(c *Context, id string) (float64, bool) {
	return c.Timers.Progress(reloadKey(id))
}

// RespawnProgress returns how far the player's respawn countdown has run.
func RespawnProgress(c *Context, id string) (float64, bool) {
	return c.Timers.Progress(respawnKey(id))
}

// ShotResult is the outcome of one trigger pull.
type ShotResult struct {
	Fired bool
	Hits  []messages.Hit
}

// Shoot fires the active weapon. It is rejected while reloading, while dead
// and without a weapon. Every pellet is resolved against the local view of
// the other players and damage is applied immediately. An empty magazine with
// rounds in reserve starts a reload.
func Shoot(c *Context, e *donburi.Entry) ShotResult {
	player := components.Player.Get(e)
	inv := components.Inventory.Get(e)
	weapon := inv.Current()
	if inv.Reloading || player.Dead || weapon == nil {
		return ShotResult{}
	}

	fired := weapon.Fire(c.Now())
	if !fired.Fired {
		return ShotResult{}
	}

	res := ShotResult{Fired: true, Hits: FireWeapon(c, e, weapon.Profile(), fired.Pellets)}

	if weapon.Magazine() == 0 && weapon.Reserve() > 0 {
		StartReload(c, e)
	}
	return res
}

// Move sets the horizontal velocity from a direction on the XZ plane.
func Move(e *donburi.Entry, dir gamemath.Vec3) {
	if components.Player.Get(e).Dead {
		return
	}
	tr := components.Transform.Get(e)
	tr.Velocity.X = dir.X * cfg.Player.MoveSpeed
	tr.Velocity.Z = dir.Z * cfg.Player.MoveSpeed
}

// Jump launches a grounded player.
func Jump(e *donburi.Entry) bool {
	tr := components.Transform.Get(e)
	if components.Player.Get(e).Dead || !tr.CanJump || !tr.OnGround {
		return false
	}
	tr.Velocity.Y = cfg.Player.JumpForce
	tr.OnGround = false
	tr.CanJump = false
	return true
}

// Aim sets the view direction.
func Aim(e *donburi.Entry, yaw, pitch float64) {
	tr := components.Transform.Get(e)
	tr.Rotation.Y = yaw
	tr.Rotation.X = gamemath.Clamp(pitch, -1.5, 1.5)
}
