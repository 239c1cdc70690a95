package systems

import (
	"math"
	"sort"

	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/messages"
	"github.com/yohamta/donburi"
)

// Tracer lifetimes in seconds
const (
	tracerTTL = 0.1
	impactTTL = 0.4
)

// EyePosition returns where a player's shots start: EyeHeight of the body
// height above the feet.
func EyePosition(tr *components.TransformData) gamemath.Vec3 {
	eye := tr.Position
	eye.Y += cfg.Player.Height*cfg.Player.EyeHeight - cfg.Player.Height/2
	return eye
}

// ResolvePellet tests ray against every living player except the shooter and
// returns the nearest one within range.
func ResolvePellet(c *Context, shooterID string, ray gamemath.Ray) (*donburi.Entry, float64, bool) {
	type candidate struct {
		entry *donburi.Entry
		dist  float64
	}
	var hits []candidate

	for _, e := range c.Players() {
		p := components.Player.Get(e)
		if p.ID == shooterID || p.Dead {
			continue
		}
		pos := components.Transform.Get(e).Position
		if d, ok := ray.IntersectCylinder(pos, cfg.Player.Radius, cfg.Player.Height); ok {
			hits = append(hits, candidate{e, d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if len(hits) == 0 || hits[0].dist > cfg.Combat.MaxRange {
		return nil, 0, false
	}
	return hits[0].entry, hits[0].dist, true
}

// Damage returns the damage a pellet deals at distance.
func Damage(base int, distance float64) int {
	return gamemath.DamageFalloff(base, distance, cfg.Combat.MaxRange, cfg.Combat.Falloff, cfg.Combat.MinDamage)
}

// FireWeapon resolves pellets shots from the shooter's eye along its view
// direction, applying damage to whoever each pellet hits. It returns one Hit
// per pellet that connected.
func FireWeapon(c *Context, shooter *donburi.Entry, profile cfg.WeaponConfig, pellets int) []messages.Hit {
	shooterID := components.Player.Get(shooter).ID
	tr := components.Transform.Get(shooter)
	origin := EyePosition(tr)
	forward := gamemath.Forward(tr.Rotation)
	effects := c.Effects()

	var hits []messages.Hit
	for i := 0; i < pellets; i++ {
		ray := gamemath.Ray{Origin: origin, Dir: gamemath.ApplySpread(forward, profile.Spread, c.Rand)}

		target, dist, ok := ResolvePellet(c, shooterID, ray)
		if !ok {
			end, impact := wallImpact(c, ray)
			effects.Tracers = append(effects.Tracers, components.Tracer{
				From: origin, To: end, Impact: impact, TTL: tracerTTL, Life: tracerTTL,
			})
			continue
		}

		damage := Damage(profile.Damage, dist)
		killed := TakeDamage(c, target, damage, shooterID)
		hits = append(hits, messages.Hit{
			TargetID:   components.Player.Get(target).ID,
			Damage:     damage,
			Killed:     killed,
			AttackerID: shooterID,
		})
		effects.Tracers = append(effects.Tracers, components.Tracer{
			From: origin, To: ray.At(dist), Hit: true, TTL: impactTTL, Life: impactTTL,
		})
	}
	return hits
}

// wallImpact returns where ray first meets a wall within range, or the end of
// the range.
func wallImpact(c *Context, ray gamemath.Ray) (gamemath.Vec3, bool) {
	best := math.Inf(1)
	if c.Arena != nil {
		for _, b := range c.Arena.Colliders() {
			if t, ok := ray.IntersectBox(b); ok && t < best {
				best = t
			}
		}
	}
	if best > cfg.Combat.MaxRange {
		return ray.At(cfg.Combat.MaxRange), false
	}
	return ray.At(best), true
}

// ApplyHit applies a hit received from a peer to the local replica of its
// target. The reported amount is applied as is. It returns whether the target
// is known and whether the hit killed it.
func ApplyHit(c *Context, hit messages.Hit) (known, killed bool) {
	target, ok := c.Player(hit.TargetID)
	if !ok {
		return false, false
	}
	return true, TakeDamage(c, target, hit.Damage, hit.AttackerID)
}
