// Package arena turns a parsed TMX level into the world the game plays in:
// a resolv collision space for movement, axis-aligned boxes for shots, and
// spawn points, all in world units centred on the map.
package arena

import (
	"fmt"
	"io/fs"
	"log"
	"math/rand"

	"github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/leveldata"
	"github.com/solarlune/resolv"
)

const (
	tagSolid = "solid"
	tagProbe = "probe"

	cellSize = 16
)

// Wall is one solid block in world units.
type Wall struct {
	Box  gamemath.Box
	Kind string
}

// Arena is the static level geometry. It is not safe for concurrent use.
type Arena struct {
	Name string

	space  *resolv.Space
	probe  *resolv.Object
	walls  []Wall
	boxes  []gamemath.Box
	spawns []gamemath.Vec3

	size float64 // world units per side
	ppu  float64 // TMX pixels per world unit
}

// Load reads a TMX level from fsys and builds an Arena from it.
func Load(fsys fs.FS, path string) (*Arena, error) {
	data, err := leveldata.LoadCollisionData(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	return New(data, config.Arena.PixelsPerUnit), nil
}

// New builds an Arena from collision data. ppu is the number of TMX pixels in
// one world unit.
func New(data *leveldata.CollisionData, ppu float64) *Arena {
	a := &Arena{
		Name:  data.Name,
		space: resolv.NewSpace(data.MapWidth, data.MapHeight, cellSize, cellSize),
		size:  float64(data.MapWidth) / ppu,
		ppu:   ppu,
	}

	for _, r := range data.SolidRects {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tagSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		a.space.Add(obj)

		minX, minZ := a.toWorld(r.X, r.Y)
		maxX, maxZ := a.toWorld(r.X+r.W, r.Y+r.H)
		w := Wall{
			Box: gamemath.Box{
				Min: gamemath.Vec3{X: minX, Y: 0, Z: minZ},
				Max: gamemath.Vec3{X: maxX, Y: r.Height, Z: maxZ},
			},
			Kind: r.Kind,
		}
		obj.Data = w
		a.walls = append(a.walls, w)
		a.boxes = append(a.boxes, w.Box)
	}

	for _, sp := range data.SpawnPoints {
		x, z := a.toWorld(sp.X, sp.Y)
		a.spawns = append(a.spawns, gamemath.Vec3{X: x, Y: config.Player.Height / 2, Z: z})
	}

	side := 2 * config.Player.Radius * ppu
	a.probe = resolv.NewObject(0, 0, side, side, tagProbe)
	a.probe.SetShape(resolv.NewRectangle(0, 0, side, side))
	a.space.Add(a.probe)

	log.Printf("[arena] loaded %s: %d walls, %d spawn points, %.0fx%.0f units",
		a.Name, len(a.walls), len(a.spawns), a.size, a.size)

	return a
}

func (a *Arena) toWorld(px, py float64) (x, z float64) {
	return px/a.ppu - a.size/2, py/a.ppu - a.size/2
}

func (a *Arena) toPixels(x, z float64) (px, py float64) {
	return (x + a.size/2) * a.ppu, (z + a.size/2) * a.ppu
}

// Size returns the length of one side of the square arena in world units.
func (a *Arena) Size() float64 { return a.size }

// Colliders returns the bounding boxes of every wall and crate.
func (a *Arena) Colliders() []gamemath.Box { return a.boxes }

// Walls returns every solid with its class, for drawing.
func (a *Arena) Walls() []Wall { return a.walls }

// SpawnPoints returns every spawn point, ordered as in the level file.
func (a *Arena) SpawnPoints() []gamemath.Vec3 { return a.spawns }

// RandomSpawnPoint picks a spawn point using rng.
func (a *Arena) RandomSpawnPoint(rng *rand.Rand) gamemath.Vec3 {
	if len(a.spawns) == 0 {
		return gamemath.Vec3{Y: config.Player.Height / 2}
	}
	return a.spawns[rng.Intn(len(a.spawns))]
}

// MoveAndCollide moves a player body centred at pos by dx and dz world units,
// one axis at a time, stopping at the first wall on each axis. It returns the
// new position and whether each axis was blocked.
func (a *Arena) MoveAndCollide(pos gamemath.Vec3, dx, dz float64) (gamemath.Vec3, bool, bool) {
	px, py := a.toPixels(pos.X, pos.Z)
	half := a.probe.W / 2
	a.probe.X = px - half
	a.probe.Y = py - half
	a.probe.Update()

	blockedX := a.moveAxis(dx*a.ppu, true)
	blockedZ := a.moveAxis(dz*a.ppu, false)

	x, z := a.toWorld(a.probe.X+half, a.probe.Y+half)
	return gamemath.Vec3{X: x, Y: pos.Y, Z: z}, blockedX, blockedZ
}

// moveAxis moves the probe d pixels along one axis in steps no longer than
// half a cell, since Check only looks at the destination cells.
func (a *Arena) moveAxis(d float64, horizontal bool) bool {
	const maxStep = cellSize / 2
	for d != 0 {
		step := gamemath.Clamp(d, -maxStep, maxStep)
		moved, blocked := a.sweep(step, horizontal)
		if horizontal {
			a.probe.X += moved
		} else {
			a.probe.Y += moved
		}
		a.probe.Update()
		if blocked {
			return true
		}
		d -= step
	}
	return false
}

// sweep returns how far the probe may travel along one axis, in pixels.
// Cell queries are coarse, so solids that do not overlap the probe on the
// other axis or lie behind it are skipped.
func (a *Arena) sweep(d float64, horizontal bool) (float64, bool) {
	if d == 0 {
		return 0, false
	}
	var check *resolv.Collision
	if horizontal {
		check = a.probe.Check(d, 0, tagSolid)
	} else {
		check = a.probe.Check(0, d, tagSolid)
	}
	if check == nil {
		return d, false
	}

	p := a.probe
	allowed := d
	blocked := false
	for _, o := range check.ObjectsByTags(tagSolid) {
		var gap float64
		if horizontal {
			if o.Y >= p.Y+p.H || o.Y+o.H <= p.Y {
				continue
			}
			if d > 0 {
				gap = o.X - (p.X + p.W)
			} else {
				gap = o.X + o.W - p.X
			}
		} else {
			if o.X >= p.X+p.W || o.X+o.W <= p.X {
				continue
			}
			if d > 0 {
				gap = o.Y - (p.Y + p.H)
			} else {
				gap = o.Y + o.H - p.Y
			}
		}
		if d > 0 && gap >= 0 && gap < allowed {
			allowed, blocked = gap, true
		}
		if d < 0 && gap <= 0 && gap > allowed {
			allowed, blocked = gap, true
		}
	}
	return allowed, blocked
}

// ClampToBounds keeps pos inside the arena's outer edge and reports which
// axes were clamped.
func (a *Arena) ClampToBounds(pos gamemath.Vec3) (gamemath.Vec3, bool, bool) {
	half := a.size / 2
	x := gamemath.Clamp(pos.X, -half, half)
	z := gamemath.Clamp(pos.Z, -half, half)
	clampedX, clampedZ := x != pos.X, z != pos.Z
	pos.X, pos.Z = x, z
	return pos, clampedX, clampedZ
}
