package gamemath

import (
	"math"
	"math/rand"
)

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min Vec3
	Max Vec3
}

// Center returns the middle of the box.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Ray is a half-line starting at Origin. Dir must be normalized so that hit
// distances are in world units.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectBox returns the distance to the first point where the ray enters
// b. A ray starting inside the box hits at distance 0.
func (r Ray) IntersectBox(b Box) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectCylinder tests the ray against a vertical capped cylinder whose
// axis passes through center, spanning height/2 above and below it.
func (r Ray) IntersectCylinder(center Vec3, radius, height float64) (float64, bool) {
	bottom := center.Y - height/2
	top := center.Y + height/2
	best := math.Inf(1)

	// Side wall, solved on the horizontal plane.
	ox, oz := r.Origin.X-center.X, r.Origin.Z-center.Z
	a := r.Dir.X*r.Dir.X + r.Dir.Z*r.Dir.Z
	b := 2 * (ox*r.Dir.X + oz*r.Dir.Z)
	c := ox*ox + oz*oz - radius*radius
	if a > 0 {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t < 0 || t >= best {
					continue
				}
				if y := r.Origin.Y + r.Dir.Y*t; y >= bottom && y <= top {
					best = t
				}
			}
		}
	}

	// Caps.
	if r.Dir.Y != 0 {
		for _, capY := range [2]float64{bottom, top} {
			t := (capY - r.Origin.Y) / r.Dir.Y
			if t < 0 || t >= best {
				continue
			}
			p := r.At(t)
			dx, dz := p.X-center.X, p.Z-center.Z
			if dx*dx+dz*dz <= radius*radius {
				best = t
			}
		}
	}

	// Origin inside the cylinder.
	if c <= 0 && r.Origin.Y >= bottom && r.Origin.Y <= top {
		best = 0
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// ApplySpread perturbs dir on the x and y axes by independent uniform offsets
// in [-spread/2, spread/2] and renormalizes it.
func ApplySpread(dir Vec3, spread float64, rng *rand.Rand) Vec3 {
	if spread <= 0 {
		return dir.Normalize()
	}
	dir.X += (rng.Float64() - 0.5) * spread
	dir.Y += (rng.Float64() - 0.5) * spread
	return dir.Normalize()
}
