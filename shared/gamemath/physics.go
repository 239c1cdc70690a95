package gamemath

import "math"

// ApplyFriction scales speed by friction and snaps it to zero below the
// threshold.
func ApplyFriction(speed, friction, threshold float64) float64 {
	speed *= friction
	if math.Abs(speed) < threshold {
		return 0
	}
	return speed
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DamageFalloff scales base damage linearly with distance: full damage at the
// muzzle, (1-falloff) of it at maxRange, never below minDamage.
func DamageFalloff(base int, distance, maxRange, falloff float64, minDamage int) int {
	multiplier := 1 - (distance/maxRange)*falloff
	dmg := int(math.Floor(float64(base) * multiplier))
	if dmg < minDamage {
		return minDamage
	}
	return dmg
}
