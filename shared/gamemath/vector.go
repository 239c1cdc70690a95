package gamemath

import "math"

// Vec3 is a point or direction in world space. Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// Forward returns the view direction for an Euler rotation where X is pitch
// and Y is yaw. Zero rotation looks down -Z.
func Forward(rotation Vec3) Vec3 {
	pitch, yaw := rotation.X, rotation.Y
	cp := math.Cos(pitch)
	return Vec3{
		X: -math.Sin(yaw) * cp,
		Y: math.Sin(pitch),
		Z: -math.Cos(yaw) * cp,
	}
}

// YawTowards returns the yaw that makes Forward point from one point to
// another on the horizontal plane.
func YawTowards(from, to Vec3) float64 {
	d := to.Sub(from)
	return math.Atan2(-d.X, -d.Z)
}
