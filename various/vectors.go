package various

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SafeNormal returns the normalized vector, or the zero vector if v has
// no length.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Midpoint returns the arithmetic mean of a and b.
func Midpoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		(a.X() + b.X()) / 2,
		(a.Y() + b.Y()) / 2,
		(a.Z() + b.Z()) / 2,
	}
}

// AngleBetween returns the angle in radians between two unit vectors.
func AngleBetween(a, b mgl64.Vec3) float64 {
	return math.Acos(math.Max(-1, math.Min(1, a.Dot(b))))
}
