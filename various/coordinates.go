package various

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// SphericalCoord is a position in spherical coordinates.
// Theta is the longitude, Phi the colatitude (angle from +Z).
type SphericalCoord struct {
	Theta  float64
	Phi    float64
	Radius float64
}

// NewSphericalCoord converts a cartesian position to spherical coordinates.
// Unlike mgl64.CartesianToSpherical the longitude keeps its quadrant for
// x <= 0.
// See: https://en.wikipedia.org/wiki/Spherical_coordinate_system
func NewSphericalCoord(v mgl64.Vec3) SphericalCoord {
	r := v.Len()
	if r == 0 {
		return SphericalCoord{}
	}
	return SphericalCoord{
		Theta:  math.Atan2(v.Y(), v.X()),
		Phi:    math.Acos(math.Max(-1, math.Min(1, v.Z()/r))),
		Radius: r,
	}
}

// ToCartesian converts the coordinates back to x, y, z.
func (s SphericalCoord) ToCartesian() mgl64.Vec3 {
	// mgl64 takes the inclination before the azimuth.
	return mgl64.SphericalToCartesian(s.Radius, s.Phi, s.Theta)
}
