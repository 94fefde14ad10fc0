package various

import "github.com/go-gl/mathgl/mgl64"

// GetCentroidOfTriangle returns the centroid of a triangle defined by
// the xyz coordinates a, b, c projected onto the unit sphere.
func GetCentroidOfTriangle(a, b, c mgl64.Vec3) mgl64.Vec3 {
	return SafeNormal(a.Add(b).Add(c).Mul(1.0 / 3))
}
