package genplanet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/noise"
	"github.com/orbitplanetarium/genplanet/various"
)

// ApplyHeightAndAttributes samples the height of every vertex, displaces it
// along its direction from the center and fills normals, UVs, colors and
// tangents. The vertices are expected to lie on the unit sphere.
// rough may be nil.
func ApplyHeightAndAttributes(d *VertexData, heights, rough HeightSampler, cfg *TerrainConfig, parallel bool) {
	n := len(d.Vertices)
	d.Normals = make([]mgl64.Vec3, n)
	d.UV = make([]mgl64.Vec2, n)
	d.Colors = make([]mgl64.Vec4, n)
	waterCap := 1 - 2*cfg.MinWaterLevel

	various.ForEachChunk(n, parallel, func(start, end int) {
		for i := start; i < end; i++ {
			unit := various.SafeNormal(d.Vertices[i])

			h := heights.Sample(unit)
			if rough != nil {
				h += cfg.RoughnessInfluence * rough.Sample(unit)
			}
			h = ClampToWater(h*cfg.Boost, cfg.MinWaterLevel)

			shade := clamp01(h)
			if h >= waterCap {
				shade = cfg.WaterShade
			}
			d.Colors[i] = mgl64.Vec4{shade, shade, shade, 1}

			h = Redistribute(h, cfg.Redistribution)

			sc := various.NewSphericalCoord(unit)
			d.UV[i] = mgl64.Vec2{sc.Theta, sc.Phi}
			sc.Radius += -cfg.Radius + h*cfg.Scale
			d.Vertices[i] = sc.ToCartesian()

			// A negative radius mirrors the vertex through the center.
			if sc.Radius < 0 {
				d.Normals[i] = unit.Mul(-1)
			} else {
				d.Normals[i] = unit
			}
		}
	})
	d.CalculateTangents()
}

// ClampToWater caps h at the water level 1 - 2*minWaterLevel.
func ClampToWater(h, minWaterLevel float64) float64 {
	if waterCap := 1 - 2*minWaterLevel; h > waterCap {
		return waterCap
	}
	return h
}

// Redistribute raises |h| to the power exp, keeping the sign of h.
// A non-positive exponent leaves h unchanged.
func Redistribute(h, exp float64) float64 {
	if exp <= 0 {
		return h
	}
	return math.Copysign(math.Pow(math.Abs(h), exp), h)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// VolumeSampler samples 3D noise at the unit direction, remapped to [0, 1].
type VolumeSampler struct {
	*noise.Noise
}

// NewVolumeSampler returns a height sampler evaluating 3D noise.
func NewVolumeSampler(p noise.Params) (*VolumeSampler, error) {
	n, err := noise.New(p)
	if err != nil {
		return nil, err
	}
	return &VolumeSampler{Noise: n}, nil
}

// Sample implements HeightSampler.
func (v *VolumeSampler) Sample(normal mgl64.Vec3) float64 {
	return clamp01((v.Eval3(normal.X(), normal.Y(), normal.Z()) + 1) / 2)
}
