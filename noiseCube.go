package genplanet

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/noise"
	"github.com/orbitplanetarium/genplanet/various"
)

// CubeFace identifies one of the six faces of a noise cube.
type CubeFace int

const (
	PosX CubeFace = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
	NumFaces = 6
)

var faceNames = [NumFaces]string{"posx", "negx", "posy", "negy", "posz", "negz"}

func (f CubeFace) String() string {
	if f < 0 || f >= NumFaces {
		return fmt.Sprintf("CubeFace(%d)", int(f))
	}
	return faceNames[f]
}

// ParseCubeFace returns the face with the given name.
func ParseCubeFace(name string) (CubeFace, bool) {
	for i, n := range faceNames {
		if n == name {
			return CubeFace(i), true
		}
	}
	return 0, false
}

// faceSeedOffset is added to the base seed per face index.
const faceSeedOffset = 10

// HeightSampler returns a height for a unit direction.
type HeightSampler interface {
	Sample(normal mgl64.Vec3) float64
}

// NoiseCube holds six square height fields, one per cube face, each sampled
// from its own noise field.
type NoiseCube struct {
	Params     noise.Params                // Base noise parameters
	Placements [NumFaces][]DecalPlacement // Decal instances per face
	res        int
	resStep    float64
	faces      [NumFaces][]float64
	steepness  [NumFaces][]float64
	steepOnce  sync.Once
}

// NewNoiseCube samples six noise fields into height fields of
// resolution x resolution samples. The noise is remapped to [0, 1].
// If parallel is set, rows are sampled by chunk workers.
func NewNoiseCube(resolution int, p noise.Params, parallel bool) (*NoiseCube, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("NewNoiseCube: %w: resolution %d", ErrFieldSizeMismatch, resolution)
	}
	c := &NoiseCube{
		Params:  p,
		res:     resolution,
		resStep: 1 / float64(resolution),
	}
	for f := 0; f < NumFaces; f++ {
		n, err := noise.New(p.WithSeed(p.Seed + int32(f*faceSeedOffset)))
		if err != nil {
			return nil, fmt.Errorf("NewNoiseCube: face %s: %w", CubeFace(f), err)
		}
		field := make([]float64, resolution*resolution)
		offset := float64(f)
		various.ForEachChunk(resolution, parallel, func(start, end int) {
			for y := start; y < end; y++ {
				for x := 0; x < resolution; x++ {
					v := n.Eval2(offset+float64(x)*c.resStep, float64(y)*c.resStep)
					field[y*resolution+x] = clamp01((v + 1) / 2)
				}
			}
		})
		c.faces[f] = field
	}
	return c, nil
}

// NewNoiseCubeWithDecals builds a noise cube and stamps every decal onto it.
// The MaxFrequency placements of a decal are spread over randomly chosen
// faces, and each face uses a scale drawn from [minScale, maxScale].
// Decals that cannot be applied are logged and skipped.
func NewNoiseCubeWithDecals(resolution int, p noise.Params, parallel bool, decals []*Decal, rng *rand.Rand, minScale, maxScale float64) (*NoiseCube, error) {
	c, err := NewNoiseCube(resolution, p, parallel)
	if err != nil {
		return nil, err
	}
	for i, d := range decals {
		if !d.IsInitialized() {
			log.Printf("NewNoiseCubeWithDecals: decal %d: %v", i, ErrDecalNotInitialized)
			continue
		}
		var counts [NumFaces]int
		for j := 0; j < d.MaxFrequency; j++ {
			counts[rng.Intn(NumFaces)]++
		}
		for f, count := range counts {
			if count == 0 {
				continue
			}
			scale := minScale + rng.Float64()*(maxScale-minScale)
			placed, err := d.ApplyDecalToNoiseMap(rng, c.faces[f], c.res, scale, count, true)
			if err != nil {
				log.Printf("NewNoiseCubeWithDecals: decal %d on %s: %v", i, CubeFace(f), err)
				continue
			}
			c.Placements[f] = append(c.Placements[f], placed...)
		}
	}
	return c, nil
}

// Resolution returns the edge length of each face.
func (c *NoiseCube) Resolution() int {
	return c.res
}

// Face returns the height field of the given face.
func (c *NoiseCube) Face(f CubeFace) []float64 {
	return c.faces[f]
}

// Sample implements HeightSampler.
func (c *NoiseCube) Sample(normal mgl64.Vec3) float64 {
	return c.SampleNoiseCube(normal)
}

// SampleNoiseCube returns the sum of the three per axis face samples of the
// given unit normal, each weighted by the magnitude of its axis component.
// Indices outside of a face contribute zero.
func (c *NoiseCube) SampleNoiseCube(normal mgl64.Vec3) float64 {
	var sum float64
	for axis := 0; axis < 3; axis++ {
		w := normal[axis]
		if w == 0 {
			continue
		}
		face := CubeFace(2 * axis)
		if w < 0 {
			face++
		}
		u, v := otherAxes(normal, axis)
		col := int(((u + 1) / 2) / c.resStep)
		row := int(((v + 1) / 2) / c.resStep)
		if col < 0 || col >= c.res || row < 0 || row >= c.res {
			log.Printf("NoiseCube.SampleNoiseCube: index (%d, %d) out of bounds on %s", col, row, face)
			continue
		}
		sum += c.faces[face][row*c.res+col] * math.Abs(w)
	}
	return sum
}

// otherAxes returns the two components of n orthogonal to axis, in the
// order (column, row) used by the face layout.
func otherAxes(n mgl64.Vec3, axis int) (float64, float64) {
	switch axis {
	case 0:
		return n.Y(), n.Z()
	case 1:
		return n.X(), n.Z()
	}
	return n.X(), n.Y()
}

// Steepness returns the steepness field of the given face.
func (c *NoiseCube) Steepness(f CubeFace) []float64 {
	c.steepOnce.Do(c.computeSteepness)
	return c.steepness[f]
}

// computeSteepness derives the forward difference gradient magnitude of all
// faces. The last row and column stay zero.
func (c *NoiseCube) computeSteepness() {
	res := c.res
	for f := 0; f < NumFaces; f++ {
		h := c.faces[f]
		s := make([]float64, len(h))
		for y := 0; y < res-1; y++ {
			for x := 0; x < res-1; x++ {
				i := y*res + x
				s[i] = math.Abs(h[i+1]-h[i]) + math.Abs(h[i+res]-h[i])
			}
		}
		c.steepness[f] = s
	}
}

// SampleSteepness returns the averaged steepness at the given direction.
func (c *NoiseCube) SampleSteepness(normal mgl64.Vec3) float64 {
	c.steepOnce.Do(c.computeSteepness)
	n := various.SafeNormal(normal)
	var sum float64
	for axis := 0; axis < 3; axis++ {
		face := CubeFace(2 * axis)
		if (n[axis]+1)/2 <= 0.5 {
			face++
		}
		u, v := otherAxes(n, axis)
		col := c.pixel((u + 1) / 2)
		row := c.pixel((v + 1) / 2)
		sum += math.Abs(n[axis]) * c.steepness[face][row*c.res+col]
	}
	return sum / 3
}

// pixel maps a coordinate in [0, 1] to a clamped pixel index.
func (c *NoiseCube) pixel(v float64) int {
	p := int(v / c.resStep)
	if p < 0 {
		return 0
	}
	if p >= c.res {
		return c.res - 1
	}
	return p
}
