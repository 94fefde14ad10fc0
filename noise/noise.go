// Package noise provides seeded fractal noise fields used to build the
// height data of a planet.
package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Type selects the noise primitive that is summed across octaves.
type Type int

const (
	Gradient Type = iota // Perlin style gradient noise
	Simplex              // OpenSimplex noise
	Value                // Hashed lattice value noise
)

func (t Type) String() string {
	switch t {
	case Gradient:
		return "gradient"
	case Simplex:
		return "simplex"
	case Value:
		return "value"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Interp is the interpolation used between lattice points.
type Interp int

const (
	Linear Interp = iota
	Hermite
	Quintic
)

// Fractal is the way octaves are combined.
type Fractal int

const (
	FBM        Fractal = iota // Plain sum of octaves
	Billow                    // Sum of folded octaves
	RigidMulti                // Inverted, folded octaves (ridges)
)

// ErrUnknownNoiseType is returned for an unsupported noise primitive.
var ErrUnknownNoiseType = errors.New("unknown noise type")

// Params holds the immutable settings of a noise field.
type Params struct {
	Type       Type    `json:"type"`       // Noise primitive
	Seed       int32   `json:"seed"`       // Seed of the primitive
	Frequency  float64 `json:"frequency"`  // Base frequency
	Gain       float64 `json:"gain"`       // Amplitude multiplier per octave
	Lacunarity float64 `json:"lacunarity"` // Frequency multiplier per octave
	Octaves    int     `json:"octaves"`    // Number of octaves
	Interp     Interp  `json:"interp"`     // Lattice interpolation (value noise)
	Fractal    Fractal `json:"fractal"`    // Octave combination
}

// NewParams returns the default noise parameters.
func NewParams() Params {
	return Params{
		Type:       Simplex,
		Seed:       600,
		Frequency:  0.5,
		Gain:       0.5,
		Lacunarity: 2.0,
		Octaves:    6,
		Interp:     Quintic,
		Fractal:    FBM,
	}
}

// WithSeed returns a copy of the parameters using the given seed.
func (p Params) WithSeed(seed int32) Params {
	p.Seed = seed
	return p
}

// primitive is a single octave of coherent noise in roughly [-1, 1].
type primitive interface {
	eval2(x, y float64) float64
	eval3(x, y, z float64) float64
}

type simplexPrimitive struct {
	os opensimplex.Noise
}

func (s simplexPrimitive) eval2(x, y float64) float64    { return s.os.Eval2(x, y) }
func (s simplexPrimitive) eval3(x, y, z float64) float64 { return s.os.Eval3(x, y, z) }

type gradientPrimitive struct {
	p *perlin.Perlin
}

// Perlin noise peaks around +-0.7, so we stretch it to the same range as
// the other primitives.
const gradientScale = 1.4

func (g gradientPrimitive) eval2(x, y float64) float64 {
	return clampUnit(g.p.Noise2D(x, y) * gradientScale)
}

func (g gradientPrimitive) eval3(x, y, z float64) float64 {
	return clampUnit(g.p.Noise3D(x, y, z) * gradientScale)
}

// Noise is a fractal noise field, initialized with a given set of
// parameters.
type Noise struct {
	Params
	Amplitudes []float64 // Amplitude of each octave
	bounding   float64   // 1 / sum of amplitudes
	prim       primitive
}

// New returns a new Noise for the given parameters.
func New(p Params) (*Noise, error) {
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	n := &Noise{
		Params:     p,
		Amplitudes: make([]float64, p.Octaves),
	}

	switch p.Type {
	case Gradient:
		// A single iteration; the octaves are summed by Noise itself.
		n.prim = gradientPrimitive{p: perlin.NewPerlin(2, 2, 1, int64(p.Seed))}
	case Simplex:
		n.prim = simplexPrimitive{os: opensimplex.New(int64(p.Seed))}
	case Value:
		n.prim = valuePrimitive{seed: uint32(p.Seed), interp: p.Interp}
	default:
		return nil, fmt.Errorf("noise.New %v: %w", p.Type, ErrUnknownNoiseType)
	}

	// Initialize the amplitudes.
	var sumOfAmplitudes float64
	for i := range n.Amplitudes {
		n.Amplitudes[i] = math.Pow(p.Gain, float64(i))
		sumOfAmplitudes += n.Amplitudes[i]
	}
	n.bounding = 1
	if sumOfAmplitudes > 0 {
		n.bounding = 1 / sumOfAmplitudes
	}
	return n, nil
}

// Eval2 returns the noise value at the given point, in about [-1, 1].
func (n *Noise) Eval2(x, y float64) float64 {
	x *= n.Frequency
	y *= n.Frequency
	return n.combine(func(f float64) float64 {
		return n.prim.eval2(x*f, y*f)
	})
}

// Eval3 returns the noise value at the given point, in about [-1, 1].
func (n *Noise) Eval3(x, y, z float64) float64 {
	x *= n.Frequency
	y *= n.Frequency
	z *= n.Frequency
	return n.combine(func(f float64) float64 {
		return n.prim.eval3(x*f, y*f, z*f)
	})
}

// combine sums the octaves returned by sample (called with the octave
// frequency multiplier) according to the fractal type.
func (n *Noise) combine(sample func(f float64) float64) float64 {
	var sum float64
	freq := 1.0
	for octave := 0; octave < n.Octaves; octave++ {
		v := sample(freq)
		switch n.Fractal {
		case Billow:
			v = math.Abs(v)*2 - 1
		case RigidMulti:
			v = 1 - math.Abs(v)
		}
		sum += n.Amplitudes[octave] * v
		freq *= n.Lacunarity
	}
	if n.Fractal == RigidMulti {
		// Ridges live in [0, 1], shift them back to [-1, 1].
		return sum*n.bounding*2 - 1
	}
	return sum * n.bounding
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
