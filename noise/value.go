package noise

import "math"

// valuePrimitive is lattice value noise. Each integer lattice point gets a
// stable pseudo random value derived from the seed, the values in between
// are blended with the configured interpolation.
type valuePrimitive struct {
	seed   uint32
	interp Interp
}

func (v valuePrimitive) eval2(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	ix, iy := int32(x0), int32(y0)
	tx, ty := v.fade(x-x0), v.fade(y-y0)

	a := lerp(v.lattice2(ix, iy), v.lattice2(ix+1, iy), tx)
	b := lerp(v.lattice2(ix, iy+1), v.lattice2(ix+1, iy+1), tx)
	return lerp(a, b, ty)
}

func (v valuePrimitive) eval3(x, y, z float64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int32(x0), int32(y0), int32(z0)
	tx, ty, tz := v.fade(x-x0), v.fade(y-y0), v.fade(z-z0)

	a := lerp(v.lattice3(ix, iy, iz), v.lattice3(ix+1, iy, iz), tx)
	b := lerp(v.lattice3(ix, iy+1, iz), v.lattice3(ix+1, iy+1, iz), tx)
	c := lerp(v.lattice3(ix, iy, iz+1), v.lattice3(ix+1, iy, iz+1), tx)
	d := lerp(v.lattice3(ix, iy+1, iz+1), v.lattice3(ix+1, iy+1, iz+1), tx)
	return lerp(lerp(a, b, ty), lerp(c, d, ty), tz)
}

func (v valuePrimitive) fade(t float64) float64 {
	switch v.interp {
	case Hermite:
		return t * t * (3 - 2*t)
	case Quintic:
		return t * t * t * (t*(t*6-15) + 10)
	}
	return t
}

// lattice2 maps a lattice point to [-1, 1].
func (v valuePrimitive) lattice2(x, y int32) float64 {
	return toUnit(hash2(v.seed, x, y))
}

func (v valuePrimitive) lattice3(x, y, z int32) float64 {
	return toUnit(hash3(v.seed, x, y, z))
}

func toUnit(h uint32) float64 {
	return float64(h)/float64(math.MaxUint32)*2 - 1
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// hash32 mixes 32-bit input into a well-distributed 32-bit output.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

func hash2(seed uint32, x, y int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	return hash32(h)
}

func hash3(seed uint32, x, y, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	h ^= uint32(z) * 0xc2b2ae35
	return hash32(h)
}
