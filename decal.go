package genplanet

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"math/rand"
)

var (
	ErrDecalNotInitialized = errors.New("decal not initialized")
	ErrDecalTooLarge       = errors.New("decal does not fit into target")
	ErrFieldSizeMismatch   = errors.New("field length does not match resolution")
	ErrInvalidScale        = errors.New("invalid decal scale")
	ErrImageNotSquare      = errors.New("image is not square")
	ErrImageResolution     = errors.New("image resolution mismatch")
	ErrNoPixelData         = errors.New("image has no pixel data")
)

// Decal is a square greyscale height pattern that can be stamped onto a
// height field.
type Decal struct {
	Resolution   int       // Edge length in samples
	HeightData   []float64 // Row-major samples in [0, 1]
	MaxFrequency int       // Placements distributed across all cube faces
}

// DecalPlacement records where a decal instance was written.
type DecalPlacement struct {
	X, Y  int     // Top left corner in the target field
	Size  int     // Footprint edge length in target samples
	Scale float64 // Scale the instance was written with
}

// DecodeGreyscale returns the red channel of a square, power of two image.
func DecodeGreyscale(img image.Image) ([]uint8, int, int, error) {
	if img == nil {
		return nil, 0, 0, ErrNoPixelData
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, w, h, ErrNoPixelData
	}
	if w != h {
		return nil, w, h, fmt.Errorf("%w: %dx%d", ErrImageNotSquare, w, h)
	}
	if w&(w-1) != 0 {
		return nil, w, h, fmt.Errorf("%w: %d is not a power of two", ErrImageResolution, w)
	}
	red := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			red[y*w+x] = uint8(r >> 8)
		}
	}
	return red, w, h, nil
}

// CreateDecal decodes the red channel of img into a new decal.
// On failure the returned decal is empty and an error is returned.
func CreateDecal(resolution int, img image.Image, maxFrequency int) (*Decal, error) {
	d := &Decal{MaxFrequency: maxFrequency}
	red, w, _, err := DecodeGreyscale(img)
	if err != nil {
		log.Printf("CreateDecal: %v", err)
		return d, err
	}
	if w != resolution {
		err := fmt.Errorf("%w: image is %d, want %d", ErrImageResolution, w, resolution)
		log.Printf("CreateDecal: %v", err)
		return d, err
	}
	d.Resolution = resolution
	d.HeightData = make([]float64, len(red))
	for i, v := range red {
		d.HeightData[i] = float64(v) / 255
	}
	return d, nil
}

// IsInitialized returns true if the decal holds usable height data.
func (d *Decal) IsInitialized() bool {
	return d != nil && d.Resolution > 0 && len(d.HeightData) >= 2 && len(d.HeightData) == d.Resolution*d.Resolution
}

// Footprint returns the edge length covered by the decal at the given scale.
func (d *Decal) Footprint(scale float64) int {
	return int(float64(d.Resolution) * scale)
}

// ApplyDecalToNoiseMap stamps the decal count times onto field at random
// positions using a fixed scale. If additive is set, the decal sample is
// remapped to [-1, 1] and added, otherwise it replaces the target value.
// Nothing is written if any precondition fails.
func (d *Decal) ApplyDecalToNoiseMap(rng *rand.Rand, field []float64, targetRes int, scale float64, count int, additive bool) ([]DecalPlacement, error) {
	if err := d.checkTarget(field, targetRes, scale, scale); err != nil {
		log.Printf("Decal.ApplyDecalToNoiseMap: %v", err)
		return nil, err
	}
	placements := make([]DecalPlacement, 0, count)
	for i := 0; i < count; i++ {
		placements = append(placements, d.stamp(rng, field, targetRes, scale, additive))
	}
	return placements, nil
}

// ApplyDecalRandomScale works like ApplyDecalToNoiseMap but draws a new scale
// in [minScale, maxScale] for every placement.
func (d *Decal) ApplyDecalRandomScale(rng *rand.Rand, field []float64, targetRes int, minScale, maxScale float64, count int, additive bool) ([]DecalPlacement, error) {
	if err := d.checkTarget(field, targetRes, minScale, maxScale); err != nil {
		log.Printf("Decal.ApplyDecalRandomScale: %v", err)
		return nil, err
	}
	placements := make([]DecalPlacement, 0, count)
	for i := 0; i < count; i++ {
		scale := minScale + rng.Float64()*(maxScale-minScale)
		placements = append(placements, d.stamp(rng, field, targetRes, scale, additive))
	}
	return placements, nil
}

// checkTarget validates the decal against a target field for every scale in
// [minScale, maxScale].
func (d *Decal) checkTarget(field []float64, targetRes int, minScale, maxScale float64) error {
	if !d.IsInitialized() {
		return ErrDecalNotInitialized
	}
	if math.IsNaN(minScale) || math.IsNaN(maxScale) || minScale <= 0 || maxScale < minScale {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidScale, minScale, maxScale)
	}
	if d.Footprint(minScale) < 1 {
		return fmt.Errorf("%w: footprint at scale %g is empty", ErrInvalidScale, minScale)
	}
	if targetRes <= 0 || len(field) != targetRes*targetRes {
		return fmt.Errorf("%w: %d != %d²", ErrFieldSizeMismatch, len(field), targetRes)
	}
	if fp := d.Footprint(maxScale); fp > targetRes {
		return fmt.Errorf("%w: footprint %d > %d", ErrDecalTooLarge, fp, targetRes)
	}
	return nil
}

// stamp writes one instance of the decal. Preconditions must hold.
func (d *Decal) stamp(rng *rand.Rand, field []float64, targetRes int, scale float64, additive bool) DecalPlacement {
	size := d.Footprint(scale)
	stride := int(math.Round(1 / scale))
	if stride < 1 {
		stride = 1
	}
	startX := rng.Intn(targetRes - size + 1)
	startY := rng.Intn(targetRes - size + 1)
	for y := 0; y < size; y++ {
		dy := y * stride
		if dy >= d.Resolution {
			dy = d.Resolution - 1
		}
		row := (startY + y) * targetRes
		for x := 0; x < size; x++ {
			dx := x * stride
			if dx >= d.Resolution {
				dx = d.Resolution - 1
			}
			v := d.HeightData[dy*d.Resolution+dx]
			if additive {
				field[row+startX+x] += 2*v - 1
			} else {
				field[row+startX+x] = v
			}
		}
	}
	return DecalPlacement{X: startX, Y: startY, Size: size, Scale: scale}
}
