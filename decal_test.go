package genplanet

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatDecal(res int, v float64, maxFrequency int) *Decal {
	data := make([]float64, res*res)
	for i := range data {
		data[i] = v
	}
	return &Decal{Resolution: res, HeightData: data, MaxFrequency: maxFrequency}
}

func TestCreateDecal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(1, 2, color.Gray{Y: 255})
	img.SetGray(3, 0, color.Gray{Y: 51})

	d, err := CreateDecal(4, img, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Resolution)
	assert.Equal(t, 7, d.MaxFrequency)
	require.Len(t, d.HeightData, 16)
	assert.Equal(t, 1.0, d.HeightData[2*4+1])
	assert.InDelta(t, 0.2, d.HeightData[3], 1e-9)
	assert.Equal(t, 0.0, d.HeightData[0])
	assert.True(t, d.IsInitialized())
}

func TestCreateDecalFailures(t *testing.T) {
	_, err := CreateDecal(4, image.NewGray(image.Rect(0, 0, 4, 8)), 1)
	assert.ErrorIs(t, err, ErrImageNotSquare)

	_, err = CreateDecal(3, image.NewGray(image.Rect(0, 0, 3, 3)), 1)
	assert.ErrorIs(t, err, ErrImageResolution)

	d, err := CreateDecal(8, image.NewGray(image.Rect(0, 0, 4, 4)), 1)
	assert.ErrorIs(t, err, ErrImageResolution)
	assert.False(t, d.IsInitialized())

	_, err = CreateDecal(4, nil, 1)
	assert.ErrorIs(t, err, ErrNoPixelData)

	_, err = CreateDecal(0, image.NewGray(image.Rect(0, 0, 0, 0)), 1)
	assert.ErrorIs(t, err, ErrNoPixelData)
}

func TestApplyDecalAdditiveRegions(t *testing.T) {
	const targetRes = 256
	d := flatDecal(64, 1.0, 3)
	field := make([]float64, targetRes*targetRes)

	placements, err := d.ApplyDecalToNoiseMap(rand.New(rand.NewSource(1)), field, targetRes, 0.5, 3, true)
	require.NoError(t, err)
	require.Len(t, placements, 3)

	// Additive remaps 1.0 to +1, so every cell holds the number of
	// footprints covering it.
	want := make([]float64, len(field))
	for _, p := range placements {
		assert.Equal(t, 32, p.Size)
		for y := p.Y; y < p.Y+p.Size; y++ {
			for x := p.X; x < p.X+p.Size; x++ {
				want[y*targetRes+x]++
			}
		}
	}
	assert.Equal(t, want, field)
}

func TestApplyDecalReplace(t *testing.T) {
	d := flatDecal(8, 0.25, 1)
	field := make([]float64, 16*16)
	for i := range field {
		field[i] = 0.9
	}
	placements, err := d.ApplyDecalToNoiseMap(rand.New(rand.NewSource(2)), field, 16, 1, 1, false)
	require.NoError(t, err)
	p := placements[0]
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			inside := x >= p.X && x < p.X+8 && y >= p.Y && y < p.Y+8
			if inside {
				assert.Equal(t, 0.25, field[y*16+x])
			} else {
				assert.Equal(t, 0.9, field[y*16+x])
			}
		}
	}
}

func TestApplyDecalStride(t *testing.T) {
	// A decal with a distinct value per column, shrunk by half, samples
	// every second column.
	d := &Decal{Resolution: 4, HeightData: make([]float64, 16)}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			d.HeightData[y*4+x] = float64(x) / 4
		}
	}
	field := make([]float64, 4)
	_, err := d.ApplyDecalToNoiseMap(rand.New(rand.NewSource(3)), field, 2, 0.5, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 0, 0.5}, field)
}

func TestApplyDecalPlacementBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		res := 2 + rng.Intn(63)
		targetRes := res + rng.Intn(64)
		maxScale := float64(targetRes) / float64(res)
		scale := 0.1 + rng.Float64()*(maxScale-0.1)
		d := flatDecal(res, 0.5, 1)
		if d.Footprint(scale) < 1 {
			continue
		}
		field := make([]float64, targetRes*targetRes)
		placements, err := d.ApplyDecalToNoiseMap(rng, field, targetRes, scale, 4, true)
		require.NoError(t, err, "res %d target %d scale %g", res, targetRes, scale)
		for _, p := range placements {
			assert.GreaterOrEqual(t, p.X, 0)
			assert.GreaterOrEqual(t, p.Y, 0)
			assert.LessOrEqual(t, p.X+p.Size, targetRes)
			assert.LessOrEqual(t, p.Y+p.Size, targetRes)
		}
	}
}

func TestApplyDecalRandomScale(t *testing.T) {
	d := flatDecal(32, 1.0, 1)
	field := make([]float64, 64*64)
	placements, err := d.ApplyDecalRandomScale(rand.New(rand.NewSource(5)), field, 64, 0.25, 1.5, 10, true)
	require.NoError(t, err)
	require.Len(t, placements, 10)
	for _, p := range placements {
		assert.GreaterOrEqual(t, p.Scale, 0.25)
		assert.LessOrEqual(t, p.Scale, 1.5)
		assert.Equal(t, d.Footprint(p.Scale), p.Size)
		assert.LessOrEqual(t, p.X+p.Size, 64)
	}
}

func TestApplyDecalPreconditions(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	untouched := func(field []float64) {
		for _, v := range field {
			assert.Equal(t, 0.0, v)
		}
	}

	field := make([]float64, 16*16)
	_, err := (&Decal{}).ApplyDecalToNoiseMap(rng, field, 16, 1, 1, true)
	assert.ErrorIs(t, err, ErrDecalNotInitialized)

	_, err = (&Decal{Resolution: 1, HeightData: []float64{1}}).ApplyDecalToNoiseMap(rng, field, 16, 1, 1, true)
	assert.ErrorIs(t, err, ErrDecalNotInitialized)

	d := flatDecal(32, 1, 1)
	_, err = d.ApplyDecalToNoiseMap(rng, field, 16, 1, 1, true)
	assert.ErrorIs(t, err, ErrDecalTooLarge)

	_, err = d.ApplyDecalToNoiseMap(rng, field, 17, 0.5, 1, true)
	assert.ErrorIs(t, err, ErrFieldSizeMismatch)

	_, err = d.ApplyDecalToNoiseMap(rng, field, 16, 0, 1, true)
	assert.ErrorIs(t, err, ErrInvalidScale)

	// The largest scale is checked before anything is written.
	_, err = d.ApplyDecalRandomScale(rng, field, 16, 0.25, 2, 5, true)
	assert.ErrorIs(t, err, ErrDecalTooLarge)

	untouched(field)
}
