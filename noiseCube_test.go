package genplanet

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCube(t *testing.T, res int) *NoiseCube {
	t.Helper()
	c, err := NewNoiseCube(res, noise.NewParams(), false)
	require.NoError(t, err)
	return c
}

func TestNoiseCubeFaces(t *testing.T) {
	c := testCube(t, 32)
	assert.Equal(t, 32, c.Resolution())
	for f := CubeFace(0); f < NumFaces; f++ {
		field := c.Face(f)
		require.Len(t, field, 32*32)
		for _, v := range field {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
	assert.NotEqual(t, c.Face(PosX), c.Face(NegX))
}

func TestNoiseCubeDeterministic(t *testing.T) {
	a := testCube(t, 32)
	b := testCube(t, 32)
	p, err := NewNoiseCube(32, noise.NewParams(), true)
	require.NoError(t, err)
	for f := CubeFace(0); f < NumFaces; f++ {
		assert.Equal(t, a.Face(f), b.Face(f))
		assert.Equal(t, a.Face(f), p.Face(f))
	}
}

func TestNoiseCubeFaceSeeds(t *testing.T) {
	p := noise.NewParams()
	c := testCube(t, 16)
	n, err := noise.New(p.WithSeed(p.Seed + 20))
	require.NoError(t, err)
	// PosY is sampled with seed + 20 at an x offset of 2.
	want := clamp01((n.Eval2(2+3.0/16, 5.0/16) + 1) / 2)
	assert.Equal(t, want, c.Face(PosY)[5*16+3])
}

func TestNoiseCubeInvalidResolution(t *testing.T) {
	_, err := NewNoiseCube(0, noise.NewParams(), false)
	assert.Error(t, err)
}

func TestSampleNoiseCubeAxisAligned(t *testing.T) {
	for _, res := range []int{16, 64} {
		c := testCube(t, res)
		center := res/2*res + res/2
		axes := []struct {
			normal mgl64.Vec3
			face   CubeFace
		}{
			{mgl64.Vec3{1, 0, 0}, PosX},
			{mgl64.Vec3{-1, 0, 0}, NegX},
			{mgl64.Vec3{0, 1, 0}, PosY},
			{mgl64.Vec3{0, -1, 0}, NegY},
			{mgl64.Vec3{0, 0, 1}, PosZ},
			{mgl64.Vec3{0, 0, -1}, NegZ},
		}
		for _, a := range axes {
			assert.Equal(t, c.Face(a.face)[center], c.SampleNoiseCube(a.normal), "res %d face %s", res, a.face)
		}
	}
}

func TestSampleNoiseCubeWeights(t *testing.T) {
	c := testCube(t, 16)
	s := 1 / mgl64.Vec3{1, 1, 1}.Len()
	n := mgl64.Vec3{s, -s, s}
	col := int(((s + 1) / 2) * 16)
	colNeg := int(((-s + 1) / 2) * 16)
	want := c.Face(PosX)[col*16+colNeg]*s +
		c.Face(NegY)[col*16+col]*s +
		c.Face(PosZ)[colNeg*16+col]*s
	assert.InDelta(t, want, c.SampleNoiseCube(n), 1e-12)
	assert.Equal(t, c.SampleNoiseCube(n), c.Sample(n))
}

func TestSampleNoiseCubeOutOfBounds(t *testing.T) {
	c := testCube(t, 8)
	// A component of exactly 1 maps to index 8 on the other axes.
	n := mgl64.Vec3{0.5, 1, 0}
	want := c.Face(PosY)[4*8+6]
	assert.Equal(t, want, c.SampleNoiseCube(n))
}

func TestSteepness(t *testing.T) {
	c := testCube(t, 16)
	h := c.Face(NegZ)
	s := c.Steepness(NegZ)
	require.Len(t, s, 16*16)
	i := 3*16 + 7
	want := abs(h[i+1]-h[i]) + abs(h[i+16]-h[i])
	assert.Equal(t, want, s[i])
	for k := 0; k < 16; k++ {
		assert.Equal(t, 0.0, s[15*16+k], "last row")
		assert.Equal(t, 0.0, s[k*16+15], "last column")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSampleSteepness(t *testing.T) {
	c := testCube(t, 16)
	got := c.SampleSteepness(mgl64.Vec3{2, 0, 0})
	// Normalized to (1, 0, 0): only PosX contributes, at pixel (8, 8).
	assert.Equal(t, c.Steepness(PosX)[8*16+8]/3, got)

	for _, n := range []mgl64.Vec3{{1, 1, 1}, {-1, 0.3, -0.2}, {0, 0, -1}} {
		v := c.SampleSteepness(n)
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestNoiseCubeWithDecals(t *testing.T) {
	d := flatDecal(16, 1.0, 5)
	empty := &Decal{}
	c, err := NewNoiseCubeWithDecals(64, noise.NewParams(), false, []*Decal{d, empty}, rand.New(rand.NewSource(9)), 0.5, 1.0)
	require.NoError(t, err)
	plain := testCube(t, 64)

	var total int
	for f := CubeFace(0); f < NumFaces; f++ {
		total += len(c.Placements[f])
		if len(c.Placements[f]) == 0 {
			assert.Equal(t, plain.Face(f), c.Face(f))
			continue
		}
		assert.NotEqual(t, plain.Face(f), c.Face(f))
		for _, p := range c.Placements[f] {
			assert.GreaterOrEqual(t, p.Scale, 0.5)
			assert.LessOrEqual(t, p.Scale, 1.0)
		}
	}
	assert.Equal(t, 5, total)
}

type recordingTextureSink struct {
	names []string
	sizes []int
}

func (s *recordingTextureSink) ExportTexture(name string, width, height int, rgb []uint8) error {
	s.names = append(s.names, name)
	s.sizes = append(s.sizes, len(rgb))
	return nil
}

func TestExportTextures(t *testing.T) {
	c := testCube(t, 8)
	sink := &recordingTextureSink{}
	require.NoError(t, c.ExportTextures(sink))
	assert.Len(t, sink.names, 3*NumFaces)
	assert.Contains(t, sink.names, "height_posx")
	assert.Contains(t, sink.names, "steepness_negz")
	assert.Contains(t, sink.names, "heatmap_posy")
	for _, n := range sink.sizes {
		assert.Equal(t, 8*8*3, n)
	}

	imgs := c.GetCubeTextures()
	assert.Equal(t, uint8(c.Face(PosZ)[9]*255), imgs[PosZ].Pix[9])

	heat, err := c.SteepnessHeatmap(PosX)
	require.NoError(t, err)
	assert.Equal(t, 8, heat.Bounds().Dx())
}

func TestPNGDirSink(t *testing.T) {
	dir := t.TempDir()
	c := testCube(t, 8)
	require.NoError(t, c.ExportTextures(PNGDirSink{Dir: dir}))
	_, err := os.Stat(filepath.Join(dir, "height_negy.png"))
	assert.NoError(t, err)

	img, err := LoadImage(filepath.Join(dir, "height_negy.png"))
	require.NoError(t, err)
	d, err := CreateDecal(8, img, 1)
	require.NoError(t, err)
	assert.InDelta(t, c.Face(NegY)[0], d.HeightData[0], 1.0/255+1e-9)

	assert.ErrorIs(t, PNGDirSink{Dir: dir}.ExportTexture("bad", 2, 2, []uint8{1}), ErrFieldSizeMismatch)
}

func TestNoiseCubeIO(t *testing.T) {
	c, err := NewNoiseCubeWithDecals(16, noise.NewParams(), false, []*Decal{flatDecal(8, 1, 2)}, rand.New(rand.NewSource(1)), 0.5, 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))
	r, err := ReadNoiseCube(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.Params, r.Params)
	assert.Equal(t, c.Resolution(), r.Resolution())
	for f := CubeFace(0); f < NumFaces; f++ {
		assert.Equal(t, c.Face(f), r.Face(f))
	}
	assert.Equal(t, c.SampleNoiseCube(mgl64.Vec3{0, 0.6, 0.8}), r.SampleNoiseCube(mgl64.Vec3{0, 0.6, 0.8}))
}

func TestReadNoiseCubeCorrupt(t *testing.T) {
	n, err := noise.New(noise.NewParams())
	require.NoError(t, err)
	for _, res := range []int64{0, -3, 1 << 20, 1 << 32} {
		var buf bytes.Buffer
		require.NoError(t, n.Encode(&buf))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, res))
		var err error
		assert.NotPanics(t, func() { _, err = ReadNoiseCube(&buf) })
		assert.ErrorIs(t, err, ErrFieldSizeMismatch, "res %d", res)
	}

	var buf bytes.Buffer
	require.NoError(t, testCube(t, 4).Encode(&buf))
	_, err = ReadNoiseCube(bytes.NewReader(buf.Bytes()[:buf.Len()-8]))
	assert.Error(t, err)
}

func TestParseCubeFace(t *testing.T) {
	f, ok := ParseCubeFace("negy")
	assert.True(t, ok)
	assert.Equal(t, NegY, f)
	_, ok = ParseCubeFace("up")
	assert.False(t, ok)
	assert.Equal(t, "CubeFace(9)", CubeFace(9).String())
}
