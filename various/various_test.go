package various

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphericalRoundTrip(t *testing.T) {
	points := []mgl64.Vec3{
		{1, 0, 0},
		{0, -2, 0},
		{0.3, 0.4, -0.5},
		{-3, 7, 11},
	}
	for _, p := range points {
		c := NewSphericalCoord(p)
		assert.InDelta(t, p.Len(), c.Radius, 1e-9)
		back := c.ToCartesian()
		for i := 0; i < 3; i++ {
			assert.InDelta(t, p[i], back[i], 1e-9)
		}
	}
}

func TestSphericalQuadrants(t *testing.T) {
	cases := []struct {
		p     mgl64.Vec3
		theta float64
	}{
		{mgl64.Vec3{-1, 1, 0}, 3 * math.Pi / 4},
		{mgl64.Vec3{-1, -1, 0}, -3 * math.Pi / 4},
		{mgl64.Vec3{-2, 0, 1}, math.Pi},
		{mgl64.Vec3{0, 3, -1}, math.Pi / 2},
	}
	for _, c := range cases {
		s := NewSphericalCoord(c.p)
		assert.InDelta(t, c.theta, s.Theta, 1e-9, "%v", c.p)
		want := mgl64.SphericalToCartesian(c.p.Len(), s.Phi, s.Theta)
		back := s.ToCartesian()
		for i := 0; i < 3; i++ {
			assert.InDelta(t, c.p[i], back[i], 1e-9, "%v", c.p)
			assert.InDelta(t, want[i], back[i], 1e-12, "%v", c.p)
		}
	}
}

func TestSphericalZero(t *testing.T) {
	assert.Equal(t, SphericalCoord{}, NewSphericalCoord(mgl64.Vec3{}))
}

func TestDegRad(t *testing.T) {
	assert.InDelta(t, math.Pi, DegToRad(180), 1e-12)
	assert.InDelta(t, 90.0, RadToDeg(math.Pi/2), 1e-12)
}

func TestSliceIO(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFloatSlice(&buf, []float64{1.5, -2}))
	require.NoError(t, WriteIntSlice(&buf, []int{3, -4, 5}))
	require.NoError(t, WriteVec2Slice(&buf, []mgl64.Vec2{{1, 2}}))
	require.NoError(t, WriteVec3Slice(&buf, []mgl64.Vec3{{1, 2, 3}, {4, 5, 6}}))
	require.NoError(t, WriteVec4Slice(&buf, []mgl64.Vec4{{1, 2, 3, 4}}))

	f, err := ReadFloatSlice(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2}, f)
	i, err := ReadIntSlice(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{3, -4, 5}, i)
	v2, err := ReadVec2Slice(&buf)
	require.NoError(t, err)
	assert.Equal(t, []mgl64.Vec2{{1, 2}}, v2)
	v3, err := ReadVec3Slice(&buf)
	require.NoError(t, err)
	assert.Equal(t, []mgl64.Vec3{{1, 2, 3}, {4, 5, 6}}, v3)
	v4, err := ReadVec4Slice(&buf)
	require.NoError(t, err)
	assert.Equal(t, []mgl64.Vec4{{1, 2, 3, 4}}, v4)
}

func TestSliceIOCorruptLength(t *testing.T) {
	readers := map[string]func(io.Reader) error{
		"float": func(r io.Reader) error { _, err := ReadFloatSlice(r); return err },
		"int":   func(r io.Reader) error { _, err := ReadIntSlice(r); return err },
		"vec2":  func(r io.Reader) error { _, err := ReadVec2Slice(r); return err },
		"vec3":  func(r io.Reader) error { _, err := ReadVec3Slice(r); return err },
		"vec4":  func(r io.Reader) error { _, err := ReadVec4Slice(r); return err },
	}
	for name, read := range readers {
		for _, num := range []int64{-1, MaxSliceLen + 1, 1 << 40} {
			var buf bytes.Buffer
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, num))
			var err error
			assert.NotPanics(t, func() { err = read(&buf) }, "%s %d", name, num)
			assert.ErrorIs(t, err, ErrSliceLength, "%s %d", name, num)
		}

		// A valid but unbacked length fails on the missing data.
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, int64(MaxSliceLen)))
		assert.ErrorIs(t, read(&buf), io.ErrUnexpectedEOF, name)
	}
}

func TestKickOffChunkWorkersCoversAll(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 100} {
		seen := make([]int32, n)
		KickOffChunkWorkers(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			assert.Equal(t, int32(1), c, "n=%d item %d", n, i)
		}
	}
}

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, SafeNormal(mgl64.Vec3{}))
	assert.InDelta(t, 1.0, SafeNormal(mgl64.Vec3{3, 4, 0}).Len(), 1e-12)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, Midpoint(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2}))
	assert.InDelta(t, math.Pi/2, AngleBetween(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}), 1e-12)

	c := GetCentroidOfTriangle(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})
	s := 1 / math.Sqrt(3)
	assert.InDelta(t, s, c.X(), 1e-12)
	assert.InDelta(t, s, c.Y(), 1e-12)
	assert.InDelta(t, s, c.Z(), 1e-12)
}
