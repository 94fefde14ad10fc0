package various

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
)

var byteorder = binary.LittleEndian

// MaxSliceLen is the largest element count accepted by the slice readers.
const MaxSliceLen = 1 << 26

// ErrSliceLength is returned for a negative or oversized length prefix.
var ErrSliceLength = errors.New("invalid slice length")

// readLen reads a length prefix and returns it together with the capacity
// to preallocate. Slices grow as elements arrive, so a corrupt prefix on a
// short stream fails with io.ErrUnexpectedEOF instead of a huge allocation.
func readLen(r io.Reader) (int, int, error) {
	var num int64
	if err := binary.Read(r, byteorder, &num); err != nil {
		return 0, 0, err
	}
	if num < 0 || num > MaxSliceLen {
		return 0, 0, fmt.Errorf("%w: %d", ErrSliceLength, num)
	}
	capacity := int(num)
	if capacity > 4096 {
		capacity = 4096
	}
	return int(num), capacity, nil
}

func eof(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func WriteFloatSlice(w io.Writer, s []float64) error {
	if err := binary.Write(w, byteorder, int64(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := binary.Write(w, byteorder, v); err != nil {
			return err
		}
	}
	return nil
}

func ReadFloatSlice(r io.Reader) ([]float64, error) {
	num, capacity, err := readLen(r)
	if err != nil {
		return nil, err
	}
	s := make([]float64, 0, capacity)
	for i := 0; i < num; i++ {
		var v float64
		if err := binary.Read(r, byteorder, &v); err != nil {
			return nil, eof(err)
		}
		s = append(s, v)
	}
	return s, nil
}

func WriteIntSlice(w io.Writer, s []int) error {
	if err := binary.Write(w, byteorder, int64(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := binary.Write(w, byteorder, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func ReadIntSlice(r io.Reader) ([]int, error) {
	num, capacity, err := readLen(r)
	if err != nil {
		return nil, err
	}
	s := make([]int, 0, capacity)
	for i := 0; i < num; i++ {
		var v int64
		if err := binary.Read(r, byteorder, &v); err != nil {
			return nil, eof(err)
		}
		s = append(s, int(v))
	}
	return s, nil
}

// WriteVec2Slice writes a slice of 2d vectors as a length prefixed list of
// float pairs.
func WriteVec2Slice(w io.Writer, s []mgl64.Vec2) error {
	if err := binary.Write(w, byteorder, int64(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := binary.Write(w, byteorder, [2]float64(v)); err != nil {
			return err
		}
	}
	return nil
}

func ReadVec2Slice(r io.Reader) ([]mgl64.Vec2, error) {
	num, capacity, err := readLen(r)
	if err != nil {
		return nil, err
	}
	s := make([]mgl64.Vec2, 0, capacity)
	for i := 0; i < num; i++ {
		var v [2]float64
		if err := binary.Read(r, byteorder, &v); err != nil {
			return nil, eof(err)
		}
		s = append(s, v)
	}
	return s, nil
}

func WriteVec3Slice(w io.Writer, s []mgl64.Vec3) error {
	if err := binary.Write(w, byteorder, int64(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := binary.Write(w, byteorder, [3]float64(v)); err != nil {
			return err
		}
	}
	return nil
}

func ReadVec3Slice(r io.Reader) ([]mgl64.Vec3, error) {
	num, capacity, err := readLen(r)
	if err != nil {
		return nil, err
	}
	s := make([]mgl64.Vec3, 0, capacity)
	for i := 0; i < num; i++ {
		var v [3]float64
		if err := binary.Read(r, byteorder, &v); err != nil {
			return nil, eof(err)
		}
		s = append(s, v)
	}
	return s, nil
}

func WriteVec4Slice(w io.Writer, s []mgl64.Vec4) error {
	if err := binary.Write(w, byteorder, int64(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := binary.Write(w, byteorder, [4]float64(v)); err != nil {
			return err
		}
	}
	return nil
}

func ReadVec4Slice(r io.Reader) ([]mgl64.Vec4, error) {
	num, capacity, err := readLen(r)
	if err != nil {
		return nil, err
	}
	s := make([]mgl64.Vec4, 0, capacity)
	for i := 0; i < num; i++ {
		var v [4]float64
		if err := binary.Read(r, byteorder, &v); err != nil {
			return nil, eof(err)
		}
		s = append(s, v)
	}
	return s, nil
}
