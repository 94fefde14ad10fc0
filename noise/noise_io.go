package noise

import (
	"encoding/binary"
	"io"
)

var byteorder = binary.LittleEndian

// Encode writes the parameters of the noise field to w. The field itself
// is fully determined by them, so ReadNoise can rebuild an identical one.
func (n *Noise) Encode(w io.Writer) error {
	for _, v := range []int64{int64(n.Type), int64(n.Seed), int64(n.Octaves), int64(n.Interp), int64(n.Fractal)} {
		if err := binary.Write(w, byteorder, v); err != nil {
			return err
		}
	}
	for _, v := range []float64{n.Frequency, n.Gain, n.Lacunarity} {
		if err := binary.Write(w, byteorder, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadNoise reads noise parameters written by Encode and returns the
// reconstructed noise field.
func ReadNoise(r io.Reader) (*Noise, error) {
	var ints [5]int64
	for i := range ints {
		if err := binary.Read(r, byteorder, &ints[i]); err != nil {
			return nil, err
		}
	}
	var floats [3]float64
	for i := range floats {
		if err := binary.Read(r, byteorder, &floats[i]); err != nil {
			return nil, err
		}
	}
	return New(Params{
		Type:       Type(ints[0]),
		Seed:       int32(ints[1]),
		Octaves:    int(ints[2]),
		Interp:     Interp(ints[3]),
		Fractal:    Fractal(ints[4]),
		Frequency:  floats[0],
		Gain:       floats[1],
		Lacunarity: floats[2],
	})
}
