package genplanet

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/mazznoer/colorgrad"
	"github.com/orbitplanetarium/genplanet/noise"
	"github.com/orbitplanetarium/genplanet/various"
)

// TextureSink accepts 8-bit RGB debug textures.
type TextureSink interface {
	ExportTexture(name string, width, height int, rgb []uint8) error
}

// PNGDirSink writes every texture as <Dir>/<name>.png.
type PNGDirSink struct {
	Dir string
}

// ExportTexture implements TextureSink.
func (s PNGDirSink) ExportTexture(name string, width, height int, rgb []uint8) error {
	if len(rgb) != width*height*3 {
		return fmt.Errorf("PNGDirSink: %s: %w", name, ErrFieldSizeMismatch)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4] = rgb[i*3]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 255
	}
	f, err := os.Create(filepath.Join(s.Dir, name+".png"))
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GetCubeTextures returns the height fields as greyscale images.
func (c *NoiseCube) GetCubeTextures() [NumFaces]*image.Gray {
	var imgs [NumFaces]*image.Gray
	for f := range c.faces {
		imgs[f] = c.fieldToGray(c.faces[f], 1)
	}
	return imgs
}

// GetSteepnessTextures returns the steepness fields as greyscale images,
// normalized by the steepest sample of the cube.
func (c *NoiseCube) GetSteepnessTextures() [NumFaces]*image.Gray {
	max := c.maxSteepness()
	var imgs [NumFaces]*image.Gray
	for f := 0; f < NumFaces; f++ {
		imgs[f] = c.fieldToGray(c.Steepness(CubeFace(f)), max)
	}
	return imgs
}

func (c *NoiseCube) fieldToGray(field []float64, max float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.res, c.res))
	for i, v := range field {
		img.Pix[i] = uint8(clamp01(v/max) * 255)
	}
	return img
}

func (c *NoiseCube) maxSteepness() float64 {
	max := 0.0
	for f := 0; f < NumFaces; f++ {
		for _, v := range c.Steepness(CubeFace(f)) {
			if v > max {
				max = v
			}
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

// SteepnessHeatmap returns the steepness of a face colored from green (flat)
// over yellow to red (steep).
func (c *NoiseCube) SteepnessHeatmap(f CubeFace) (*image.NRGBA, error) {
	colorGrad := colorgrad.NewGradient()
	colorGrad.Colors(
		color.RGBA{0, 255, 0, 255},
		color.RGBA{255, 255, 0, 255},
		color.RGBA{255, 0, 0, 255},
	)
	cb, err := colorGrad.Build()
	if err != nil {
		return nil, err
	}
	max := c.maxSteepness()
	img := image.NewNRGBA(image.Rect(0, 0, c.res, c.res))
	for i, v := range c.Steepness(f) {
		img.Set(i%c.res, i/c.res, cb.At(clamp01(v/max)))
	}
	return img, nil
}

// ExportTextures pushes the height, steepness and heat map textures of all
// faces to the sink.
func (c *NoiseCube) ExportTextures(sink TextureSink) error {
	heights := c.GetCubeTextures()
	steep := c.GetSteepnessTextures()
	for f := 0; f < NumFaces; f++ {
		name := CubeFace(f).String()
		if err := sink.ExportTexture("height_"+name, c.res, c.res, grayToRGB(heights[f])); err != nil {
			return err
		}
		if err := sink.ExportTexture("steepness_"+name, c.res, c.res, grayToRGB(steep[f])); err != nil {
			return err
		}
		heat, err := c.SteepnessHeatmap(CubeFace(f))
		if err != nil {
			return err
		}
		if err := sink.ExportTexture("heatmap_"+name, c.res, c.res, nrgbaToRGB(heat)); err != nil {
			return err
		}
	}
	return nil
}

func grayToRGB(img *image.Gray) []uint8 {
	rgb := make([]uint8, len(img.Pix)*3)
	for i, v := range img.Pix {
		rgb[i*3], rgb[i*3+1], rgb[i*3+2] = v, v, v
	}
	return rgb
}

func nrgbaToRGB(img *image.NRGBA) []uint8 {
	n := len(img.Pix) / 4
	rgb := make([]uint8, n*3)
	for i := 0; i < n; i++ {
		copy(rgb[i*3:i*3+3], img.Pix[i*4:i*4+3])
	}
	return rgb
}

// Encode writes the noise parameters and the (decal modified) height fields.
func (c *NoiseCube) Encode(w io.Writer) error {
	nz, err := noise.New(c.Params)
	if err != nil {
		return err
	}
	if err := nz.Encode(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(c.res)); err != nil {
		return err
	}
	for f := range c.faces {
		if err := various.WriteFloatSlice(w, c.faces[f]); err != nil {
			return err
		}
	}
	return nil
}

// ReadNoiseCube reads a noise cube written by Encode.
func ReadNoiseCube(r io.Reader) (*NoiseCube, error) {
	nz, err := noise.ReadNoise(r)
	if err != nil {
		return nil, err
	}
	var res int64
	if err := binary.Read(r, binary.LittleEndian, &res); err != nil {
		return nil, err
	}
	if res <= 0 || res > various.MaxSliceLen/res {
		return nil, fmt.Errorf("ReadNoiseCube: %w: resolution %d", ErrFieldSizeMismatch, res)
	}
	c := &NoiseCube{
		Params:  nz.Params,
		res:     int(res),
		resStep: 1 / float64(res),
	}
	for f := range c.faces {
		field, err := various.ReadFloatSlice(r)
		if err != nil {
			return nil, err
		}
		if len(field) != c.res*c.res {
			return nil, fmt.Errorf("ReadNoiseCube: face %s: %w", CubeFace(f), ErrFieldSizeMismatch)
		}
		c.faces[f] = field
	}
	return c, nil
}
