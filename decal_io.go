package genplanet

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, BMP, TIFF or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("LoadImage: %s: %w", path, err)
	}
	return img, nil
}

// LoadDecal reads the image referenced by cfg and turns it into a decal.
// If cfg.Resolution is zero, the image edge length is used.
func LoadDecal(cfg DecalConfig) (*Decal, error) {
	img, err := LoadImage(cfg.Path)
	if err != nil {
		return nil, err
	}
	res := cfg.Resolution
	if res == 0 {
		res = img.Bounds().Dx()
	}
	return CreateDecal(res, img, cfg.MaxFrequency)
}
