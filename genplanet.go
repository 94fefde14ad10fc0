// Package genplanet generates the terrain mesh of a planet from layered noise.
//
// Height data lives on six cube faces (NoiseCube), optionally stamped with
// heightmap decals. The mesh is a subdivided icosahedron, either as a single
// mesh whose level follows the viewer distance (Planet) or as 20 independent
// sections with their own level (SectionedPlanet). Several planets may share
// one Terrain so the cubes are built only once.
package genplanet

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
)

// Terrain lazily builds the height samplers of a planet. It is safe for
// concurrent use.
type Terrain struct {
	mu     sync.Mutex
	cfg    *Config
	decals []*Decal
	cube   *NoiseCube
	rough  *NoiseCube
	volume *VolumeSampler
}

// NewTerrain returns a terrain for the given config. Decals listed in the
// config that fail to load are logged and skipped.
func NewTerrain(cfg *Config) (*Terrain, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Terrain{cfg: cfg}
	for _, dc := range cfg.Decals {
		d, err := LoadDecal(dc)
		if err != nil {
			log.Printf("NewTerrain: skipping decal %s: %v", dc.Path, err)
			continue
		}
		t.decals = append(t.decals, d)
	}
	if cfg.Volume && len(t.decals) > 0 {
		log.Printf("NewTerrain: volume sampling, %d decals only show in the cube textures", len(t.decals))
	}
	return t, nil
}

// Config returns the configuration of the terrain.
func (t *Terrain) Config() *Config {
	return t.cfg
}

// AddDecal registers a decal. It has no effect once the height cube exists.
func (t *Terrain) AddDecal(d *Decal) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cube != nil {
		log.Printf("Terrain.AddDecal: height cube already built, ignoring decal")
		return false
	}
	t.decals = append(t.decals, d)
	return true
}

// NoiseCube returns the height cube, building it if needed.
func (t *Terrain) NoiseCube() (*NoiseCube, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heightCube()
}

func (t *Terrain) heightCube() (*NoiseCube, error) {
	if t.cube != nil {
		return t.cube, nil
	}
	var cube *NoiseCube
	var err error
	if len(t.decals) > 0 {
		rng := rand.New(rand.NewSource(t.cfg.Seed))
		cube, err = NewNoiseCubeWithDecals(t.cfg.Resolution, t.cfg.Noise, t.cfg.Parallel, t.decals, rng, t.cfg.MinScale, t.cfg.MaxScale)
	} else {
		cube, err = NewNoiseCube(t.cfg.Resolution, t.cfg.Noise, t.cfg.Parallel)
	}
	if err != nil {
		return nil, fmt.Errorf("height cube: %w", err)
	}
	t.cube = cube
	return cube, nil
}

// samplers returns the height and roughness samplers, building them on first
// use. The roughness sampler is nil if not configured. With Config.Volume the
// heights come from the noise itself and no height cube is built.
func (t *Terrain) samplers() (HeightSampler, HeightSampler, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var heights HeightSampler
	if t.cfg.Volume {
		if t.volume == nil {
			v, err := NewVolumeSampler(t.cfg.Noise)
			if err != nil {
				return nil, nil, fmt.Errorf("volume sampler: %w", err)
			}
			t.volume = v
		}
		heights = t.volume
	} else {
		cube, err := t.heightCube()
		if err != nil {
			return nil, nil, err
		}
		heights = cube
	}
	if t.rough == nil && t.cfg.Rough != nil {
		rough, err := NewNoiseCube(t.cfg.Resolution, *t.cfg.Rough, t.cfg.Parallel)
		if err != nil {
			return nil, nil, fmt.Errorf("roughness cube: %w", err)
		}
		t.rough = rough
	}
	if t.rough == nil {
		return heights, nil, nil
	}
	return heights, t.rough, nil
}

// Build applies heights and attributes to d. The samplers are read only once
// built, so several builds may run at the same time.
func (t *Terrain) Build(d *VertexData) error {
	heights, rough, err := t.samplers()
	if err != nil {
		return err
	}
	ApplyHeightAndAttributes(d, heights, rough, t.cfg.Terrain, t.cfg.Parallel)
	return nil
}
