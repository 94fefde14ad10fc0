package genplanet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrSectionIndex = errors.New("section index out of range")

// SectionedPlanet is a planet built from the 20 faces of an icosahedron, each
// subdivided to its own level.
type SectionedPlanet struct {
	Center   mgl64.Vec3 // World position of the planet
	mu       sync.Mutex
	cfg      *Config
	sink     MeshSink
	viewer   ViewerProvider
	terrain  *Terrain
	base     [NumSections]*VertexData
	cache    *SectionCache
	tracker  *LODTracker
	uploaded [NumSections]int // Vertex count of the last upload, 0 if none
}

// NewSectionedPlanet returns a sectioned planet for the given config. Sink
// and viewer may be nil, in which case UpdateSections does nothing.
func NewSectionedPlanet(cfg *Config, sink MeshSink, viewer ViewerProvider) (*SectionedPlanet, error) {
	t, err := NewTerrain(cfg)
	if err != nil {
		return nil, err
	}
	return NewSectionedPlanetWithTerrain(t, sink, viewer), nil
}

// NewSectionedPlanetWithTerrain returns a sectioned planet sampling heights
// from t. Section caches are not shared.
func NewSectionedPlanetWithTerrain(t *Terrain, sink MeshSink, viewer ViewerProvider) *SectionedPlanet {
	cfg := t.Config()
	return &SectionedPlanet{
		cfg:     cfg,
		sink:    sink,
		viewer:  viewer,
		terrain: t,
		base:    BuildSections(),
		cache:   NewSectionCache(cfg.LOD.CacheLevels),
		tracker: NewLODTracker(),
	}
}

// AddDecal registers a decal to be stamped onto the height cube. Decals
// added after the first section was generated are ignored.
func (p *SectionedPlanet) AddDecal(d *Decal) bool {
	return p.terrain.AddDecal(d)
}

// NoiseCube returns the height cube, building it if needed.
func (p *SectionedPlanet) NoiseCube() (*NoiseCube, error) {
	return p.terrain.NoiseCube()
}

// Section returns the given section at the given level, building and
// caching it on first request.
func (p *SectionedPlanet) Section(level uint8, index int) (*VertexData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.section(level, index)
}

func (p *SectionedPlanet) section(level uint8, index int) (*VertexData, error) {
	if index < 0 || index >= NumSections {
		return nil, fmt.Errorf("%w: %d", ErrSectionIndex, index)
	}
	if d, ok := p.cache.Get(level, index); ok {
		return d, nil
	}
	d := p.base[index].Clone()
	d.SubdivideSection(int(level))
	if err := p.terrain.Build(d); err != nil {
		return nil, err
	}
	p.cache.Put(level, index, d)
	return d, nil
}

// Levels returns the level every section should have for the current viewer
// position.
func (p *SectionedPlanet) Levels(viewer mgl64.Vec3) [NumSections]uint8 {
	var levels [NumSections]uint8
	for i, s := range p.base {
		levels[i] = SectionLOD(viewer, p.Center, s.Normal, p.cfg.Terrain.Radius, p.cfg.LOD)
	}
	return levels
}

// UpdateSections rebuilds and uploads every section whose level changed and
// returns their indices.
func (p *SectionedPlanet) UpdateSections() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink == nil || p.viewer == nil {
		return nil
	}
	pos, ok := p.viewer.ViewerPosition()
	if !ok {
		return nil
	}
	levels := p.Levels(pos)
	var updated []int
	for _, i := range p.tracker.Diff(levels) {
		d, err := p.section(levels[i], i)
		if err != nil {
			log.Printf("SectionedPlanet.UpdateSections: section %d level %d: %v", i, levels[i], err)
			p.tracker.Forget(i)
			continue
		}
		if p.uploaded[i] != len(d.Vertices) {
			err = p.sink.CreateSection(i, d, true)
		} else {
			err = p.sink.UpdateSection(i, d)
		}
		if err != nil {
			log.Printf("SectionedPlanet.UpdateSections: upload section %d: %v", i, err)
			p.tracker.Forget(i)
			continue
		}
		p.uploaded[i] = len(d.Vertices)
		updated = append(updated, i)
	}
	return updated
}

// Run calls UpdateSections every update interval until ctx is done.
func (p *SectionedPlanet) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.LOD.UpdateInterval)
	defer ticker.Stop()
	p.UpdateSections()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.UpdateSections()
		}
	}
}
