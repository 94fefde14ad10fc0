package genplanet

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// Planet is a planet built as a single mesh whose subdivision level follows
// the distance to the viewer.
type Planet struct {
	Center  mgl64.Vec3 // World position of the planet
	cfg     *Config
	sink    MeshSink
	viewer  ViewerProvider
	terrain *Terrain
	lods    map[uint8]*VertexData
	level   uint8
	active  bool
}

// NewPlanet returns a planet for the given config. Sink and viewer may be nil,
// in which case Tick does nothing.
func NewPlanet(cfg *Config, sink MeshSink, viewer ViewerProvider) (*Planet, error) {
	t, err := NewTerrain(cfg)
	if err != nil {
		return nil, err
	}
	return NewPlanetWithTerrain(t, sink, viewer), nil
}

// NewPlanetWithTerrain returns a planet sampling heights from t.
func NewPlanetWithTerrain(t *Terrain, sink MeshSink, viewer ViewerProvider) *Planet {
	return &Planet{
		cfg:     t.Config(),
		sink:    sink,
		viewer:  viewer,
		terrain: t,
		lods:    make(map[uint8]*VertexData),
	}
}

// AddDecal registers a decal to be stamped onto the height cube. Decals
// added after the first mesh was generated are ignored.
func (p *Planet) AddDecal(d *Decal) bool {
	return p.terrain.AddDecal(d)
}

// NoiseCube returns the height cube, building it if needed.
func (p *Planet) NoiseCube() (*NoiseCube, error) {
	return p.terrain.NoiseCube()
}

// GenerateLOD returns the mesh at the given subdivision level. Each level is
// built once and cached.
func (p *Planet) GenerateLOD(level uint8) (*VertexData, error) {
	if d, ok := p.lods[level]; ok && d.IsPopulated() {
		return d, nil
	}
	d := BuildBase()
	d.Subdivide(int(level))
	if err := p.terrain.Build(d); err != nil {
		return nil, err
	}
	p.lods[level] = d
	return d, nil
}

// Level returns the level currently uploaded to the sink.
func (p *Planet) Level() (uint8, bool) {
	return p.level, p.active
}

// Tick checks the viewer distance and uploads a new mesh if the level
// changed. It returns true if a mesh was uploaded.
func (p *Planet) Tick() bool {
	if p.sink == nil || p.viewer == nil {
		return false
	}
	pos, ok := p.viewer.ViewerPosition()
	if !ok {
		return false
	}
	level := DistanceLOD(pos.Sub(p.Center).Len(), p.cfg.LOD)
	if p.active && level == p.level {
		return false
	}
	d, err := p.GenerateLOD(level)
	if err != nil {
		log.Printf("Planet.Tick: level %d: %v", level, err)
		return false
	}
	if err := p.sink.CreateSection(0, d, false); err != nil {
		log.Printf("Planet.Tick: upload level %d: %v", level, err)
		return false
	}
	p.level, p.active = level, true
	return true
}
