package genplanet

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/orbitplanetarium/genplanet/noise"
	"go.uber.org/multierr"
)

// Config is a struct that holds all configuration options for planet generation.
type Config struct {
	Seed       int64          `json:"seed"`       // Seed for decal placement
	Resolution int            `json:"resolution"` // Pixels per cube face edge
	Noise      noise.Params   `json:"noise"`      // Main height noise
	Rough      *noise.Params  `json:"rough"`      // Optional roughness noise
	Terrain    *TerrainConfig `json:"terrain"`    // Height to mesh mapping
	LOD        *LODConfig     `json:"lod"`        // Level of detail policies
	Decals     []DecalConfig  `json:"decals"`     // Heightmap decals
	MinScale   float64        `json:"minScale"`   // Lower bound of random decal scale
	MaxScale   float64        `json:"maxScale"`   // Upper bound of random decal scale
	Parallel   bool           `json:"parallel"`   // Use chunk workers for sampling
	Volume     bool           `json:"volume"`     // Sample Noise directly instead of the height cube
}

// NewConfig returns a new Config with default values.
func NewConfig() *Config {
	rough := noise.NewParams()
	rough.Seed = 1600
	rough.Frequency = 4.0
	rough.Octaves = 4
	return &Config{
		Seed:       600,
		Resolution: 1024,
		Noise:      noise.NewParams(),
		Rough:      &rough,
		Terrain:    NewTerrainConfig(),
		LOD:        NewLODConfig(),
		MinScale:   0.1,
		MaxScale:   0.6,
	}
}

// DecalConfig describes a heightmap image stamped onto the noise cube.
type DecalConfig struct {
	Path         string `json:"path"`         // Path of the greyscale image
	Resolution   int    `json:"resolution"`   // Expected image edge length
	MaxFrequency int    `json:"maxFrequency"` // Placements across all faces
}

// TerrainConfig is a struct that holds the options mapping height samples onto
// the sphere.
type TerrainConfig struct {
	Radius             float64 `json:"radius"`             // Base radius subtracted from the unit sphere
	Scale              float64 `json:"scale"`              // Height multiplier in world units
	Redistribution     float64 `json:"redistribution"`     // Power applied to heights
	MinWaterLevel      float64 `json:"minWaterLevel"`      // Water cap is 1 - 2*MinWaterLevel
	RoughnessInfluence float64 `json:"roughnessInfluence"` // Weight of the roughness cube
	Boost              float64 `json:"boost"`              // Height multiplier before clamping
	WaterShade         float64 `json:"waterShade"`         // Grey value marking water vertices
}

// NewTerrainConfig returns a new config for height application.
func NewTerrainConfig() *TerrainConfig {
	return &TerrainConfig{
		Radius:             50,
		Scale:              1.0,
		Redistribution:     2.5,
		MinWaterLevel:      0.2,
		RoughnessInfluence: 0.2,
		Boost:              1.4,
		WaterShade:         0.98,
	}
}

// LODIndexMode selects how a distance bucket maps to a level.
type LODIndexMode int

const (
	LODIndexComplement LODIndexMode = iota // level = len(LODDistances) - i
	LODIndexDirect                         // level = i
)

const (
	OcclusionAngleNarrow = 70.0
	OcclusionAngleWide   = 90.0
)

// LODConfig is a struct that holds all options of both level of detail policies.
type LODConfig struct {
	DistanceThresholds []float64     `json:"distanceThresholds"` // Ascending, mapped to MaxLevel downwards
	MaxLevel           uint8         `json:"maxLevel"`           // Level below the first threshold
	MinLevel           uint8         `json:"minLevel"`           // Level beyond the last threshold
	OverrideLOD        bool          `json:"overrideLOD"`        // Ignore distance and use Level
	Level              uint8         `json:"level"`              // Forced level if OverrideLOD
	LODDistances       []float64     `json:"lodDistances"`       // Section distance buckets
	IndexMode          LODIndexMode  `json:"indexMode"`          // Bucket to level mapping
	OcclusionAngle     float64       `json:"occlusionAngle"`     // Degrees beyond which a section is occluded
	OccludedLevel      uint8         `json:"occludedLevel"`      // Level of occluded sections
	UpdateInterval     time.Duration `json:"updateInterval"`     // Section update period
	CacheLevels        int           `json:"cacheLevels"`        // Max cached section levels, 0 = unbounded
}

// NewLODConfig returns a new config for level of detail selection.
func NewLODConfig() *LODConfig {
	return &LODConfig{
		DistanceThresholds: []float64{33000, 55710, 96210, 136710, 186210, 226710},
		MaxLevel:           8,
		MinLevel:           2,
		LODDistances:       []float64{500, 1500, 3000, 6000, 12000},
		IndexMode:          LODIndexComplement,
		OcclusionAngle:     OcclusionAngleNarrow,
		OccludedLevel:      1,
		UpdateInterval:     2 * time.Second,
	}
}

// LoadConfig reads a JSON configuration file on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("LoadConfig: %s not found, using defaults", path)
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("LoadConfig: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() error {
	var err error
	if c.Resolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("resolution must be positive, got %d", c.Resolution))
	}
	err = multierr.Append(err, validateNoise("noise", c.Noise))
	if c.Rough != nil {
		err = multierr.Append(err, validateNoise("rough", *c.Rough))
	}
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		err = multierr.Append(err, fmt.Errorf("%w: decal scale window [%g, %g]", ErrInvalidScale, c.MinScale, c.MaxScale))
	}
	for i, d := range c.Decals {
		if d.Path == "" {
			err = multierr.Append(err, fmt.Errorf("decal %d: empty path", i))
		}
		if d.MaxFrequency < 0 {
			err = multierr.Append(err, fmt.Errorf("decal %d: negative max frequency", i))
		}
	}
	if t := c.Terrain; t == nil {
		err = multierr.Append(err, errors.New("missing terrain config"))
	} else if t.MinWaterLevel < 0 || t.MinWaterLevel > 0.5 {
		err = multierr.Append(err, fmt.Errorf("min water level %g outside [0, 0.5]", t.MinWaterLevel))
	}
	if l := c.LOD; l == nil {
		err = multierr.Append(err, errors.New("missing lod config"))
	} else {
		if l.MinLevel > l.MaxLevel {
			err = multierr.Append(err, fmt.Errorf("lod min level %d above max level %d", l.MinLevel, l.MaxLevel))
		}
		for i := 1; i < len(l.DistanceThresholds); i++ {
			if l.DistanceThresholds[i] < l.DistanceThresholds[i-1] {
				err = multierr.Append(err, errors.New("lod distance thresholds must be ascending"))
				break
			}
		}
		if l.UpdateInterval <= 0 {
			err = multierr.Append(err, errors.New("lod update interval must be positive"))
		}
		if l.CacheLevels < 0 {
			err = multierr.Append(err, errors.New("lod cache levels must not be negative"))
		}
	}
	return err
}

func validateNoise(name string, p noise.Params) error {
	var err error
	if p.Octaves <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s: octaves must be positive", name))
	}
	if p.Frequency <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s: frequency must be positive", name))
	}
	if p.Type < noise.Gradient || p.Type > noise.Value {
		err = multierr.Append(err, fmt.Errorf("%s: %w %d", name, noise.ErrUnknownNoiseType, p.Type))
	}
	return err
}
