package genplanet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/various"
)

// DistanceLOD returns the subdivision level of the single mesh planet for a
// viewer at the given distance. The first threshold the distance falls below
// selects MaxLevel, the next one MaxLevel-1 and so on; beyond the last
// threshold MinLevel is used.
func DistanceLOD(dist float64, cfg *LODConfig) uint8 {
	if cfg.OverrideLOD {
		return cfg.Level
	}
	for i, thr := range cfg.DistanceThresholds {
		if dist < thr {
			lvl := int(cfg.MaxLevel) - i
			if lvl < int(cfg.MinLevel) {
				return cfg.MinLevel
			}
			return uint8(lvl)
		}
	}
	return cfg.MinLevel
}

// SectionLOD returns the level of a section with the given outward normal.
// Sections facing away from the viewer by more than OcclusionAngle degrees
// get OccludedLevel. Otherwise the first bucket in LODDistances holding the
// distance between the viewer and the surface selects the level according to
// IndexMode. Zero is returned if no bucket matches.
func SectionLOD(viewer, center, sectionNormal mgl64.Vec3, radius float64, cfg *LODConfig) uint8 {
	toViewer := viewer.Sub(center)
	angle := various.RadToDeg(various.AngleBetween(various.SafeNormal(sectionNormal), various.SafeNormal(toViewer)))
	if angle > cfg.OcclusionAngle {
		return cfg.OccludedLevel
	}
	dist := toViewer.Len()
	for i, d := range cfg.LODDistances {
		if math.Abs(radius-dist) < d {
			if cfg.IndexMode == LODIndexDirect {
				return uint8(i)
			}
			return uint8(len(cfg.LODDistances) - i)
		}
	}
	return 0
}

// unsetLOD marks a section that has no recorded level yet.
const unsetLOD = 127

// LODTracker remembers the last level of every section.
type LODTracker struct {
	prev [NumSections]uint8
}

// NewLODTracker returns a tracker with no recorded levels.
func NewLODTracker() *LODTracker {
	t := &LODTracker{}
	t.Reset()
	return t
}

// Reset forgets all recorded levels.
func (t *LODTracker) Reset() {
	for i := range t.prev {
		t.prev[i] = unsetLOD
	}
}

// Forget clears the recorded level of a single section.
func (t *LODTracker) Forget(section int) {
	t.prev[section] = unsetLOD
}

// Level returns the recorded level of a section.
func (t *LODTracker) Level(section int) (uint8, bool) {
	return t.prev[section], t.prev[section] != unsetLOD
}

// Diff returns the sections whose level differs from the recorded one and
// records the new levels.
func (t *LODTracker) Diff(levels [NumSections]uint8) []int {
	var changed []int
	for i, lvl := range levels {
		if t.prev[i] != lvl {
			changed = append(changed, i)
			t.prev[i] = lvl
		}
	}
	return changed
}
