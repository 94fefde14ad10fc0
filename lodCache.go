package genplanet

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

type sectionSlots = [NumSections]*VertexData

// SectionCache stores built sections per level. Levels are created on first
// use and their slots filled independently. With a positive level limit the
// least recently used level is dropped first.
type SectionCache struct {
	levels  map[uint8]*sectionSlots          // Unbounded storage
	limited *lru.Cache[uint8, *sectionSlots] // Bounded storage, nil if unbounded
}

// NewSectionCache returns an empty cache holding at most maxLevels levels,
// or any number of levels if maxLevels is not positive.
func NewSectionCache(maxLevels int) *SectionCache {
	if maxLevels <= 0 {
		return &SectionCache{levels: make(map[uint8]*sectionSlots)}
	}
	limited, err := lru.New[uint8, *sectionSlots](maxLevels)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &SectionCache{limited: limited}
}

func (c *SectionCache) slots(level uint8) (*sectionSlots, bool) {
	if c.limited != nil {
		return c.limited.Get(level)
	}
	s, ok := c.levels[level]
	return s, ok
}

// Get returns the populated section at the given level.
func (c *SectionCache) Get(level uint8, index int) (*VertexData, bool) {
	if index < 0 || index >= NumSections {
		return nil, false
	}
	slots, ok := c.slots(level)
	if !ok || !slots[index].IsPopulated() {
		return nil, false
	}
	return slots[index], true
}

// Put stores a section, creating the level if needed. Indices outside of
// [0, NumSections) are ignored.
func (c *SectionCache) Put(level uint8, index int, d *VertexData) {
	if index < 0 || index >= NumSections {
		return
	}
	slots, ok := c.slots(level)
	if !ok {
		slots = new(sectionSlots)
		if c.limited != nil {
			c.limited.Add(level, slots)
		} else {
			c.levels[level] = slots
		}
	}
	slots[index] = d
}

// Levels returns the cached levels. Bounded caches list them least recently
// used first, unbounded ones in ascending order.
func (c *SectionCache) Levels() []uint8 {
	if c.limited != nil {
		return c.limited.Keys()
	}
	levels := make([]uint8, 0, len(c.levels))
	for l := range c.levels {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}
