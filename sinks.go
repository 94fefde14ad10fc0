package genplanet

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// MeshSink receives finished mesh sections. CreateSection establishes the
// topology of a section, UpdateSection refreshes a section whose vertex count
// did not change.
type MeshSink interface {
	CreateSection(index int, data *VertexData, asyncCooking bool) error
	UpdateSection(index int, data *VertexData) error
}

// ViewerProvider returns the world position of the viewer, if there is one.
type ViewerProvider interface {
	ViewerPosition() (mgl64.Vec3, bool)
}

// FixedViewer is a viewer that never moves.
type FixedViewer mgl64.Vec3

// ViewerPosition implements ViewerProvider.
func (v FixedViewer) ViewerPosition() (mgl64.Vec3, bool) {
	return mgl64.Vec3(v), true
}

// ViewerState is a viewer position that can be updated concurrently.
// It reports no viewer until the first call to Set.
type ViewerState struct {
	mu  sync.RWMutex
	pos mgl64.Vec3
	ok  bool
}

// Set updates the viewer position.
func (v *ViewerState) Set(pos mgl64.Vec3) {
	v.mu.Lock()
	v.pos, v.ok = pos, true
	v.mu.Unlock()
}

// ViewerPosition implements ViewerProvider.
func (v *ViewerState) ViewerPosition() (mgl64.Vec3, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pos, v.ok
}
