package genplanet

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/various"
)

// VertexData holds the buffers of a planet mesh or of one of its sections.
type VertexData struct {
	Vertices  []mgl64.Vec3 // Vertex positions
	Triangles []int        // Vertex indices, three per triangle
	Normals   []mgl64.Vec3 // Per vertex normals
	UV        []mgl64.Vec2 // Per vertex (theta, phi)
	Colors    []mgl64.Vec4 // Per vertex RGBA
	Tangents  []mgl64.Vec3 // Per vertex tangents
	Normal    mgl64.Vec3   // Outward normal of a section
}

// IsPopulated returns true if the data has vertices and triangles.
func (d *VertexData) IsPopulated() bool {
	return d != nil && len(d.Vertices) > 0 && len(d.Triangles) > 0
}

// NumTriangles returns the number of triangles.
func (d *VertexData) NumTriangles() int {
	return len(d.Triangles) / 3
}

// AddVertex projects v onto the unit sphere, appends it and returns its index.
func (d *VertexData) AddVertex(v mgl64.Vec3) int {
	d.Vertices = append(d.Vertices, various.SafeNormal(v))
	return len(d.Vertices) - 1
}

// Validate checks the buffer invariants.
func (d *VertexData) Validate() error {
	if len(d.Triangles)%3 != 0 {
		return fmt.Errorf("triangle index count %d is not a multiple of 3", len(d.Triangles))
	}
	for i, idx := range d.Triangles {
		if idx < 0 || idx >= len(d.Vertices) {
			return fmt.Errorf("triangle index %d at %d out of range [0, %d)", idx, i, len(d.Vertices))
		}
	}
	n := len(d.Vertices)
	if len(d.Normals) > 0 && len(d.Normals) != n {
		return fmt.Errorf("%d normals for %d vertices", len(d.Normals), n)
	}
	if len(d.UV) > 0 && len(d.UV) != n {
		return fmt.Errorf("%d uvs for %d vertices", len(d.UV), n)
	}
	if len(d.Colors) > 0 && len(d.Colors) != n {
		return fmt.Errorf("%d colors for %d vertices", len(d.Colors), n)
	}
	if len(d.Tangents) > 0 && len(d.Tangents) != n {
		return fmt.Errorf("%d tangents for %d vertices", len(d.Tangents), n)
	}
	return nil
}

// Clone returns a deep copy.
func (d *VertexData) Clone() *VertexData {
	return &VertexData{
		Vertices:  append([]mgl64.Vec3(nil), d.Vertices...),
		Triangles: append([]int(nil), d.Triangles...),
		Normals:   append([]mgl64.Vec3(nil), d.Normals...),
		UV:        append([]mgl64.Vec2(nil), d.UV...),
		Colors:    append([]mgl64.Vec4(nil), d.Colors...),
		Tangents:  append([]mgl64.Vec3(nil), d.Tangents...),
		Normal:    d.Normal,
	}
}

// clearAttributes drops per vertex attributes that no longer match the
// topology.
func (d *VertexData) clearAttributes() {
	d.Normals = nil
	d.UV = nil
	d.Colors = nil
	d.Tangents = nil
}

// CalculateTangents assigns every vertex the direction from itself to the
// next vertex of the first triangle referencing it as first corner.
// Vertices never referenced that way keep a zero tangent.
func (d *VertexData) CalculateTangents() {
	d.Tangents = make([]mgl64.Vec3, len(d.Vertices))
	set := make([]bool, len(d.Vertices))
	for t := 0; t+2 < len(d.Triangles); t += 3 {
		i0, i1 := d.Triangles[t], d.Triangles[t+1]
		if set[i0] {
			continue
		}
		d.Tangents[i0] = various.SafeNormal(d.Vertices[i1].Sub(d.Vertices[i0]))
		set[i0] = true
	}
}
