package genplanet

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/various"
)

// BuildSections returns the faces of the base icosahedron as 20 independent
// one triangle meshes, each with its outward normal.
func BuildSections() [NumSections]*VertexData {
	base := BuildBase()
	var sections [NumSections]*VertexData
	for i := range sections {
		a := base.Vertices[base.Triangles[i*3]]
		b := base.Vertices[base.Triangles[i*3+1]]
		c := base.Vertices[base.Triangles[i*3+2]]
		sections[i] = &VertexData{
			Vertices:  []mgl64.Vec3{a, b, c},
			Triangles: []int{0, 1, 2},
			Normal:    various.GetCentroidOfTriangle(a, b, c),
		}
	}
	return sections
}

// SubdivideSection splits every triangle into four, level times. Every
// triangle adds its own midpoints, so nothing is shared between triangles.
func (d *VertexData) SubdivideSection(level int) {
	if level <= 0 {
		return
	}
	d.clearAttributes()
	for l := 0; l < level; l++ {
		d.Triangles = splitTriangles(d.Triangles, func(a, b int) int {
			return d.AddVertex(various.Midpoint(d.Vertices[a], d.Vertices[b]))
		})
	}
}
