package genplanet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/orbitplanetarium/genplanet/various"
)

// NumSections is the number of faces of an icosahedron.
const NumSections = 20

var icoTriangles = [NumSections][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

func icoVertices() [12]mgl64.Vec3 {
	t := (1 + math.Sqrt(5)) / 2
	return [12]mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}

// BuildBase returns the 12 vertex, 20 triangle icosahedron on the unit sphere.
func BuildBase() *VertexData {
	d := &VertexData{}
	for _, v := range icoVertices() {
		d.AddVertex(v)
	}
	for _, t := range icoTriangles {
		d.Triangles = append(d.Triangles, t[0], t[1], t[2])
	}
	return d
}

// Subdivide splits every triangle into four, level times. Midpoints of
// shared edges are shared by the adjoining triangles.
// Per vertex attributes are cleared since they no longer match.
func (d *VertexData) Subdivide(level int) {
	if level <= 0 {
		return
	}
	d.clearAttributes()
	for l := 0; l < level; l++ {
		midpoints := make(map[[2]int]int, len(d.Triangles))
		mid := func(a, b int) int {
			key := [2]int{a, b}
			if b < a {
				key = [2]int{b, a}
			}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			idx := d.AddVertex(various.Midpoint(d.Vertices[a], d.Vertices[b]))
			midpoints[key] = idx
			return idx
		}
		d.Triangles = splitTriangles(d.Triangles, mid)
	}
}

// splitTriangles returns the 1 to 4 split of tris using mid to obtain the
// edge midpoint indices.
func splitTriangles(tris []int, mid func(a, b int) int) []int {
	out := make([]int, 0, len(tris)*4)
	for t := 0; t+2 < len(tris); t += 3 {
		a, b, c := tris[t], tris[t+1], tris[t+2]
		ab := mid(a, b)
		bc := mid(b, c)
		ca := mid(c, a)
		out = append(out,
			a, ab, ca,
			b, bc, ab,
			c, ca, bc,
			ab, bc, ca,
		)
	}
	return out
}
