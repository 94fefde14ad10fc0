package genplanet

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/orbitplanetarium/genplanet/various"
)

// Encode writes all buffers to w.
func (d *VertexData) Encode(w io.Writer) error {
	if err := various.WriteVec3Slice(w, d.Vertices); err != nil {
		return err
	}
	if err := various.WriteIntSlice(w, d.Triangles); err != nil {
		return err
	}
	if err := various.WriteVec3Slice(w, d.Normals); err != nil {
		return err
	}
	if err := various.WriteVec2Slice(w, d.UV); err != nil {
		return err
	}
	if err := various.WriteVec4Slice(w, d.Colors); err != nil {
		return err
	}
	if err := various.WriteVec3Slice(w, d.Tangents); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, [3]float64(d.Normal))
}

// ReadVertexData reads vertex data written by Encode.
func ReadVertexData(r io.Reader) (*VertexData, error) {
	var d VertexData
	var err error
	if d.Vertices, err = various.ReadVec3Slice(r); err != nil {
		return nil, err
	}
	if d.Triangles, err = various.ReadIntSlice(r); err != nil {
		return nil, err
	}
	if d.Normals, err = various.ReadVec3Slice(r); err != nil {
		return nil, err
	}
	if d.UV, err = various.ReadVec2Slice(r); err != nil {
		return nil, err
	}
	if d.Colors, err = various.ReadVec4Slice(r); err != nil {
		return nil, err
	}
	if d.Tangents, err = various.ReadVec3Slice(r); err != nil {
		return nil, err
	}
	var n [3]float64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	d.Normal = n
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ExportOBJ writes the mesh as Wavefront OBJ.
func (d *VertexData) ExportOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range d.Vertices {
		fmt.Fprintf(bw, "v %f %f %f\n", v.X(), v.Y(), v.Z())
	}
	for _, n := range d.Normals {
		fmt.Fprintf(bw, "vn %f %f %f\n", n.X(), n.Y(), n.Z())
	}
	for _, uv := range d.UV {
		fmt.Fprintf(bw, "vt %f %f\n", uv.X(), uv.Y())
	}
	hasN := len(d.Normals) == len(d.Vertices)
	hasUV := len(d.UV) == len(d.Vertices)
	for t := 0; t+2 < len(d.Triangles); t += 3 {
		bw.WriteString("f")
		for _, idx := range d.Triangles[t : t+3] {
			i := idx + 1
			switch {
			case hasN && hasUV:
				fmt.Fprintf(bw, " %d/%d/%d", i, i, i)
			case hasN:
				fmt.Fprintf(bw, " %d//%d", i, i)
			case hasUV:
				fmt.Fprintf(bw, " %d/%d", i, i)
			default:
				fmt.Fprintf(bw, " %d", i)
			}
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// ExportOBJFile writes the mesh as Wavefront OBJ to the given path.
func (d *VertexData) ExportOBJFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.ExportOBJ(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
