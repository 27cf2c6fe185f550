// Package export writes a reconstructed mesh to a Wavefront OBJ file:
// vertex positions, per-vertex normals, and face indices.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scanrig/carve/pkg/mesh"
)

// ErrEmptyMesh reports an export attempted before any surface has
// been extracted. Exporting an empty mesh is a precondition violation,
// not a valid empty file.
var ErrEmptyMesh = errors.New("export: mesh has no triangles")

// WriteOBJ writes the mesh in OBJ format. The triangle and normal
// sequences are forwarded unchanged; each face references its three
// vertices and their three normals in order.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	if m == nil || m.IsEmpty() {
		return ErrEmptyMesh
	}
	if len(m.Normals) != 3*len(m.Triangles) {
		return fmt.Errorf("export: %d normals for %d triangles, want 3 per triangle",
			len(m.Normals), len(m.Triangles))
	}

	bw := bufio.NewWriter(w)
	for _, tri := range m.Triangles {
		for _, v := range tri {
			fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for i := range m.Triangles {
		a := 3*i + 1 // OBJ indices are 1-based
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, a+1, a+1, a+2, a+2)
	}
	return bw.Flush()
}

// ToDisk writes the mesh as an OBJ file at path, failing with
// ErrEmptyMesh before touching the filesystem if the mesh is empty.
func ToDisk(path string, m *mesh.Mesh) error {
	if m == nil || m.IsEmpty() {
		return ErrEmptyMesh
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
