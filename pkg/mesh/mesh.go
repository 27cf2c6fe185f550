// Package mesh holds the triangle mesh produced by surface extraction
// and computes its per-face normals.
package mesh

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an ordered triangle sequence with a parallel normal
// sequence: three normals per triangle, one per vertex, in vertex
// order. Empty until surface extraction has run.
type Mesh struct {
	Triangles []*sdf.Triangle3
	Normals   []v3.Vec
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// SurfaceNormals computes a flat face normal for each triangle and
// emits it three times, once per vertex, preserving triangle and
// vertex order. The normals are not unit length: each has magnitude
// twice the triangle's area. Vertices shared between triangles get
// independent normals, so the shading is faceted, not smoothed.
func SurfaceNormals(triangles []*sdf.Triangle3) []v3.Vec {
	normals := make([]v3.Vec, 0, len(triangles)*3)
	for _, tri := range triangles {
		n := surfaceNormal(tri[0], tri[1], tri[2])
		normals = append(normals, n, n, n)
	}
	return normals
}

// surfaceNormal is the cross product of the edge vectors (b-a) and
// (c-a), written out by component.
func surfaceNormal(a, b, c v3.Vec) v3.Vec {
	return v3.Vec{
		X: (b.Y-a.Y)*(c.Z-a.Z) - (c.Y-a.Y)*(b.Z-a.Z),
		Y: (b.Z-a.Z)*(c.X-a.X) - (b.X-a.X)*(c.Z-a.Z),
		Z: (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y),
	}
}
