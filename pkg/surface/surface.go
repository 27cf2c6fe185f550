// Package surface extracts the zero level-set of a fused voxel grid
// as triangles. The isosurface algorithm itself is delegated to the
// github.com/deadsy/sdfx marching cubes renderer; this package only
// adapts the grid to the sdf.SDF3 interface it consumes.
package surface

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/scanrig/carve/pkg/voxel"
)

// Compile-time interface check.
var _ sdf.SDF3 = (*gridField)(nil)

// gridField exposes a voxel grid as a continuous scalar field via
// trilinear interpolation, shifted so the extraction isovalue sits at
// zero. The field reads the grid and never mutates it.
type gridField struct {
	grid *voxel.Grid
	iso  float64
}

func (f *gridField) Evaluate(p v3.Vec) float64 {
	return float64(f.grid.Sample(p)) - f.iso
}

func (f *gridField) BoundingBox() sdf.Box3 {
	min, max := f.grid.Bounds()
	return sdf.Box3{Min: min, Max: max}
}

// Extractor turns a fused grid into a triangle mesh at the placement
// and resolution fixed when the grid was constructed.
type Extractor struct {
	grid  *voxel.Grid
	iso   float64
	cells int
}

// NewExtractor returns an extractor for the zero isosurface of grid,
// marching at the grid's own resolution.
func NewExtractor(grid *voxel.Grid) *Extractor {
	return &Extractor{grid: grid, iso: 0, cells: grid.Dim()}
}

// Extract runs marching cubes over the grid and returns the triangle
// set. The grid is only read, so repeated calls on an unchanged grid
// yield the same geometry.
func (e *Extractor) Extract() []*sdf.Triangle3 {
	renderer := render.NewMarchingCubesUniform(e.cells)
	return render.ToTriangles(&gridField{grid: e.grid, iso: e.iso}, renderer)
}
