// Package recon orchestrates a full silhouette reconstruction:
// construct a grid over a bounding box, carve it once per calibrated
// view, extract the visual hull, and export it.
package recon

import (
	"github.com/scanrig/carve/pkg/camera"
	"github.com/scanrig/carve/pkg/carve"
	"github.com/scanrig/carve/pkg/export"
	"github.com/scanrig/carve/pkg/mesh"
	"github.com/scanrig/carve/pkg/segment"
	"github.com/scanrig/carve/pkg/surface"
	"github.com/scanrig/carve/pkg/voxel"
)

// DefaultOutput is the mesh file written when no path is given.
const DefaultOutput = "export.obj"

// Reconstructor owns the grid and the carving engine for one
// reconstruction. Views are carved strictly one at a time.
type Reconstructor struct {
	grid   *voxel.Grid
	engine *carve.Engine
	hull   *mesh.Mesh
}

// New builds a reconstructor over the given bounding box at the given
// voxel resolution, using the chamfer segmenter.
func New(bb voxel.BoundingBox, dim int) (*Reconstructor, error) {
	return NewWithSegmenter(bb, dim, segment.Chamfer{})
}

// NewWithSegmenter is New with an explicit distance-map backend.
func NewWithSegmenter(bb voxel.BoundingBox, dim int, seg segment.Segmenter) (*Reconstructor, error) {
	grid, err := voxel.NewGrid(bb, dim)
	if err != nil {
		return nil, err
	}
	return &Reconstructor{
		grid:   grid,
		engine: carve.New(grid, seg),
	}, nil
}

// Grid returns the underlying voxel grid.
func (r *Reconstructor) Grid() *voxel.Grid { return r.grid }

// Carve fuses one view into the grid.
func (r *Reconstructor) Carve(view camera.View) error {
	return r.engine.Carve(view)
}

// VisualHull extracts the zero isosurface of the carved grid and
// attaches face normals. The result is retained for export and
// replaced on each call.
func (r *Reconstructor) VisualHull() *mesh.Mesh {
	triangles := surface.NewExtractor(r.grid).Extract()
	r.hull = &mesh.Mesh{
		Triangles: triangles,
		Normals:   mesh.SurfaceNormals(triangles),
	}
	return r.hull
}

// ExportToDisk writes the extracted hull as an OBJ file. It fails
// with export.ErrEmptyMesh if VisualHull has not produced any
// triangles yet.
func (r *Reconstructor) ExportToDisk(path string) error {
	if r.hull == nil {
		return export.ErrEmptyMesh
	}
	if path == "" {
		path = DefaultOutput
	}
	return export.ToDisk(path, r.hull)
}
