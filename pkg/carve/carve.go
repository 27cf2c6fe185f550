// Package carve fuses per-view silhouette evidence into a voxel grid.
// Each view contributes a signed distance per voxel and the grid keeps
// the running minimum, realizing space carving as an intersection of
// per-view half-spaces.
package carve

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/scanrig/carve/pkg/camera"
	"github.com/scanrig/carve/pkg/segment"
	"github.com/scanrig/carve/pkg/voxel"
)

// outOfFrame is the evidence recorded for voxels that project outside
// the mask image: no distance information is available there, so they
// are treated as (weakly) outside the silhouette.
const outOfFrame = float32(-1)

// Engine carves one voxel grid from successive calibrated views.
// Carve calls must be strictly sequential on one engine: each pass
// folds into the minimum left by the previous one.
type Engine struct {
	grid *voxel.Grid
	seg  segment.Segmenter
}

// New returns an engine carving into grid. A nil segmenter defaults to
// the chamfer transform.
func New(grid *voxel.Grid, seg segment.Segmenter) *Engine {
	if seg == nil {
		seg = segment.Chamfer{}
	}
	return &Engine{grid: grid, seg: seg}
}

// Carve fuses one view into the grid. For every voxel: compute its
// world position, project it into the view, read the signed distance
// evidence (negated on background pixels, -1 when out of frame), and
// keep the minimum of that evidence and the cell's current value.
// After Carve returns, no cell has a greater value than before.
//
// Voxels are independent within one pass, so the grid is carved one
// i-slice per goroutine; all writes complete before Carve returns.
func (e *Engine) Carve(view camera.View) error {
	mask := view.Mask()
	if mask == nil {
		return fmt.Errorf("%w: view has nil mask", camera.ErrInvalidInput)
	}

	dist, err := e.seg.DistanceMap(mask)
	if err != nil {
		return fmt.Errorf("carve: distance map: %w", err)
	}
	bounds := mask.Bounds()
	if dist.Width() != bounds.Dx() || dist.Height() != bounds.Dy() {
		return fmt.Errorf("%w: distance map is %dx%d, mask is %dx%d",
			segment.ErrInvalidInput, dist.Width(), dist.Height(), bounds.Dx(), bounds.Dy())
	}

	var wg sync.WaitGroup
	for i := 0; i < e.grid.Dim(); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.carveSlice(view, mask, dist, i)
		}(i)
	}
	wg.Wait()
	return nil
}

// carveSlice fuses evidence for every voxel in one i-slice. Slices are
// disjoint in storage, so concurrent slices never share a cell.
func (e *Engine) carveSlice(view camera.View, mask *image.Gray, dist *segment.DistanceMap, i int) {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dim := e.grid.Dim()

	for j := 0; j < dim; j++ {
		for k := 0; k < dim; k++ {
			x, y := view.Project(e.grid.World(i, j, k))
			px := int(math.Round(x))
			py := int(math.Round(y))

			evidence := outOfFrame
			if px >= 0 && px < w && py >= 0 && py < h {
				evidence = dist.At(px, py)
				if mask.GrayAt(bounds.Min.X+px, bounds.Min.Y+py).Y == 0 { // background
					evidence = -evidence
				}
			}

			if evidence < e.grid.At(i, j, k) {
				e.grid.Set(i, j, k, evidence)
			}
		}
	}
}
