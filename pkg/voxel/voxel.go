// Package voxel provides the dense volumetric grid that accumulates
// per-view signed-distance evidence during space carving, together
// with its geometric placement in world space.
package voxel

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidInput reports a degenerate bounding box or a non-positive
// grid resolution.
var ErrInvalidInput = errors.New("voxel: invalid input")

// Margin fractions applied to each side of the bounding box so the
// reconstructed silhouette never touches the grid boundary. The object
// is assumed to sit on the Z=0 reference plane, so Z gets no margin.
const (
	marginX = 0.06
	marginY = 0.20
)

// BoundingBox is the axis-aligned world-space region to reconstruct.
type BoundingBox struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

func (b BoundingBox) validate() error {
	if b.XMax <= b.XMin || b.YMax <= b.YMin || b.ZMax <= b.ZMin {
		return fmt.Errorf("%w: bounding box has non-positive extent (%+v)", ErrInvalidInput, b)
	}
	return nil
}

// Params is the grid placement derived once from a bounding box and a
// resolution: the world position of voxel (0,0,0) and the per-axis
// voxel dimensions. Immutable after construction.
type Params struct {
	StartX, StartY, StartZ              float64
	VoxelWidth, VoxelHeight, VoxelDepth float64
}

// PlaceGrid derives grid placement from a bounding box and resolution.
// The X extent is padded by 6% on each side and the Y extent by 20%,
// with the origin shifted outward by half the added margin so the
// padded box stays centered on the original. The Z extent is used as
// given and the Z origin is pinned to the reference plane at 0.
// The derivation is pure: identical inputs yield identical placement.
func PlaceGrid(bb BoundingBox, dim int) (Params, error) {
	if dim <= 0 {
		return Params{}, fmt.Errorf("%w: resolution %d, want > 0", ErrInvalidInput, dim)
	}
	if err := bb.validate(); err != nil {
		return Params{}, err
	}

	extentX := bb.XMax - bb.XMin
	extentY := bb.YMax - bb.YMin

	width := extentX * (1.0 + 2.0*marginX)
	height := extentY * (1.0 + 2.0*marginY)
	depth := bb.ZMax - bb.ZMin

	n := float64(dim)
	return Params{
		StartX:      bb.XMin - (width-extentX)/2.0,
		StartY:      bb.YMin - (height-extentY)/2.0,
		StartZ:      0,
		VoxelWidth:  width / n,
		VoxelHeight: height / n,
		VoxelDepth:  depth / n,
	}, nil
}

// Grid is a dense dim³ scalar field. Cell (i,j,k) lives at linear
// index k + j·dim + i·dim², with k varying fastest. Every cell starts
// at the maximum float32 value, the sentinel for "unconstrained by any
// view so far". The grid exclusively owns its backing storage; all
// access goes through its methods.
type Grid struct {
	dim    int
	slice  int
	data   []float32
	params Params
}

// NewGrid allocates a dim³ grid placed per PlaceGrid over the given
// bounding box, with every cell initialized to math32.MaxFloat32.
func NewGrid(bb BoundingBox, dim int) (*Grid, error) {
	params, err := PlaceGrid(bb, dim)
	if err != nil {
		return nil, err
	}

	data := make([]float32, dim*dim*dim)
	for i := range data {
		data[i] = math32.MaxFloat32
	}

	return &Grid{
		dim:    dim,
		slice:  dim * dim,
		data:   data,
		params: params,
	}, nil
}

// Dim returns the per-axis resolution.
func (g *Grid) Dim() int { return g.dim }

// Cells returns the total cell count, dim³.
func (g *Grid) Cells() int { return len(g.data) }

// Params returns the placement computed at construction.
func (g *Grid) Params() Params { return g.params }

// Index maps cell coordinates to the linear storage index.
// Panics if any coordinate is outside [0, dim).
func (g *Grid) Index(i, j, k int) int {
	if i < 0 || i >= g.dim || j < 0 || j >= g.dim || k < 0 || k >= g.dim {
		panic(fmt.Sprintf("voxel: index (%d,%d,%d) out of range for dim %d", i, j, k, g.dim))
	}
	return k + j*g.dim + i*g.slice
}

// At returns the value of cell (i,j,k).
func (g *Grid) At(i, j, k int) float32 {
	return g.data[g.Index(i, j, k)]
}

// Set overwrites the value of cell (i,j,k).
func (g *Grid) Set(i, j, k int, v float32) {
	g.data[g.Index(i, j, k)] = v
}

// World returns the world-space position of cell (i,j,k): k steps
// along X, j along Y, i along Z from the grid origin.
func (g *Grid) World(i, j, k int) v3.Vec {
	return v3.Vec{
		X: g.params.StartX + float64(k)*g.params.VoxelWidth,
		Y: g.params.StartY + float64(j)*g.params.VoxelHeight,
		Z: g.params.StartZ + float64(i)*g.params.VoxelDepth,
	}
}

// Bounds returns the world-space extent covered by the grid, from the
// origin cell to one voxel past the last cell on each axis.
func (g *Grid) Bounds() (min, max v3.Vec) {
	n := float64(g.dim)
	min = v3.Vec{X: g.params.StartX, Y: g.params.StartY, Z: g.params.StartZ}
	max = v3.Vec{
		X: g.params.StartX + n*g.params.VoxelWidth,
		Y: g.params.StartY + n*g.params.VoxelHeight,
		Z: g.params.StartZ + n*g.params.VoxelDepth,
	}
	return min, max
}

// Sample reads the field at an arbitrary world point by trilinear
// interpolation of the eight surrounding cells. Points outside the
// grid are clamped to the boundary cells.
func (g *Grid) Sample(p v3.Vec) float32 {
	if g.dim == 1 {
		return g.data[0]
	}
	fx := g.clampCoord((p.X - g.params.StartX) / g.params.VoxelWidth)
	fy := g.clampCoord((p.Y - g.params.StartY) / g.params.VoxelHeight)
	fz := g.clampCoord((p.Z - g.params.StartZ) / g.params.VoxelDepth)

	k0, tk := split(fx, g.dim)
	j0, tj := split(fy, g.dim)
	i0, ti := split(fz, g.dim)
	k1, j1, i1 := k0+1, j0+1, i0+1

	c00 := lerp(g.At(i0, j0, k0), g.At(i0, j0, k1), tk)
	c01 := lerp(g.At(i0, j1, k0), g.At(i0, j1, k1), tk)
	c10 := lerp(g.At(i1, j0, k0), g.At(i1, j0, k1), tk)
	c11 := lerp(g.At(i1, j1, k0), g.At(i1, j1, k1), tk)

	c0 := lerp(c00, c01, tj)
	c1 := lerp(c10, c11, tj)
	return lerp(c0, c1, ti)
}

func (g *Grid) clampCoord(f float64) float64 {
	if f < 0 {
		return 0
	}
	if max := float64(g.dim - 1); f > max {
		return max
	}
	return f
}

// split separates a clamped grid coordinate into a base cell index and
// an interpolation fraction, keeping base+1 in range.
func split(f float64, dim int) (int, float32) {
	i := int(f)
	if i >= dim-1 {
		return dim - 2, 1
	}
	return i, float32(f - float64(i))
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
