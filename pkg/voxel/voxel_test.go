package voxel

import (
	"errors"
	"math"
	"testing"

	"github.com/chewxy/math32"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

var testBox = BoundingBox{XMin: -1, XMax: 1, YMin: -1, YMax: 1, ZMin: 0, ZMax: 2}

func TestPlaceGrid(t *testing.T) {
	params, err := PlaceGrid(testBox, 10)
	if err != nil {
		t.Fatalf("PlaceGrid() error = %v", err)
	}

	// X extent 2 padded by 6% per side: width 2.24, origin shifted by 0.12.
	// Y extent 2 padded by 20% per side: height 2.80, origin shifted by 0.40.
	// Z extent 2 unpadded, origin pinned at 0.
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"StartX", params.StartX, -1 - 0.12},
		{"StartY", params.StartY, -1 - 0.40},
		{"StartZ", params.StartZ, 0},
		{"VoxelWidth", params.VoxelWidth, 2.24 / 10},
		{"VoxelHeight", params.VoxelHeight, 2.80 / 10},
		{"VoxelDepth", params.VoxelDepth, 2.0 / 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !almostEqual(tt.got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestPlaceGridDeterministic(t *testing.T) {
	a, err := PlaceGrid(testBox, 32)
	if err != nil {
		t.Fatalf("PlaceGrid() error = %v", err)
	}
	b, err := PlaceGrid(testBox, 32)
	if err != nil {
		t.Fatalf("PlaceGrid() error = %v", err)
	}
	if a != b {
		t.Errorf("PlaceGrid not deterministic: %+v vs %+v", a, b)
	}
}

func TestPlaceGridInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		bb   BoundingBox
		dim  int
	}{
		{"zero resolution", testBox, 0},
		{"negative resolution", testBox, -4},
		{"flat in x", BoundingBox{XMin: 1, XMax: 1, YMin: -1, YMax: 1, ZMin: 0, ZMax: 2}, 10},
		{"inverted y", BoundingBox{XMin: -1, XMax: 1, YMin: 1, YMax: -1, ZMin: 0, ZMax: 2}, 10},
		{"flat in z", BoundingBox{XMin: -1, XMax: 1, YMin: -1, YMax: 1, ZMin: 2, ZMax: 2}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlaceGrid(tt.bb, tt.dim); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("PlaceGrid() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewGridInitialization(t *testing.T) {
	g, err := NewGrid(testBox, 4)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	if got := g.Cells(); got != 64 {
		t.Fatalf("Cells() = %d, want 64", got)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				if got := g.At(i, j, k); got != math32.MaxFloat32 {
					t.Fatalf("At(%d,%d,%d) = %v, want MaxFloat32", i, j, k, got)
				}
			}
		}
	}
}

func TestGridIndexScheme(t *testing.T) {
	g, err := NewGrid(testBox, 4)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	tests := []struct {
		i, j, k int
		want    int
	}{
		{0, 0, 0, 0},
		{0, 0, 3, 3},
		{0, 1, 0, 4},
		{1, 0, 0, 16},
		{1, 2, 3, 3 + 8 + 16},
		{3, 3, 3, 63},
	}
	for _, tt := range tests {
		if got := g.Index(tt.i, tt.j, tt.k); got != tt.want {
			t.Errorf("Index(%d,%d,%d) = %d, want %d", tt.i, tt.j, tt.k, got, tt.want)
		}
	}
}

func TestGridIndexOutOfRangePanics(t *testing.T) {
	g, err := NewGrid(testBox, 4)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Index(4,0,0) did not panic")
		}
	}()
	g.Index(4, 0, 0)
}

func TestGridSetAt(t *testing.T) {
	g, err := NewGrid(testBox, 4)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	g.Set(1, 2, 3, -2.5)
	if got := g.At(1, 2, 3); got != -2.5 {
		t.Errorf("At(1,2,3) = %v, want -2.5", got)
	}
	// Neighbors stay untouched.
	if got := g.At(1, 2, 2); got != math32.MaxFloat32 {
		t.Errorf("At(1,2,2) = %v, want MaxFloat32", got)
	}
}

func TestGridWorld(t *testing.T) {
	g, err := NewGrid(testBox, 10)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	p := g.Params()

	// k steps along X, j along Y, i along Z.
	got := g.World(2, 3, 5)
	want := v3.Vec{
		X: p.StartX + 5*p.VoxelWidth,
		Y: p.StartY + 3*p.VoxelHeight,
		Z: p.StartZ + 2*p.VoxelDepth,
	}
	if !almostEqual(got.X, want.X) || !almostEqual(got.Y, want.Y) || !almostEqual(got.Z, want.Z) {
		t.Errorf("World(2,3,5) = %+v, want %+v", got, want)
	}

	if origin := g.World(0, 0, 0); !almostEqual(origin.X, p.StartX) ||
		!almostEqual(origin.Y, p.StartY) || !almostEqual(origin.Z, p.StartZ) {
		t.Errorf("World(0,0,0) = %+v, want grid origin", origin)
	}
}

func TestGridBounds(t *testing.T) {
	g, err := NewGrid(testBox, 10)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	p := g.Params()
	min, max := g.Bounds()
	if !almostEqual(min.X, p.StartX) || !almostEqual(min.Y, p.StartY) || !almostEqual(min.Z, p.StartZ) {
		t.Errorf("Bounds() min = %+v, want grid origin", min)
	}
	if !almostEqual(max.X, p.StartX+10*p.VoxelWidth) ||
		!almostEqual(max.Y, p.StartY+10*p.VoxelHeight) ||
		!almostEqual(max.Z, p.StartZ+10*p.VoxelDepth) {
		t.Errorf("Bounds() max = %+v, want origin + dim*voxel", max)
	}
}

func TestGridSampleUniform(t *testing.T) {
	g, err := NewGrid(testBox, 4)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				g.Set(i, j, k, 7)
			}
		}
	}
	min, max := g.Bounds()
	mid := v3.Vec{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: (min.Z + max.Z) / 2}
	if got := g.Sample(mid); got != 7 {
		t.Errorf("Sample(center) = %v, want 7", got)
	}
	// Clamped outside the grid.
	if got := g.Sample(v3.Vec{X: min.X - 100, Y: min.Y - 100, Z: min.Z - 100}); got != 7 {
		t.Errorf("Sample(far outside) = %v, want 7", got)
	}
}

func TestGridSampleInterpolates(t *testing.T) {
	g, err := NewGrid(testBox, 2)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	// Field linear in k (world X): value 0 at k=0, 10 at k=1.
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			g.Set(i, j, 0, 0)
			g.Set(i, j, 1, 10)
		}
	}
	p := g.Params()
	mid := v3.Vec{X: p.StartX + 0.5*p.VoxelWidth, Y: p.StartY, Z: p.StartZ}
	if got := g.Sample(mid); math32.Abs(got-5) > 1e-5 {
		t.Errorf("Sample(midpoint along X) = %v, want 5", got)
	}
}
