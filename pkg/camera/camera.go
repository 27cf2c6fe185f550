// Package camera defines the view capability the carving engine
// consumes — a silhouette mask plus a 3D-to-pixel projection — and a
// concrete calibrated pinhole backend. Implementations wrap whatever
// calibration source they have; the carver never sees past the
// interface.
package camera

import (
	"errors"
	"fmt"
	"image"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidInput reports malformed calibration matrices or an empty
// silhouette mask.
var ErrInvalidInput = errors.New("camera: invalid input")

// View is one calibrated silhouette observation of the scene.
type View interface {
	// Mask returns the binary silhouette image: 0 marks background,
	// any nonzero value marks foreground.
	Mask() *image.Gray

	// Project maps a world-space point to pixel coordinates in the
	// mask image. The result may fall outside the image bounds.
	Project(p v3.Vec) (x, y float64)
}

// Compile-time interface check.
var _ View = (*Pinhole)(nil)

// Pinhole is a calibrated pinhole camera projecting through a 3×4
// matrix P = K·[R|t].
type Pinhole struct {
	proj *mat.Dense // 3x4
	mask *image.Gray
}

// NewPinhole assembles a pinhole view from intrinsics K (3×3),
// rotation R (3×3), translation t (length 3), and a silhouette mask.
func NewPinhole(intrinsics, rotation *mat.Dense, translation *mat.VecDense, mask *image.Gray) (*Pinhole, error) {
	if err := checkDims(intrinsics, 3, 3, "intrinsics"); err != nil {
		return nil, err
	}
	if err := checkDims(rotation, 3, 3, "rotation"); err != nil {
		return nil, err
	}
	if translation == nil || translation.Len() != 3 {
		return nil, fmt.Errorf("%w: translation must be a 3-vector", ErrInvalidInput)
	}

	// [R|t]
	rt := mat.NewDense(3, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rt.Set(r, c, rotation.At(r, c))
		}
		rt.Set(r, 3, translation.AtVec(r))
	}

	proj := mat.NewDense(3, 4, nil)
	proj.Mul(intrinsics, rt)
	return NewPinholeFromMatrix(proj, mask)
}

// NewPinholeFromMatrix wraps an already-assembled 3×4 projection
// matrix and a silhouette mask.
func NewPinholeFromMatrix(proj *mat.Dense, mask *image.Gray) (*Pinhole, error) {
	if err := checkDims(proj, 3, 4, "projection"); err != nil {
		return nil, err
	}
	if mask == nil || mask.Bounds().Dx() == 0 || mask.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: empty silhouette mask", ErrInvalidInput)
	}
	return &Pinhole{proj: proj, mask: mask}, nil
}

// Mask returns the silhouette image supplied at construction.
func (c *Pinhole) Mask() *image.Gray { return c.mask }

// Project applies the projection matrix with homogeneous divide.
// A point on the camera's principal plane (homogeneous w of 0) has no
// finite image; it is mapped to (-1,-1), which is always out of frame.
func (c *Pinhole) Project(p v3.Vec) (float64, float64) {
	w := c.proj.At(2, 0)*p.X + c.proj.At(2, 1)*p.Y + c.proj.At(2, 2)*p.Z + c.proj.At(2, 3)
	if w == 0 {
		return -1, -1
	}
	x := c.proj.At(0, 0)*p.X + c.proj.At(0, 1)*p.Y + c.proj.At(0, 2)*p.Z + c.proj.At(0, 3)
	y := c.proj.At(1, 0)*p.X + c.proj.At(1, 1)*p.Y + c.proj.At(1, 2)*p.Z + c.proj.At(1, 3)
	return x / w, y / w
}

func checkDims(m *mat.Dense, rows, cols int, name string) error {
	if m == nil {
		return fmt.Errorf("%w: %s matrix is nil", ErrInvalidInput, name)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%w: %s matrix is %dx%d, want %dx%d", ErrInvalidInput, name, r, c, rows, cols)
	}
	return nil
}
