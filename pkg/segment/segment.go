// Package segment turns a binary silhouette mask into the unsigned
// distance-to-boundary field the carving engine reads. The Segmenter
// interface keeps the backend substitutable; the shipped backend is a
// two-pass chamfer transform.
package segment

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// ErrInvalidInput reports a nil or empty mask.
var ErrInvalidInput = errors.New("segment: invalid input")

// DistanceMap is a scalar field over an image: the value at each pixel
// approximates the Euclidean distance to the nearest silhouette
// boundary. Values are unsigned; the carver applies the sign from the
// mask. A mask with no boundary at all (uniformly foreground or
// background) yields +Inf everywhere.
type DistanceMap struct {
	w, h int
	data []float32
}

// NewDistanceMap allocates a w×h map with all distances at +Inf.
func NewDistanceMap(w, h int) (*DistanceMap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, w, h)
	}
	m := &DistanceMap{w: w, h: h, data: make([]float32, w*h)}
	inf := math32.Inf(1)
	for i := range m.data {
		m.data[i] = inf
	}
	return m, nil
}

// Width returns the map width in pixels.
func (m *DistanceMap) Width() int { return m.w }

// Height returns the map height in pixels.
func (m *DistanceMap) Height() int { return m.h }

// At returns the distance at pixel (x,y).
func (m *DistanceMap) At(x, y int) float32 {
	return m.data[y*m.w+x]
}

// Set overwrites the distance at pixel (x,y).
func (m *DistanceMap) Set(x, y int, v float32) {
	m.data[y*m.w+x] = v
}

// Segmenter computes a distance map from a silhouette mask. The
// returned map has the mask's dimensions.
type Segmenter interface {
	DistanceMap(mask *image.Gray) (*DistanceMap, error)
}

// Compile-time interface check.
var _ Segmenter = Chamfer{}

// Chamfer computes an approximate Euclidean distance transform with
// two raster passes: boundary pixels (pixels with a 4-neighbor of the
// opposite class) seed at distance 0, then distances propagate with
// weight 1 for axial steps and √2 for diagonal steps.
type Chamfer struct{}

// DistanceMap implements Segmenter.
func (Chamfer) DistanceMap(mask *image.Gray) (*DistanceMap, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidInput)
	}
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()

	m, err := NewDistanceMap(w, h)
	if err != nil {
		return nil, err
	}

	fg := func(x, y int) bool {
		return mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0
	}

	// Seed the boundary.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			here := fg(x, y)
			if (x > 0 && fg(x-1, y) != here) ||
				(x < w-1 && fg(x+1, y) != here) ||
				(y > 0 && fg(x, y-1) != here) ||
				(y < h-1 && fg(x, y+1) != here) {
				m.Set(x, y, 0)
			}
		}
	}

	const axial, diagonal = 1.0, math32.Sqrt2

	// Forward pass: top-left to bottom-right.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := m.At(x, y)
			if x > 0 {
				d = math32.Min(d, m.At(x-1, y)+axial)
			}
			if y > 0 {
				d = math32.Min(d, m.At(x, y-1)+axial)
				if x > 0 {
					d = math32.Min(d, m.At(x-1, y-1)+diagonal)
				}
				if x < w-1 {
					d = math32.Min(d, m.At(x+1, y-1)+diagonal)
				}
			}
			m.Set(x, y, d)
		}
	}

	// Backward pass: bottom-right to top-left.
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			d := m.At(x, y)
			if x < w-1 {
				d = math32.Min(d, m.At(x+1, y)+axial)
			}
			if y < h-1 {
				d = math32.Min(d, m.At(x, y+1)+axial)
				if x < w-1 {
					d = math32.Min(d, m.At(x+1, y+1)+diagonal)
				}
				if x > 0 {
					d = math32.Min(d, m.At(x-1, y+1)+diagonal)
				}
			}
			m.Set(x, y, d)
		}
	}

	return m, nil
}
