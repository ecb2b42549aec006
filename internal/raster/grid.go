package raster

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Grid is a dense 2-D float32 array holding one raster band in memory.
// Data is stored row-major: the element at (x, y) lives at Data[y*Width+x].
//
// Grids returned by Read and ReadAll are always independent copies; mutating
// one never affects another caller's result or the file on disk.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Data   []float32 `json:"data"`
}

// NewGrid allocates a zero-filled grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}
}

// UniformGrid allocates a grid with every element set to value.
func UniformGrid(width, height int, value float32) *Grid {
	g := NewGrid(width, height)
	for i := range g.Data {
		g.Data[i] = value
	}
	return g
}

// PatternGrid builds a deterministic size×size test pattern,
// sin(x/12) + cos(y/15), so read-backs can be checked against a known
// ground truth.
func PatternGrid(size int) *Grid {
	g := NewGrid(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g.Data[y*size+x] = float32(math.Sin(float64(x)/12.0) + math.Cos(float64(y)/15.0))
		}
	}
	return g
}

// At returns the element at pixel (x, y). Coordinates are 0-based with
// (0,0) the top-left pixel.
func (g *Grid) At(x, y int) float32 {
	return g.Data[y*g.Width+x]
}

// Set assigns the element at pixel (x, y).
func (g *Grid) Set(x, y int, v float32) {
	g.Data[y*g.Width+x] = v
}

// Equal reports whether two grids have identical dimensions and bit-for-bit
// identical contents. NaN elements never compare equal.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i, v := range g.Data {
		if v != other.Data[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.Width, g.Height)
	copy(c.Data, g.Data)
	return c
}

// Mean returns the arithmetic mean of all elements.
func (g *Grid) Mean() float64 {
	vals := make([]float64, len(g.Data))
	for i, v := range g.Data {
		vals[i] = float64(v)
	}
	return stat.Mean(vals, nil)
}

// Bounds returns the min and max element values. Both are 0 for an empty grid.
func (g *Grid) Bounds() (min, max float32) {
	if len(g.Data) == 0 {
		return 0, 0
	}
	min, max = g.Data[0], g.Data[0]
	for _, v := range g.Data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
