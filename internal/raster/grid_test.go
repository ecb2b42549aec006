package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(10, 5)
	assert.Equal(t, 10, g.Width)
	assert.Equal(t, 5, g.Height)
	assert.Len(t, g.Data, 50)
	for _, v := range g.Data {
		assert.Equal(t, float32(0), v)
	}
}

func TestGridAtSet(t *testing.T) {
	g := NewGrid(4, 3)
	g.Set(2, 1, 7.5)
	assert.Equal(t, float32(7.5), g.At(2, 1))
	assert.Equal(t, float32(7.5), g.Data[1*4+2])
}

func TestPatternGridDeterministic(t *testing.T) {
	a := PatternGrid(32)
	b := PatternGrid(32)
	assert.True(t, a.Equal(b))

	want := float32(math.Sin(5.0/12.0) + math.Cos(3.0/15.0))
	assert.Equal(t, want, a.At(5, 3))
}

func TestGridEqual(t *testing.T) {
	a := UniformGrid(8, 8, 1)
	assert.True(t, a.Equal(UniformGrid(8, 8, 1)))
	assert.False(t, a.Equal(UniformGrid(8, 8, 2)))
	assert.False(t, a.Equal(UniformGrid(8, 4, 1)))
	assert.False(t, a.Equal(nil))

	nan := UniformGrid(2, 2, float32(math.NaN()))
	assert.False(t, nan.Equal(nan.Clone()), "NaN never compares equal")
}

func TestGridClone(t *testing.T) {
	a := UniformGrid(4, 4, 9)
	b := a.Clone()
	b.Set(0, 0, 1)
	assert.Equal(t, float32(9), a.At(0, 0))
	assert.Equal(t, float32(1), b.At(0, 0))
}

func TestGridMean(t *testing.T) {
	g := NewGrid(2, 2)
	g.Data = []float32{1, 2, 3, 4}
	assert.InDelta(t, 2.5, g.Mean(), 1e-9)

	assert.InDelta(t, 7.0, UniformGrid(16, 16, 7).Mean(), 1e-5)
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(2, 2)
	g.Data = []float32{-3, 0, 10, 2}
	min, max := g.Bounds()
	assert.Equal(t, float32(-3), min)
	assert.Equal(t, float32(10), max)

	min, max = (&Grid{}).Bounds()
	assert.Equal(t, float32(0), min)
	assert.Equal(t, float32(0), max)
}
