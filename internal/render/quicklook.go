// Package render turns in-memory raster grids into PNG artifacts: colour
// quicklooks for inspecting harness output and difference images for
// inspecting failed comparisons.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/RichardScottOZ/raster-threading/internal/raster"
)

// Ramp endpoints: low values render cold blue, high values warm red.
var (
	rampLow  = colorful.Color{R: 0.09, G: 0.12, B: 0.66}
	rampHigh = colorful.Color{R: 0.84, G: 0.10, B: 0.11}
)

// Quicklook renders a grid as a colour-ramped image for visual inspection.
//
// Values are normalised to the grid's own min/max range and mapped through a
// blue-to-red ramp blended in Luv space. A constant grid renders as the
// midpoint colour. If maxDim is positive and smaller than the grid, the image
// is downscaled to fit a maxDim×maxDim box with aspect ratio preserved.
func Quicklook(g *raster.Grid, maxDim int) (image.Image, error) {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("cannot render empty grid")
	}
	min, max := g.Bounds()
	img := ramp(g, min, max)

	if maxDim > 0 && (g.Width > maxDim || g.Height > maxDim) {
		return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), nil
	}
	return img, nil
}

// Diff renders the per-pixel difference between two grids of the same shape.
// Both grids are normalised over their combined value range, so matching
// pixels come out black and any non-black pixel marks a mismatch.
func Diff(got, want *raster.Grid) (image.Image, error) {
	if got == nil || want == nil || got.Width != want.Width || got.Height != want.Height {
		return nil, fmt.Errorf("cannot diff grids of different shapes")
	}
	gmin, gmax := got.Bounds()
	wmin, wmax := want.Bounds()
	if wmin < gmin {
		gmin = wmin
	}
	if wmax > gmax {
		gmax = wmax
	}
	return blend.Difference(ramp(got, gmin, gmax), ramp(want, gmin, gmax)), nil
}

// ramp maps grid values in [min, max] through the blue-to-red ramp.
// A zero-width range renders every pixel as the midpoint colour.
func ramp(g *raster.Grid, min, max float32) *image.RGBA {
	span := float64(max - min)
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := 0.5
			if span > 0 {
				t = float64(g.At(x, y)-min) / span
			}
			img.Set(x, y, rampLow.BlendLuv(rampHigh, t).Clamped())
		}
	}
	return img
}

// WritePNG encodes img as PNG at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
