// Package render turns coverage images into PNG heatmaps for quick
// inspection: one cell per pixel of the coverage grid, colour-mapped by
// depth, with uncovered cells left transparent.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/surveyfoundry/skycoverage/model"
)

// Options control heatmap rendering.
type Options struct {
	// CMin/CMax pin the colour scale. When both are zero the scale spans
	// the covered (nonzero) depth range of the image.
	CMin float64
	CMax float64

	// Scale upscales the output by an integer factor with nearest-
	// neighbour sampling, keeping cell boundaries crisp. Values below 1
	// mean no scaling.
	Scale int
}

// Ramp from shallow to deep coverage.
var rampStops = []color.NRGBA{
	{R: 68, G: 1, B: 84, A: 255},
	{R: 59, G: 82, B: 139, A: 255},
	{R: 33, G: 145, B: 140, A: 255},
	{R: 94, G: 201, B: 98, A: 255},
	{R: 253, G: 231, B: 37, A: 255},
}

// Heatmap renders a coverage result. Rows are flipped so north (the
// latitude maximum) ends up at the top of the image, and zero-coverage
// cells stay transparent.
func Heatmap(res *model.CoverageResult, opts Options) (image.Image, error) {
	if res == nil || len(res.Image) == 0 {
		return nil, fmt.Errorf("render: empty coverage image")
	}
	nLat := len(res.Image)
	nLon := len(res.Image[0])
	for j, row := range res.Image {
		if len(row) != nLon {
			return nil, fmt.Errorf("render: ragged image row %d (%d cells, want %d)", j, len(row), nLon)
		}
	}

	cmin, cmax := opts.CMin, opts.CMax
	if cmin == 0 && cmax == 0 {
		cmin, cmax = depthRange(res.Image)
	}

	img := image.NewNRGBA(image.Rect(0, 0, nLon, nLat))
	for j, row := range res.Image {
		y := nLat - 1 - j // north up
		for i, depth := range row {
			if depth == 0 {
				continue
			}
			img.SetNRGBA(i, y, rampColor(normalize(float64(depth), cmin, cmax)))
		}
	}

	if opts.Scale > 1 {
		scaled := image.NewNRGBA(image.Rect(0, 0, nLon*opts.Scale, nLat*opts.Scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return scaled, nil
	}
	return img, nil
}

// ClampDepth applies an "ok interval" to a coverage image in place:
// covered cells shallower than min are raised to min, cells deeper than
// max are lowered to max. Uncovered cells stay zero.
func ClampDepth(img [][]int32, min, max int32) {
	for _, row := range img {
		for i, depth := range row {
			switch {
			case depth == 0:
			case depth < min:
				row[i] = min
			case depth > max:
				row[i] = max
			}
		}
	}
}

// WritePNG encodes the image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG renders a coverage result and writes it to a file.
func SavePNG(path string, res *model.CoverageResult, opts Options) error {
	img, err := Heatmap(res, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// depthRange finds the nonzero depth span of the image. A fully
// uncovered image maps everything to the bottom of the ramp.
func depthRange(img [][]int32) (min, max float64) {
	first := true
	for _, row := range img {
		for _, depth := range row {
			if depth == 0 {
				continue
			}
			d := float64(depth)
			if first {
				min, max = d, d
				first = false
				continue
			}
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
	}
	return min, max
}

func normalize(v, min, max float64) float64 {
	if max <= min {
		return 1
	}
	t := (v - min) / (max - min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// rampColor linearly interpolates the colour ramp at t in [0, 1].
func rampColor(t float64) color.NRGBA {
	if t <= 0 {
		return rampStops[0]
	}
	if t >= 1 {
		return rampStops[len(rampStops)-1]
	}
	pos := t * float64(len(rampStops)-1)
	i := int(pos)
	frac := pos - float64(i)

	a, b := rampStops[i], rampStops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*frac)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}
