package core

import (
	"fmt"

	"github.com/surveyfoundry/skycoverage/model"
)

// MakePixels generates the pixel-centre points of a rectangular grid:
// size.NLon uniformly spaced longitude samples crossed with size.NLat
// latitude samples, both spans inclusive of their endpoints.
//
// Enumeration is longitude-major: pixel[i*NLat+j] = (lon[i], lat[j]).
// ReshapeImage inverts exactly this order.
func MakePixels(extent model.Extent, size model.GridSize) []Point {
	lons := linspace(extent.LonMin, extent.LonMax, size.NLon)
	lats := linspace(extent.LatMin, extent.LatMax, size.NLat)

	pixels := make([]Point, 0, len(lons)*len(lats))
	for _, lon := range lons {
		for _, lat := range lats {
			pixels = append(pixels, Point{Lon: lon, Lat: lat})
		}
	}
	return pixels
}

// ReshapeImage folds a flat coverage vector back into a 2-D image and
// computes pixel-edge coordinate axes: the centre grid shifted outward by
// half a cell on each side, yielding NLon+1 and NLat+1 samples. Edge axes
// let renderers draw cells without resampling.
//
// The image has one row per latitude sample: image[j][i] corresponds to
// pixel (lon[i], lat[j]), inverting MakePixels' enumeration.
func ReshapeImage(coverage []int32, extent model.Extent, size model.GridSize) (lonEdges, latEdges []float64, image [][]int32, err error) {
	if len(coverage) != size.Pixels() {
		return nil, nil, nil, fmt.Errorf("coverage length %d does not match grid size %dx%d",
			len(coverage), size.NLon, size.NLat)
	}
	if size.Pixels() == 0 {
		return nil, nil, nil, nil
	}

	dLon := cellWidth(extent.LonMin, extent.LonMax, size.NLon)
	dLat := cellWidth(extent.LatMin, extent.LatMax, size.NLat)
	lonEdges = linspace(extent.LonMin-dLon/2, extent.LonMax+dLon/2, size.NLon+1)
	latEdges = linspace(extent.LatMin-dLat/2, extent.LatMax+dLat/2, size.NLat+1)

	image = make([][]int32, size.NLat)
	for j := range image {
		row := make([]int32, size.NLon)
		for i := range row {
			row[i] = coverage[i*size.NLat+j]
		}
		image[j] = row
	}
	return lonEdges, latEdges, image, nil
}

// cellWidth is the centre-to-centre spacing of an n-sample inclusive
// span. A single-sample axis has no spacing; its edges collapse onto the
// centre.
func cellWidth(min, max float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return (max - min) / float64(n-1)
}

// linspace returns n evenly spaced samples over [min, max], endpoints
// included, matching numpy.linspace.
func linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = min
		return out
	}
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	// Pin the endpoint to avoid accumulated rounding.
	out[n-1] = max
	return out
}
