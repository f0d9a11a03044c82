// Command skycoverage computes the sky coverage of a pointing list for
// an instrument footprint and writes the result as JSON, optionally
// rendering a PNG heatmap.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/surveyfoundry/skycoverage/core"
	"github.com/surveyfoundry/skycoverage/internal/logging"
	"github.com/surveyfoundry/skycoverage/model"
	"github.com/surveyfoundry/skycoverage/pointing"
	"github.com/surveyfoundry/skycoverage/render"
)

func main() {
	targetsPath := flag.String("targets", "", "Path to a JSON file of targets with RA and Dec fields (degrees)")
	focalPlanePath := flag.String("focalplane", "", "Path to a JSON file of [lon, lat] vertices enclosing the focal plane at RA=0, Dec=0")
	sliceExpr := flag.String("slice", "", "Slice of targets in the form [start]:[stop]:[step]")
	proposalID := flag.Int("proposal", 0, "Keep only targets with this proposal ID (0 keeps all)")
	extentExpr := flag.String("extent", "", "Extent of the output grid: lonmin,latmin,lonmax,latmax (degrees)")
	sizeExpr := flag.String("size", "", "Size of the output grid: nlon,nlat")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of accumulation workers")
	chunkSize := flag.Int("chunk", 0, "Targets per placement chunk (0 picks a default)")
	outputPath := flag.String("output", "", "Path of the JSON output file")
	pngPath := flag.String("png", "", "Path of an optional PNG heatmap")
	pngScale := flag.Int("png-scale", 1, "Integer upscaling factor for the PNG heatmap")
	climExpr := flag.String("clim", "", "Colour limits of the heatmap: cmin,cmax")
	okExpr := flag.String("ok", "", "Interval of acceptable depths: min,max; depths outside are clamped to the nearer bound")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if *targetsPath == "" || *focalPlanePath == "" {
		fatal(log, "both --targets and --focalplane are required")
	}

	template, err := pointing.LoadFocalPlane(*focalPlanePath)
	if err != nil {
		fatal(log, "load focal plane: %v", err)
	}
	targets, err := pointing.LoadTargets(*targetsPath)
	if err != nil {
		fatal(log, "load targets: %v", err)
	}

	if *proposalID != 0 {
		targets = pointing.FilterProposal(targets, *proposalID)
	}
	if *sliceExpr != "" {
		sl, err := pointing.ParseSlice(*sliceExpr)
		if err != nil {
			fatal(log, "parse --slice: %v", err)
		}
		targets = sl.Apply(targets)
	}

	extent, err := parseExtent(*extentExpr)
	if err != nil {
		fatal(log, "parse --extent: %v", err)
	}
	size, err := parseSize(*sizeExpr)
	if err != nil {
		fatal(log, "parse --size: %v", err)
	}

	log.Info(ctx, "computing coverage",
		logging.Int("targets", len(targets)),
		logging.Int("vertices", len(template)),
		logging.Int("pixels", size.Pixels()),
	)

	engine := core.NewEngine(
		core.WithWorkers(*workers),
		core.WithChunkSize(*chunkSize),
		core.WithLogger(log),
	)
	result, err := engine.Map(ctx, model.GridSpec{Extent: extent, Size: size}, targets, template)
	if err != nil {
		fatal(log, "compute coverage: %v", err)
	}

	if *okExpr != "" {
		lo, hi, err := parsePair(*okExpr)
		if err != nil {
			fatal(log, "parse --ok: %v", err)
		}
		render.ClampDepth(result.Image, int32(lo), int32(hi))
	}

	log.Info(ctx, "coverage computed",
		logging.Int("targets", result.NumTargets),
		logging.Int("max_depth", int(result.MaxDepth())),
	)

	if *outputPath != "" {
		if err := pointing.SaveResult(*outputPath, result); err != nil {
			fatal(log, "write output: %v", err)
		}
		log.Info(ctx, "wrote coverage result", logging.String("path", *outputPath))
	}

	if *pngPath != "" {
		opts := render.Options{Scale: *pngScale}
		if *climExpr != "" {
			opts.CMin, opts.CMax, err = parsePair(*climExpr)
			if err != nil {
				fatal(log, "parse --clim: %v", err)
			}
		}
		if err := render.SavePNG(*pngPath, result, opts); err != nil {
			fatal(log, "write heatmap: %v", err)
		}
		log.Info(ctx, "wrote heatmap", logging.String("path", *pngPath))
	}
}

// parseExtent reads lonmin,latmin,lonmax,latmax. Longitudes above 180
// are folded into the negative half so extents expressed in 0..360
// convention line up with the signed pixel grid.
func parseExtent(s string) (model.Extent, error) {
	parts, err := splitFloats(s, 4)
	if err != nil {
		return model.Extent{}, err
	}
	lonMin, latMin, lonMax, latMax := parts[0], parts[1], parts[2], parts[3]
	if lonMin > 180 {
		lonMin -= 360
	}
	if lonMax > 180 {
		lonMax -= 360
	}
	return model.Extent{LonMin: lonMin, LatMin: latMin, LonMax: lonMax, LatMax: latMax}, nil
}

func parseSize(s string) (model.GridSize, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2 {
		return model.GridSize{}, fmt.Errorf("want nlon,nlat, got %q", s)
	}
	nLon, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return model.GridSize{}, fmt.Errorf("parse nlon: %w", err)
	}
	nLat, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return model.GridSize{}, fmt.Errorf("parse nlat: %w", err)
	}
	if nLon < 0 || nLat < 0 {
		return model.GridSize{}, fmt.Errorf("size must be non-negative, got %dx%d", nLon, nLat)
	}
	return model.GridSize{NLon: nLon, NLat: nLat}, nil
}

func parsePair(s string) (float64, float64, error) {
	parts, err := splitFloats(s, 2)
	if err != nil {
		return 0, 0, err
	}
	return parts[0], parts[1], nil
}

func splitFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %q", n, s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func fatal(log logging.Logger, format string, args ...any) {
	log.Error(context.Background(), fmt.Sprintf(format, args...))
	os.Exit(1)
}
