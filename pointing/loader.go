// Package pointing reads the survey inputs the coverage engine consumes:
// pointing (target) lists in the Euclid/SIM JSON format and focal-plane
// footprint polygons, plus the slice expressions used to select a subset
// of pointings.
package pointing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/surveyfoundry/skycoverage/core"
	"github.com/surveyfoundry/skycoverage/model"
)

// ReadTargets decodes a pointing list: a JSON array of objects with RA
// and Dec fields in degrees. No dedup or range validation is applied;
// the list is passed through in file order.
func ReadTargets(r io.Reader) ([]model.Target, error) {
	var targets []model.Target
	dec := json.NewDecoder(r)
	if err := dec.Decode(&targets); err != nil {
		return nil, fmt.Errorf("decode targets: %w", err)
	}
	return targets, nil
}

// LoadTargets reads a pointing list from a file.
func LoadTargets(path string) ([]model.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets: %w", err)
	}
	defer f.Close()

	targets, err := ReadTargets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return targets, nil
}

// FilterProposal keeps only the pointings tagged with the given proposal
// ID, preserving order.
func FilterProposal(targets []model.Target, proposalID int) []model.Target {
	out := make([]model.Target, 0, len(targets))
	for _, t := range targets {
		if t.ProposalID == proposalID {
			out = append(out, t)
		}
	}
	return out
}

// ReadFocalPlane decodes a footprint template: a JSON array of [lon, lat]
// vertex pairs in the instrument's local tangent frame, centred on
// (lon=0, lat=0). The polygon is closed if the file leaves it open, then
// validated, so the engine can rely on the closure invariant.
func ReadFocalPlane(r io.Reader) (core.Polygon, error) {
	var vertices [][]float64
	dec := json.NewDecoder(r)
	if err := dec.Decode(&vertices); err != nil {
		return nil, fmt.Errorf("decode focal plane: %w", err)
	}

	poly := make(core.Polygon, 0, len(vertices))
	for i, v := range vertices {
		if len(v) != 2 {
			return nil, fmt.Errorf("focal plane vertex %d has %d coordinates, want 2", i, len(v))
		}
		poly = append(poly, core.Point{Lon: v[0], Lat: v[1]})
	}

	poly = poly.Close()
	if err := poly.Validate(); err != nil {
		return nil, fmt.Errorf("focal plane: %w", err)
	}
	return poly, nil
}

// LoadFocalPlane reads a footprint template from a file.
func LoadFocalPlane(path string) (core.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open focal plane: %w", err)
	}
	defer f.Close()

	poly, err := ReadFocalPlane(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return poly, nil
}
