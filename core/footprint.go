package core

import "github.com/surveyfoundry/skycoverage/model"

// PlacePolygons rotates the footprint template onto every target position
// and returns one placed polygon per target, in target order. The template
// is defined in the instrument's local tangent frame, centred on
// (lon=0, lat=0), and is never mutated: each placement owns its vertices.
func PlacePolygons(targets []model.Target, template Polygon) []Polygon {
	placed := make([]Polygon, len(targets))
	for i, t := range targets {
		placed[i] = Polygon(RotateTo(t.RA, t.Dec, template))
	}
	return placed
}
