package core

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for malformed footprint geometry. These indicate an
// upstream data bug, so callers fail fast rather than compute a silent
// all-zero coverage.
var (
	ErrDegeneratePolygon = errors.New("polygon has fewer than 3 distinct vertices")
	ErrOpenPolygon       = errors.New("polygon is not closed (first and last vertex differ)")
	ErrNonFiniteVertex   = errors.New("polygon vertex has a non-finite coordinate")
)

// Polygon is an ordered sequence of angular vertices describing a closed
// curve in a planar (lon, lat) frame. A valid polygon is explicitly closed:
// the first vertex is repeated as the last one.
type Polygon []Point

// IsClosed reports whether the first and last vertices coincide exactly.
func (p Polygon) IsClosed() bool {
	return len(p) >= 2 && p[0] == p[len(p)-1]
}

// Close returns a closed copy of the polygon, appending the first vertex
// if the closure is missing. An already closed polygon is copied as-is.
func (p Polygon) Close() Polygon {
	out := make(Polygon, len(p), len(p)+1)
	copy(out, p)
	if !p.IsClosed() && len(p) > 0 {
		out = append(out, p[0])
	}
	return out
}

// Validate checks the invariants the membership test relies on: explicit
// closure, at least 3 distinct vertices, and finite coordinates.
func (p Polygon) Validate() error {
	for i, v := range p {
		if !isFinite(v.Lon) || !isFinite(v.Lat) {
			return fmt.Errorf("vertex %d (%v, %v): %w", i, v.Lon, v.Lat, ErrNonFiniteVertex)
		}
	}
	if !p.IsClosed() {
		return ErrOpenPolygon
	}
	if p.distinctVertices() < 3 {
		return ErrDegeneratePolygon
	}
	return nil
}

// distinctVertices counts unique vertices, ignoring the closing repeat.
func (p Polygon) distinctVertices() int {
	seen := make(map[Point]struct{}, len(p))
	for _, v := range p[:len(p)-1] {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
