package model

// CoverageResult is the full output of one coverage computation: the flat
// per-pixel counts in grid enumeration order, the reshaped image, and the
// pixel-edge axes used for edge-aligned rendering. It is the JSON document
// handed to serialization and plotting collaborators.
type CoverageResult struct {
	Extent Extent   `json:"extent"`
	Size   GridSize `json:"size"`

	// Coverage holds one count per pixel centre, in the same enumeration
	// order the grid builder uses (longitude-major).
	Coverage []int32 `json:"coverage"`

	// LonEdges and LatEdges are pixel-edge coordinates: NLon+1 and NLat+1
	// samples, the centre grid shifted outward by half a cell.
	LonEdges []float64 `json:"lon_edges"`
	LatEdges []float64 `json:"lat_edges"`

	// Image is Coverage reshaped to [NLat][NLon]: one row per latitude
	// sample, matching the edge axes above.
	Image [][]int32 `json:"image"`

	// NumTargets is the number of pointings that contributed.
	NumTargets int `json:"num_targets"`
}

// MaxDepth returns the deepest coverage count in the map, zero for an
// empty map.
func (r *CoverageResult) MaxDepth() int32 {
	var max int32
	for _, c := range r.Coverage {
		if c > max {
			max = c
		}
	}
	return max
}

// DepthHistogram counts pixels per coverage depth. Index d holds the
// number of pixels observed exactly d times, from 0 through MaxDepth.
func (r *CoverageResult) DepthHistogram() []int {
	hist := make([]int, r.MaxDepth()+1)
	for _, c := range r.Coverage {
		hist[c]++
	}
	return hist
}
