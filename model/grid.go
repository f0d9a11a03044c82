package model

// Extent is an axis-aligned rectangular zone on the sky, in degrees.
// Longitudes may use either the (-180, 180] or the [0, 360) convention as
// long as the caller is consistent across template, targets, and extent.
type Extent struct {
	LonMin float64 `json:"lon_min"`
	LatMin float64 `json:"lat_min"`
	LonMax float64 `json:"lon_max"`
	LatMax float64 `json:"lat_max"`
}

// GridSize is the pixel resolution of the output map.
type GridSize struct {
	NLon int `json:"n_lon"`
	NLat int `json:"n_lat"`
}

// Pixels returns the total number of pixel centres the grid generates.
func (s GridSize) Pixels() int {
	if s.NLon <= 0 || s.NLat <= 0 {
		return 0
	}
	return s.NLon * s.NLat
}

// GridSpec fully describes the output grid.
type GridSpec struct {
	Extent Extent   `json:"extent"`
	Size   GridSize `json:"size"`
}
