package core

// isLeft returns twice the signed area of the triangle (p0, p1, p2):
// positive when p2 lies left of the directed line p0→p1, negative when
// right, zero when collinear.
func isLeft(p0, p1, p2 Point) float64 {
	return (p1.Lon-p0.Lon)*(p2.Lat-p0.Lat) - (p2.Lon-p0.Lon)*(p1.Lat-p0.Lat)
}

// WindingNumber returns the signed number of times the closed polygon
// winds around p. The polygon must satisfy v[0] == v[n-1]; Validate
// enforces this upstream. A nonzero result means p is enclosed, which
// holds for clockwise, counter-clockwise, and self-intersecting polygons
// alike (the reason for winding number over ray-crossing parity).
//
// Edge crossings use strict/non-strict inequalities exactly as in the
// classic crossing formulation: an upward edge counts when v[i].Lat <=
// p.Lat < v[i+1].Lat and p is strictly left of it, a downward edge when
// v[i+1].Lat <= p.Lat < v[i].Lat and p is strictly right. Points exactly
// on an edge therefore classify as inside or outside depending on edge
// direction; that asymmetry is deliberate and kept for bit-for-bit
// stable output.
func WindingNumber(p Point, poly Polygon) int {
	wn := 0
	n := len(poly) - 1
	for i := 0; i < n; i++ {
		if poly[i].Lat <= p.Lat {
			if poly[i+1].Lat > p.Lat && isLeft(poly[i], poly[i+1], p) > 0 {
				wn++
			}
		} else if poly[i+1].Lat <= p.Lat && isLeft(poly[i], poly[i+1], p) < 0 {
			wn--
		}
	}
	return wn
}

// Membership evaluates WindingNumber for every point against one polygon
// and maps nonzero to 1, zero to 0. Each point is independent, so the
// loop vectorizes trivially and callers are free to shard it.
func Membership(points []Point, poly Polygon) []int32 {
	out := make([]int32, len(points))
	for i, p := range points {
		if WindingNumber(p, poly) != 0 {
			out[i] = 1
		}
	}
	return out
}
