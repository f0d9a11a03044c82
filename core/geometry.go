package core

import "math"

// Point is a sky direction in angular coordinates, degrees. Lon is
// longitude-like (RA), Lat is latitude-like (Dec). Polygon vertices and
// grid pixel centres use the same representation.
type Point struct {
	Lon float64
	Lat float64
}

// Vec3 is the Cartesian unit-vector representation of a sky direction.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Mat3 is a 3x3 rotation matrix in row-major order.
type Mat3 [3][3]float64

// Apply returns m·v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix. For a pure rotation this is
// the inverse.
func (m Mat3) Transpose() Mat3 {
	var t Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Mul returns the matrix product m·other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var p Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				p[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return p
}

// ToVector converts angular coordinates (degrees) to Cartesian unit
// vectors: colatitude theta = 90° - lat, azimuth phi = lon.
func ToVector(ang []Point) []Vec3 {
	vecs := make([]Vec3, len(ang))
	for i, a := range ang {
		theta := math.Pi/2 - a.Lat*math.Pi/180
		phi := a.Lon * math.Pi / 180
		st, ct := math.Sin(theta), math.Cos(theta)
		sp, cp := math.Sin(phi), math.Cos(phi)
		vecs[i] = Vec3{X: st * cp, Y: st * sp, Z: ct}
	}
	return vecs
}

// ToAngular converts Cartesian vectors back to angular coordinates in
// degrees. Non-unit input is normalized. At the exact poles longitude is
// undefined and comes out as zero (atan2 of a zero vector).
func ToAngular(vecs []Vec3) []Point {
	ang := make([]Point, len(vecs))
	for i, v := range vecs {
		lon := math.Atan2(v.Y, v.X) * 180 / math.Pi
		r := v.Norm()
		c := v.Z / r
		lat := 90 - math.Acos(c)*180/math.Pi
		ang[i] = Point{Lon: lon, Lat: lat}
	}
	return ang
}

// RotationMatrix returns the rotation taking the tangent-frame origin
// (lon=0, lat=0) to the point at (lon, lat): a tilt about the Y axis by
// lat composed with a spin about the Z axis by lon, R = Rz(lon)·Ry(lat).
// The result is orthogonal with determinant +1.
func RotationMatrix(lonDeg, latDeg float64) Mat3 {
	cLon, sLon := math.Cos(lonDeg*math.Pi/180), math.Sin(lonDeg*math.Pi/180)
	cLat, sLat := math.Cos(latDeg*math.Pi/180), math.Sin(latDeg*math.Pi/180)

	rY := Mat3{
		{cLat, 0, -sLat},
		{0, 1, 0},
		{sLat, 0, cLat},
	}
	rZ := Mat3{
		{cLon, -sLon, 0},
		{sLon, cLon, 0},
		{0, 0, 1},
	}
	return rZ.Mul(rY)
}

// RotateTo rigidly rotates the angular points onto the sky position
// (lon, lat): convert to vectors, apply RotationMatrix, convert back.
// Rigid rotation keeps the shape correct near the poles and across the
// longitude wrap, unlike a planar offset.
func RotateTo(lonDeg, latDeg float64, pts []Point) []Point {
	r := RotationMatrix(lonDeg, latDeg)
	vecs := ToVector(pts)
	for i, v := range vecs {
		vecs[i] = r.Apply(v)
	}
	return ToAngular(vecs)
}
