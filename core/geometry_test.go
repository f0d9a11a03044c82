package core

import (
	"math"
	"math/rand"
	"testing"
)

const angTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestToVectorKnownDirections(t *testing.T) {
	cases := []struct {
		name string
		ang  Point
		want Vec3
	}{
		{"origin", Point{0, 0}, Vec3{1, 0, 0}},
		{"east", Point{90, 0}, Vec3{0, 1, 0}},
		{"north pole", Point{0, 90}, Vec3{0, 0, 1}},
		{"south pole", Point{0, -90}, Vec3{0, 0, -1}},
		{"antimeridian", Point{180, 0}, Vec3{-1, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToVector([]Point{tc.ang})[0]
			if !almostEqual(got.X, tc.want.X, angTol) ||
				!almostEqual(got.Y, tc.want.Y, angTol) ||
				!almostEqual(got.Z, tc.want.Z, angTol) {
				t.Fatalf("ToVector(%v) = %#v, want %#v", tc.ang, got, tc.want)
			}
		})
	}
}

func TestToVectorUnitNorm(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		ang := Point{Lon: rng.Float64()*360 - 180, Lat: rng.Float64()*180 - 90}
		v := ToVector([]Point{ang})[0]
		if !almostEqual(v.Norm(), 1, angTol) {
			t.Fatalf("ToVector(%v) has norm %v, want 1", ang, v.Norm())
		}
	}
}

func TestAngularRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		// Latitudes stay off the poles, where longitude is undefined.
		ang := Point{
			Lon: rng.Float64()*359.8 - 179.9,
			Lat: rng.Float64()*179.8 - 89.9,
		}
		back := ToAngular(ToVector([]Point{ang}))[0]
		if !almostEqual(back.Lon, ang.Lon, angTol) || !almostEqual(back.Lat, ang.Lat, angTol) {
			t.Fatalf("round trip of %v gave %v", ang, back)
		}
	}
}

func TestToAngularNormalizesInput(t *testing.T) {
	// A non-unit vector along +Y should still come out as (90, 0).
	got := ToAngular([]Vec3{{X: 0, Y: 5, Z: 0}})[0]
	if !almostEqual(got.Lon, 90, angTol) || !almostEqual(got.Lat, 0, angTol) {
		t.Fatalf("ToAngular scaled +Y = %v, want (90, 0)", got)
	}
}

func TestRotationMatrixIsProperRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		lon := rng.Float64()*360 - 180
		lat := rng.Float64()*180 - 90
		r := RotationMatrix(lon, lat)

		// R·Rᵗ must be the identity.
		p := r.Mul(r.Transpose())
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				want := 0.0
				if a == b {
					want = 1.0
				}
				if !almostEqual(p[a][b], want, angTol) {
					t.Fatalf("R·Rᵗ[%d][%d] = %v at (%v, %v)", a, b, p[a][b], lon, lat)
				}
			}
		}

		if det := det3(r); !almostEqual(det, 1, angTol) {
			t.Fatalf("det(R) = %v at (%v, %v), want 1", det, lon, lat)
		}
	}
}

func det3(m Mat3) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func TestRotationMatrixMovesOriginToTarget(t *testing.T) {
	cases := []Point{
		{0, 0},
		{30, 60},
		{-120, -45},
		{179, 89},
	}
	for _, target := range cases {
		got := RotateTo(target.Lon, target.Lat, []Point{{0, 0}})[0]
		if !almostEqual(got.Lon, target.Lon, angTol) || !almostEqual(got.Lat, target.Lat, angTol) {
			t.Fatalf("RotateTo(%v, %v, origin) = %v", target.Lon, target.Lat, got)
		}
	}
}

func TestRotateToIdentityAtOrigin(t *testing.T) {
	poly := []Point{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}, {-1, -1}}
	got := RotateTo(0, 0, poly)
	for i := range poly {
		if !almostEqual(got[i].Lon, poly[i].Lon, angTol) || !almostEqual(got[i].Lat, poly[i].Lat, angTol) {
			t.Fatalf("identity rotation moved vertex %d: %v -> %v", i, poly[i], got[i])
		}
	}
}

func TestRotateToPreservesShape(t *testing.T) {
	// Rigid rotation preserves the angular separation of any vertex pair.
	// The closing vertex repeats the first; pairing a vertex with its own
	// duplicate evaluates acos at the ill-conditioned end of its domain,
	// so only distinct vertices are compared.
	poly := []Point{{-2, -1}, {2, -1}, {2, 1}, {-2, 1}, {-2, -1}}
	placed := RotateTo(100, 75, poly)

	orig := ToVector(poly)
	moved := ToVector(placed)
	for i := 0; i < len(poly)-1; i++ {
		for j := i + 1; j < len(poly)-1; j++ {
			a := math.Acos(clampUnit(orig[i].Dot(orig[j])))
			b := math.Acos(clampUnit(moved[i].Dot(moved[j])))
			if !almostEqual(a, b, 1e-9) {
				t.Fatalf("separation %d-%d changed: %v -> %v", i, j, a, b)
			}
		}
	}

	// Identical inputs rotate to bit-identical outputs, so the closing
	// vertex stays coincident with the first.
	if moved[0] != moved[len(moved)-1] {
		t.Fatalf("closing vertex diverged: %v vs %v", moved[0], moved[len(moved)-1])
	}
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
