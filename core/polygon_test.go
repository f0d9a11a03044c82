package core

import (
	"errors"
	"math"
	"testing"
)

func TestPolygonClose(t *testing.T) {
	open := Polygon{{-1, -1}, {1, -1}, {0, 1}}
	closed := open.Close()
	if len(closed) != 4 {
		t.Fatalf("closing a 3-vertex polygon gave %d vertices, want 4", len(closed))
	}
	if closed[0] != closed[3] {
		t.Fatalf("closed polygon endpoints differ: %v vs %v", closed[0], closed[3])
	}
	if len(open) != 3 {
		t.Fatalf("Close mutated its input: %v", open)
	}
}

func TestPolygonCloseAlreadyClosed(t *testing.T) {
	p := Polygon{{-1, -1}, {1, -1}, {0, 1}, {-1, -1}}
	got := p.Close()
	if len(got) != len(p) {
		t.Fatalf("re-closing a closed polygon changed length: %d -> %d", len(p), len(got))
	}
}

func TestPolygonValidate(t *testing.T) {
	cases := []struct {
		name    string
		poly    Polygon
		wantErr error
	}{
		{"valid triangle", Polygon{{-1, -1}, {1, -1}, {0, 1}, {-1, -1}}, nil},
		{"empty", Polygon{}, ErrOpenPolygon},
		{"open", Polygon{{-1, -1}, {1, -1}, {0, 1}}, ErrOpenPolygon},
		{"two distinct vertices", Polygon{{0, 0}, {1, 1}, {0, 0}}, ErrDegeneratePolygon},
		{"repeated vertex", Polygon{{0, 0}, {1, 1}, {1, 1}, {0, 0}}, ErrDegeneratePolygon},
		{"nan vertex", Polygon{{0, 0}, {math.NaN(), 1}, {1, 0}, {0, 0}}, ErrNonFiniteVertex},
		{"inf vertex", Polygon{{0, 0}, {math.Inf(1), 1}, {1, 0}, {0, 0}}, ErrNonFiniteVertex},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.poly.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
