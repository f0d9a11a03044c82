package pointing

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/surveyfoundry/skycoverage/core"
	"github.com/surveyfoundry/skycoverage/model"
)

func TestReadTargets(t *testing.T) {
	in := `[
		{"RA": 10.5, "Dec": -3.25},
		{"RA": 180.0, "Dec": 45.0, "proposalId": 3},
		{"RA": 359.9, "Dec": -89.5, "proposalId": 1}
	]`
	targets, err := ReadTargets(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTargets: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("got %d targets, want 3", len(targets))
	}
	if targets[0].RA != 10.5 || targets[0].Dec != -3.25 {
		t.Fatalf("first target = %+v", targets[0])
	}
	if targets[1].ProposalID != 3 {
		t.Fatalf("second target proposal = %d, want 3", targets[1].ProposalID)
	}
}

func TestReadTargetsMalformed(t *testing.T) {
	if _, err := ReadTargets(strings.NewReader(`{"RA": 1}`)); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestFilterProposal(t *testing.T) {
	targets := []model.Target{
		{RA: 1, ProposalID: 3},
		{RA: 2, ProposalID: 1},
		{RA: 3, ProposalID: 3},
	}
	got := FilterProposal(targets, 3)
	if len(got) != 2 || got[0].RA != 1 || got[1].RA != 3 {
		t.Fatalf("FilterProposal = %+v", got)
	}
}

func TestReadFocalPlaneClosesPolygon(t *testing.T) {
	in := `[[-1, -1], [1, -1], [1, 1], [-1, 1]]`
	poly, err := ReadFocalPlane(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFocalPlane: %v", err)
	}
	if len(poly) != 5 {
		t.Fatalf("got %d vertices, want 5 (closed)", len(poly))
	}
	if !poly.IsClosed() {
		t.Fatalf("polygon not closed: %v", poly)
	}
}

func TestReadFocalPlaneAlreadyClosed(t *testing.T) {
	in := `[[-1, -1], [1, -1], [0, 1], [-1, -1]]`
	poly, err := ReadFocalPlane(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFocalPlane: %v", err)
	}
	if len(poly) != 4 {
		t.Fatalf("got %d vertices, want 4", len(poly))
	}
}

func TestReadFocalPlaneDegenerate(t *testing.T) {
	in := `[[0, 0], [1, 1]]`
	_, err := ReadFocalPlane(strings.NewReader(in))
	if !errors.Is(err, core.ErrDegeneratePolygon) {
		t.Fatalf("degenerate focal plane: %v, want %v", err, core.ErrDegeneratePolygon)
	}
}

func TestReadFocalPlaneBadVertex(t *testing.T) {
	in := `[[0, 0, 0], [1, 1], [0, 1]]`
	if _, err := ReadFocalPlane(strings.NewReader(in)); err == nil {
		t.Fatalf("expected error for 3-coordinate vertex")
	}
}

func TestResultRoundTrip(t *testing.T) {
	res := &model.CoverageResult{
		Extent:     model.Extent{LonMin: -2, LatMin: -2, LonMax: 2, LatMax: 2},
		Size:       model.GridSize{NLon: 2, NLat: 2},
		Coverage:   []int32{0, 1, 2, 1},
		LonEdges:   []float64{-4, 0, 4},
		LatEdges:   []float64{-4, 0, 4},
		Image:      [][]int32{{0, 2}, {1, 1}},
		NumTargets: 2,
	}

	var buf bytes.Buffer
	if err := WriteResult(&buf, res); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	back, err := ReadResult(&buf)
	if err != nil {
		t.Fatalf("ReadResult: %v", err)
	}
	if back.Size != res.Size || back.Extent != res.Extent || back.NumTargets != 2 {
		t.Fatalf("round trip changed header: %+v", back)
	}
	for i := range res.Coverage {
		if back.Coverage[i] != res.Coverage[i] {
			t.Fatalf("coverage[%d] = %d, want %d", i, back.Coverage[i], res.Coverage[i])
		}
	}
	if back.MaxDepth() != 2 {
		t.Fatalf("MaxDepth = %d, want 2", back.MaxDepth())
	}
}
