package hexgrid

import (
	"errors"
	"testing"

	"github.com/uber/h3-go/v4"
)

const testCell = "862a84707ffffff"

func TestParse_RejectsMalformedIdentifiers(t *testing.T) {
	for _, id := range []string{"not a hex!", "", "862a84707fffff", "zz2a84707ffffff", "000000000000000"} {
		if _, err := Parse(id); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("Parse(%q): expected ErrInvalidCell, got %v", id, err)
		}
	}
}

func TestParse_ValidCell(t *testing.T) {
	cell, err := Parse(testCell)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cell.String() != testCell {
		t.Errorf("expected %s, got %s", testCell, cell.String())
	}
	if cell.Resolution() != 6 {
		t.Errorf("expected resolution 6, got %d", cell.Resolution())
	}

	ring := cell.Boundary()
	if len(ring) < 7 {
		t.Fatalf("expected closed hexagon ring, got %d points", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("expected ring to be closed")
	}
}

func TestCell_ContainsCenterNotFarPoint(t *testing.T) {
	cell, err := Parse(testCell)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lat, lon := cell.Center()
	if !cell.Contains(lat, lon) {
		t.Errorf("expected center (%f, %f) inside cell", lat, lon)
	}
	if cell.Contains(lat+1, lon+1) {
		t.Errorf("expected point one degree away to be outside cell")
	}
}

func TestCell_BBoxCoversBoundary(t *testing.T) {
	cell, err := Parse(testCell)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	box := cell.BBox()
	if box.South >= box.North || box.West >= box.East {
		t.Fatalf("degenerate bbox %+v", box)
	}
	for _, p := range cell.Boundary() {
		if p[0] < box.West || p[0] > box.East || p[1] < box.South || p[1] > box.North {
			t.Errorf("boundary point %v outside bbox %+v", p, box)
		}
	}
	lat, lon := cell.Center()
	if lat < box.South || lat > box.North || lon < box.West || lon > box.East {
		t.Errorf("center outside bbox %+v", box)
	}
}

func TestCell_PolarCellContainsPole(t *testing.T) {
	id := h3.LatLngToCell(h3.NewLatLng(78.22, 15.65), 0).String()
	if id != "8001fffffffffff" {
		t.Fatalf("expected Svalbard in 8001fffffffffff, got %s", id)
	}
	cell, err := Parse(id)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, p := range [][2]float64{{78.22, 15.65}, {90, 0}, {89.5, -120}} {
		if !cell.Contains(p[0], p[1]) {
			t.Errorf("expected (%g, %g) inside polar cell", p[0], p[1])
		}
	}
	if cell.Contains(0, 0) {
		t.Errorf("expected equator outside polar cell")
	}

	box := cell.BBox()
	if box.North != 90 || box.West != -180 || box.East != 180 {
		t.Fatalf("expected bbox to reach the pole over all longitudes, got %+v", box)
	}
	if box.South >= 78.22 {
		t.Errorf("expected bbox south below Svalbard, got %+v", box)
	}
}

func TestCell_FinePolarCell(t *testing.T) {
	for _, lat := range []float64{90, -90} {
		cell, err := Parse(h3.LatLngToCell(h3.NewLatLng(lat, 0), 3).String())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		clat, clon := cell.Center()
		if !cell.Contains(clat, clon) || !cell.Contains(lat, 45) {
			t.Errorf("expected center and pole inside cell %s", cell)
		}
		box := cell.BBox()
		if (lat > 0 && box.North != 90) || (lat < 0 && box.South != -90) {
			t.Errorf("expected bbox of %s to reach the pole, got %+v", cell, box)
		}
	}
}

func TestCell_AntimeridianCell(t *testing.T) {
	cell, err := Parse("859b5dc7fffffff")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	box := cell.BBox()
	if box.West <= box.East {
		t.Fatalf("expected bbox crossing the antimeridian, got %+v", box)
	}
	for _, p := range cell.Boundary() {
		if p[0] < 0 || p[0] >= 360 {
			t.Fatalf("expected shifted boundary longitudes, got %v", p)
		}
	}

	clat, clon := cell.Center()
	if !cell.Contains(clat, clon) {
		t.Fatalf("expected center inside cell")
	}

	// Sample the box on both sides of 180 degrees.
	const steps = 100
	east := box.East + 360
	var westSide, eastSide int
	for i := 0; i <= steps; i++ {
		lat := box.South + (box.North-box.South)*float64(i)/steps
		for j := 0; j <= steps; j++ {
			lon := box.West + (east-box.West)*float64(j)/steps
			if lon > 180 {
				lon -= 360
			}
			if !cell.Contains(lat, lon) {
				continue
			}
			if lon > 0 {
				westSide++
			} else {
				eastSide++
			}
		}
	}
	if westSide == 0 || eastSide == 0 {
		t.Fatalf("expected contained points on both sides of 180, got %d and %d", westSide, eastSide)
	}
	if cell.Contains(clat, clon+180) {
		t.Errorf("expected antipodal longitude outside cell")
	}
}
