// Package hexgrid wraps H3 cell handling: identifier validation, boundary
// polygons, bounding boxes and membership tests used by the hex witness graph.
package hexgrid

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// ErrInvalidCell is returned for identifiers that are not valid H3 cells.
var ErrInvalidCell = errors.New("invalid hex")

const latPadding = 0.05

var cellPattern = regexp.MustCompile(`^[0-9a-fA-F]{15,16}$`)

// Cell is a validated H3 cell together with its boundary polygon.
type Cell struct {
	id       h3.Cell
	polygon  orb.Polygon
	wrapsLon bool
	// pole is +1 or -1 when the cell contains the north or south pole.
	pole int
}

// BBox is a latitude/longitude bounding box in degrees. West is greater than
// East when the box crosses the antimeridian.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Parse validates the identifier and computes the cell boundary.
func Parse(id string) (Cell, error) {
	id = strings.TrimSpace(id)
	if !cellPattern.MatchString(id) {
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidCell, id)
	}
	cell := h3.Cell(h3.IndexFromString(id))
	if !cell.IsValid() {
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidCell, id)
	}

	boundary := cell.Boundary()
	ring := make(orb.Ring, 0, len(boundary)+1)
	minLon, maxLon := 180.0, -180.0
	for _, ll := range boundary {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
		if ll.Lng < minLon {
			minLon = ll.Lng
		}
		if ll.Lng > maxLon {
			maxLon = ll.Lng
		}
	}

	c := Cell{id: cell, pole: containedPole(cell)}
	// A ring circling a pole spans every longitude and cannot be unwrapped.
	c.wrapsLon = c.pole == 0 && maxLon-minLon > 180
	if c.wrapsLon {
		for i := range ring {
			ring[i][0] = unwrapLon(ring[i][0])
		}
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	c.polygon = orb.Polygon{ring}
	return c, nil
}

// String returns the canonical cell identifier.
func (c Cell) String() string {
	return c.id.String()
}

// Resolution returns the H3 resolution of the cell.
func (c Cell) Resolution() int {
	return c.id.Resolution()
}

// Center returns the cell centroid as latitude, longitude.
func (c Cell) Center() (float64, float64) {
	ll := c.id.LatLng()
	return ll.Lat, ll.Lng
}

// Boundary returns the closed boundary ring as [longitude, latitude] pairs.
// Longitudes of cells crossing the antimeridian are shifted into [0, 360).
func (c Cell) Boundary() [][2]float64 {
	if len(c.polygon) == 0 {
		return nil
	}
	out := make([][2]float64, len(c.polygon[0]))
	for i, p := range c.polygon[0] {
		out[i] = [2]float64{p[0], p[1]}
	}
	return out
}

// BBox returns the bounding box of the cell. Cells containing a pole extend
// to that pole across the full longitude range.
func (c Cell) BBox() BBox {
	b := c.polygon.Bound()
	// Edges are great-circle arcs that bow poleward of their vertices.
	pad := (b.Max[1] - b.Min[1]) * latPadding
	south := math.Max(b.Min[1]-pad, -90)
	north := math.Min(b.Max[1]+pad, 90)
	switch c.pole {
	case 1:
		return BBox{West: -180, South: south, East: 180, North: 90}
	case -1:
		return BBox{West: -180, South: -90, East: 180, North: north}
	}
	box := BBox{West: b.Min[0], South: south, East: b.Max[0], North: north}
	if c.wrapsLon {
		box.West = wrapLon(box.West)
		box.East = wrapLon(box.East)
	}
	return box
}

// Contains reports whether the location indexes to this cell at the cell's
// resolution.
func (c Cell) Contains(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 {
		return false
	}
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), c.id.Resolution()) == c.id
}

func containedPole(cell h3.Cell) int {
	res := cell.Resolution()
	switch cell {
	case h3.LatLngToCell(h3.NewLatLng(90, 0), res):
		return 1
	case h3.LatLngToCell(h3.NewLatLng(-90, 0), res):
		return -1
	}
	return 0
}

func unwrapLon(lon float64) float64 {
	if lon < 0 {
		return lon + 360
	}
	return lon
}

func wrapLon(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}
