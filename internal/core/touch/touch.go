// Package touch tracks active touch contacts across raw input updates.
//
// A Set is pure data: it never performs I/O and never fails. Raw updates
// are applied as whole snapshots of the contacts currently on the surface,
// mirroring how touch events report every active contact on each update.
package touch

import "math"

// ID identifies one contact for its whole lifetime.
type ID int64

// Point is a position in client coordinates.
type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns |q - p|.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Raw is one contact as reported by an input event.
type Raw struct {
	ID ID      `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Touch is the tracked record of one contact.
type Touch struct {
	ID       ID
	Origin   Point
	Current  Point
	Previous Point
}

func newTouch(r Raw) Touch {
	p := Point{X: r.X, Y: r.Y}
	return Touch{ID: r.ID, Origin: p, Current: p, Previous: p}
}

func (t *Touch) moveTo(p Point) {
	t.Previous = t.Current
	t.Current = p
}

// TravelDistance is the distance from the first contact position to the current one.
func (t Touch) TravelDistance() float64 {
	return t.Origin.Distance(t.Current)
}

// TravelDistanceFromPrevious is the distance covered by the latest update.
func (t Touch) TravelDistanceFromPrevious() float64 {
	return t.Previous.Distance(t.Current)
}
