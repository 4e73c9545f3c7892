// seehuhn.de/go/pline - polylines with arc segments
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pline

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pline/spatial"
)

// ErrTooFewVertices is returned by operations which need at least one
// segment.
var ErrTooFewVertices = errors.New("pline: fewer than two vertices")

// WindingRule selects how a renderer decides which points lie inside a
// closed polyline. It has no influence on the geometry.
type WindingRule int

// These are the supported winding rules.
const (
	EvenOdd WindingRule = iota
	NonZero
)

func (w WindingRule) String() string {
	switch w {
	case EvenOdd:
		return "even-odd"
	case NonZero:
		return "non-zero"
	default:
		return fmt.Sprintf("WindingRule(%d)", int(w))
	}
}

// Polyline is a sequence of line and arc segments.
//
// A polyline is built by appending vertices and should be treated as
// read-only once it is passed to geometry algorithms.
type Polyline struct {
	vertices []Vertex
	closed   bool
	winding  WindingRule
}

// New returns a polyline with the given vertices.
func New(closed bool, vs ...Vertex) *Polyline {
	return &Polyline{
		vertices: slices.Clone(vs),
		closed:   closed,
	}
}

// AddVertex appends a vertex to the polyline.
func (p *Polyline) AddVertex(x, y, bulge float64) {
	p.vertices = append(p.vertices, Vertex{X: x, Y: y, Bulge: bulge})
}

// Add appends a vertex to the polyline.
func (p *Polyline) Add(v Vertex) {
	p.vertices = append(p.vertices, v)
}

// PopBack removes the last vertex. The second return value is false if the
// polyline was empty.
func (p *Polyline) PopBack() (Vertex, bool) {
	n := len(p.vertices)
	if n == 0 {
		return Vertex{}, false
	}
	v := p.vertices[n-1]
	p.vertices = p.vertices[:n-1]
	return v, true
}

// Len returns the number of vertices.
func (p *Polyline) Len() int {
	return len(p.vertices)
}

// Vertex returns the vertex with index i.
func (p *Polyline) Vertex(i int) Vertex {
	return p.vertices[i]
}

// LastVertex returns the last vertex. The polyline must not be empty.
func (p *Polyline) LastVertex() Vertex {
	return p.vertices[len(p.vertices)-1]
}

// SetBulge changes the bulge of vertex i.
func (p *Polyline) SetBulge(i int, bulge float64) {
	p.vertices[i].Bulge = bulge
}

// Vertices returns a copy of the vertex list.
func (p *Polyline) Vertices() []Vertex {
	return slices.Clone(p.vertices)
}

// IsClosed reports whether the polyline has a closing segment from the last
// vertex back to the first.
func (p *Polyline) IsClosed() bool {
	return p.closed
}

// SetClosed changes whether the polyline is closed.
func (p *Polyline) SetClosed(closed bool) {
	p.closed = closed
}

// WindingRule returns the winding rule of the polyline.
func (p *Polyline) WindingRule() WindingRule {
	return p.winding
}

// SetWindingRule changes the winding rule of the polyline.
func (p *Polyline) SetWindingRule(w WindingRule) {
	p.winding = w
}

// Clone returns a deep copy of the polyline.
func (p *Polyline) Clone() *Polyline {
	return &Polyline{
		vertices: slices.Clone(p.vertices),
		closed:   p.closed,
		winding:  p.winding,
	}
}

// SegmentCount returns the number of segments.
func (p *Polyline) SegmentCount() int {
	n := len(p.vertices)
	switch {
	case n < 2:
		return 0
	case p.closed:
		return n
	default:
		return n - 1
	}
}

// SegIndices returns the vertex indices of segment k.
//
// For a closed polyline with n vertices, segment 0 is the closing segment
// (n-1, 0) and segment k > 0 is (k-1, k). For an open polyline, segment k
// is (k, k+1). This order is used consistently, for example by the spatial
// index built by [CreateApproxSpatialIndex].
func (p *Polyline) SegIndices(k int) (i, j int) {
	if p.closed {
		if k == 0 {
			return len(p.vertices) - 1, 0
		}
		return k - 1, k
	}
	return k, k + 1
}

// VisitSegIndices calls visit for every segment in order. Iteration stops
// early if visit returns false.
func (p *Polyline) VisitSegIndices(visit func(i, j int) bool) {
	for k := range p.SegmentCount() {
		if !visit(p.SegIndices(k)) {
			return
		}
	}
}

// Segment returns segment k.
func (p *Polyline) Segment(k int) Segment {
	i, j := p.SegIndices(k)
	return SegmentOf(p.vertices[i], p.vertices[j])
}

// Segments iterates over the segments of the polyline, in the order given by
// [Polyline.SegIndices].
func (p *Polyline) Segments() iter.Seq2[int, Segment] {
	return func(yield func(int, Segment) bool) {
		for k := range p.SegmentCount() {
			if !yield(k, p.Segment(k)) {
				return
			}
		}
	}
}

// CreateApproxSpatialIndex returns an index containing the approximate
// bounding box of every segment of p. Item k of the index is segment k.
func CreateApproxSpatialIndex(p *Polyline) (*spatial.StaticIndex, error) {
	if len(p.vertices) < 2 {
		return nil, fmt.Errorf("spatial index: %w", ErrTooFewVertices)
	}
	idx, err := spatial.New(p.SegmentCount())
	if err != nil {
		return nil, err
	}
	for k := range p.SegmentCount() {
		i, j := p.SegIndices(k)
		box := FastApproxBoundingBox(p.vertices[i], p.vertices[j])
		if _, err := idx.AddRect(box); err != nil {
			return nil, err
		}
	}
	if err := idx.Finish(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Bounds returns the smallest axis-aligned box containing the polyline.
// The result is the zero rectangle for an empty polyline.
func (p *Polyline) Bounds() rect.Rect {
	if len(p.vertices) == 0 {
		return rect.Rect{}
	}
	v0 := p.vertices[0]
	box := rect.Rect{LLx: v0.X, LLy: v0.Y, URx: v0.X, URy: v0.Y}
	for _, s := range p.Segments() {
		sb := SegmentBounds(s)
		box.LLx = min(box.LLx, sb.LLx)
		box.LLy = min(box.LLy, sb.LLy)
		box.URx = max(box.URx, sb.URx)
		box.URy = max(box.URy, sb.URy)
	}
	return box
}

// Length returns the total arc length of all segments.
func (p *Polyline) Length() float64 {
	var total float64
	for _, s := range p.Segments() {
		total += s.Length()
	}
	return total
}

// Area returns the signed area enclosed by a closed polyline. The area is
// positive if the polyline runs counter-clockwise. Open polylines have
// area zero.
func (p *Polyline) Area() float64 {
	if !p.closed {
		return 0
	}
	var area float64
	for _, s := range p.Segments() {
		a, b := s.Start(), s.End()
		area += (a.X*b.Y - b.X*a.Y) / 2
		if arc, ok := s.(Arc); ok {
			// circular segment between chord and arc
			area += arc.Radius * arc.Radius / 2 * (arc.Sweep - math.Sin(arc.Sweep))
		}
	}
	return area
}

// Orientation describes the direction in which a closed polyline runs.
type Orientation int

// These are the possible orientations.
const (
	Degenerate Orientation = iota
	CounterClockwise
	Clockwise
)

func (o Orientation) String() string {
	switch o {
	case CounterClockwise:
		return "ccw"
	case Clockwise:
		return "cw"
	default:
		return "degenerate"
	}
}

// Orientation returns the orientation of a closed polyline, as determined
// by the sign of its area.
func (p *Polyline) Orientation() Orientation {
	a := p.Area()
	switch {
	case a > 0:
		return CounterClockwise
	case a < 0:
		return Clockwise
	default:
		return Degenerate
	}
}
