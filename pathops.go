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
	"iter"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// OpKind identifies the type of a [PathOp].
type OpKind uint8

// These are the drawing operations produced by [Polyline.PathOps].
const (
	OpMoveTo OpKind = iota
	OpLineTo
	OpArcTo
	OpClose
)

func (k OpKind) String() string {
	switch k {
	case OpMoveTo:
		return "moveTo"
	case OpLineTo:
		return "lineTo"
	case OpArcTo:
		return "arcTo"
	case OpClose:
		return "closePath"
	default:
		return "unknown"
	}
}

// PathOp is a single drawing operation.
//
// X and Y give the end point of MoveTo, LineTo and ArcTo operations. The
// remaining fields are only used for ArcTo and follow the conventions of
// the SVG elliptical arc command: Sweep is true if the arc runs in the
// direction of increasing angle (counter-clockwise with the y-axis
// pointing up).
type PathOp struct {
	Kind     OpKind
	X, Y     float64
	RX, RY   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
}

// PathOps iterates over the drawing operations for the polyline, after
// transforming all points by m.
//
// Arcs remain circular only if m is a similarity transform; for other
// matrices the radius is scaled by the square root of the determinant.
// Closed polylines start at the last vertex, so that the closing segment is
// drawn first.
//
// For arcs, LargeArc is set when the absolute bulge exceeds 1, i.e. when the
// arc sweeps more than half a circle. Sweep is set for positive bulges,
// which run counter-clockwise in the y-up coordinates of the polyline. If m
// has a negative determinant, Sweep is inverted. A matrix which flips the y
// axis, as needed for SVG output, therefore clears Sweep for positive bulges.
func (p *Polyline) PathOps(m matrix.Matrix) iter.Seq[PathOp] {
	return func(yield func(PathOp) bool) {
		n := len(p.vertices)
		if n == 0 {
			return
		}

		det := m[0]*m[3] - m[1]*m[2]
		scale := math.Sqrt(math.Abs(det))
		mirror := det < 0

		if n == 1 {
			q := applyMatrix(m, p.vertices[0].Pos())
			yield(PathOp{Kind: OpMoveTo, X: q.X, Y: q.Y})
			return
		}

		for k := range p.SegmentCount() {
			i, j := p.SegIndices(k)
			v1, v2 := p.vertices[i], p.vertices[j]
			if k == 0 {
				q := applyMatrix(m, v1.Pos())
				if !yield(PathOp{Kind: OpMoveTo, X: q.X, Y: q.Y}) {
					return
				}
			}

			q := applyMatrix(m, v2.Pos())
			op := PathOp{Kind: OpLineTo, X: q.X, Y: q.Y}
			if v1.Bulge != 0 && v1.Pos() != v2.Pos() {
				r, _ := ArcRadiusAndCenter(v1, v2)
				op.Kind = OpArcTo
				op.RX = r * scale
				op.RY = op.RX
				op.LargeArc = math.Abs(v1.Bulge) > 1
				op.Sweep = (v1.Bulge > 0) != mirror
			}
			if !yield(op) {
				return
			}
		}

		if p.closed {
			yield(PathOp{Kind: OpClose})
		}
	}
}

// Path converts the polyline into a geom path. Arcs are represented by
// cubic Bézier curves, each spanning at most a quarter circle.
func (p *Polyline) Path() *path.Data {
	res := &path.Data{}
	if len(p.vertices) == 0 {
		return res
	}
	if len(p.vertices) == 1 {
		return res.MoveTo(p.vertices[0].Pos())
	}

	for k, s := range p.Segments() {
		if k == 0 {
			res = res.MoveTo(s.Start())
		}
		switch s := s.(type) {
		case Line:
			res = res.LineTo(s.B)
		case Arc:
			res = appendArc(res, s)
		}
	}
	if p.closed {
		res = res.Close()
	}
	return res
}

// appendArc approximates the arc by cubic Bézier curves.
func appendArc(res *path.Data, a Arc) *path.Data {
	pieces := max(int(math.Ceil(math.Abs(a.Sweep)/(math.Pi/2)-1e-9)), 1)
	delta := a.Sweep / float64(pieces)
	k := 4.0 / 3.0 * math.Tan(delta/4) * a.Radius

	a0 := a.StartAngle
	p0 := a.A
	for i := range pieces {
		a1 := a0 + delta
		p3 := a.PointAt(a1)
		if i == pieces-1 {
			p3 = a.B
		}
		s0, c0 := math.Sincos(a0)
		s1, c1 := math.Sincos(a1)
		ctrl1 := vec.Vec2{X: p0.X - k*s0, Y: p0.Y + k*c0}
		ctrl2 := vec.Vec2{X: p3.X + k*s1, Y: p3.Y - k*c1}
		res = res.CubeTo(ctrl1, ctrl2, p3)
		a0 = a1
		p0 = p3
	}
	return res
}

// Transform returns a copy of the polyline with all vertices mapped by m.
//
// The matrix must be a similarity transform (rotation, uniform scaling,
// reflection and translation), since other affine maps turn circular arcs
// into elliptical ones. Bulge values change sign if m is a reflection.
func (p *Polyline) Transform(m matrix.Matrix) *Polyline {
	det := m[0]*m[3] - m[1]*m[2]
	res := p.Clone()
	for i, v := range res.vertices {
		q := applyMatrix(m, v.Pos())
		b := v.Bulge
		if det < 0 {
			b = -b
		}
		res.vertices[i] = Vertex{X: q.X, Y: q.Y, Bulge: b}
	}
	return res
}

func applyMatrix(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}
