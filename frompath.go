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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// DefaultFlatness is the flatness used by [FromPath] when a non-positive
// value is given.
const DefaultFlatness = 0.01

// FromPath converts a geom path into polylines, one per subpath.
//
// Lines become straight segments. Quadratic and cubic Bézier curves are
// replaced by straight segments, such that the distance between curve and
// polyline is at most flatness. Subpaths ending in a Close command give
// closed polylines. Subpaths consisting of a single point are dropped.
func FromPath(p *path.Data, flatness float64) []*Polyline {
	if flatness <= 0 {
		flatness = DefaultFlatness
	}

	var res []*Polyline
	var cur *Polyline
	var current vec.Vec2

	finish := func() {
		if cur != nil && cur.Len() >= 2 {
			res = append(res, cur)
		}
		cur = nil
	}
	lineTo := func(_, to vec.Vec2) {
		if cur.LastVertex().Pos() != to {
			cur.Add(VertexAt(to, 0))
		}
	}

	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish()
			current = p.Coords[coordIdx]
			cur = New(false, VertexAt(current, 0))
			coordIdx++

		case path.CmdLineTo:
			if cur == nil {
				cur = New(false, VertexAt(current, 0))
			}
			lineTo(current, p.Coords[coordIdx])
			current = p.Coords[coordIdx]
			coordIdx++

		case path.CmdQuadTo:
			if cur == nil {
				cur = New(false, VertexAt(current, 0))
			}
			flattenQuadratic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], flatness, lineTo)
			current = p.Coords[coordIdx+1]
			coordIdx += 2

		case path.CmdCubeTo:
			if cur == nil {
				cur = New(false, VertexAt(current, 0))
			}
			flattenCubic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2], flatness, lineTo)
			current = p.Coords[coordIdx+2]
			coordIdx += 3

		case path.CmdClose:
			if cur == nil {
				continue
			}
			start := cur.Vertex(0).Pos()
			if cur.Len() > 1 && cur.LastVertex().Pos() == start {
				cur.PopBack()
			}
			cur.SetClosed(true)
			current = start
			finish()
		}
	}
	finish()
	return res
}

// flattenQuadratic calls emit for each line segment of the flattened curve.
func flattenQuadratic(p0, p1, p2 vec.Vec2, flatness float64, emit func(from, to vec.Vec2)) {
	// e = (P0 - 2*P1 + P2) / 4 bounds the distance to the chord
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)

	n := 1
	if errLen := e.Length(); errLen > flatness {
		n = int(math.Ceil(math.Sqrt(errLen / flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		if i == n {
			pt = p2
		}
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic calls emit for each line segment of the flattened curve.
// The number of segments is given by Wang's formula.
func flattenCubic(p0, p1, p2, p3 vec.Vec2, flatness float64, emit func(from, to vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		nFloat := math.Sqrt(3 * m / (4 * flatness))
		if nFloat > 1 {
			n = int(math.Ceil(nFloat))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t))
		if i == n {
			pt = p3
		}
		emit(prev, pt)
		prev = pt
	}
}
