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

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FastApproxBoundingBox returns a box which contains the segment from v1 to
// v2. The box may be larger than necessary and must only be used to rule
// out intersections.
//
// For arcs of at most a half circle, the box covers the rectangle formed by
// the chord and its translate by the sagitta. Larger arcs use the box of
// the full circle.
func FastApproxBoundingBox(v1, v2 Vertex) rect.Rect {
	box := pointsBox(v1.Pos(), v2.Pos())
	b := v1.Bulge
	switch {
	case b == 0:
		return box
	case math.Abs(b) <= 1:
		offsX := b * (v2.Y - v1.Y) / 2
		offsY := -b * (v2.X - v1.X) / 2
		extendBox(&box, vec.Vec2{X: v1.X + offsX, Y: v1.Y + offsY})
		extendBox(&box, vec.Vec2{X: v2.X + offsX, Y: v2.Y + offsY})
		return box
	default:
		r, cx, cy := ComputeCircle(v1.X, v1.Y, v2.X, v2.Y, b)
		return rect.Rect{LLx: cx - r, LLy: cy - r, URx: cx + r, URy: cy + r}
	}
}

// ExactBoundingBox returns the smallest axis-aligned box containing the
// segment from v1 to v2.
func ExactBoundingBox(v1, v2 Vertex) rect.Rect {
	return SegmentBounds(SegmentOf(v1, v2))
}

// SegmentBounds returns the smallest axis-aligned box containing s.
func SegmentBounds(s Segment) rect.Rect {
	box := pointsBox(s.Start(), s.End())
	arc, ok := s.(Arc)
	if !ok {
		return box
	}

	// Include every axis extremum of the circle which the arc passes.
	c, r := arc.Center, arc.Radius
	extrema := [4]vec.Vec2{
		{X: c.X + r, Y: c.Y},
		{X: c.X, Y: c.Y + r},
		{X: c.X - r, Y: c.Y},
		{X: c.X, Y: c.Y - r},
	}
	for k, p := range extrema {
		if arc.ContainsAngle(float64(k)*math.Pi/2, 0) {
			extendBox(&box, p)
		}
	}
	return box
}

// ExpandBox grows the box by d in every direction.
func ExpandBox(r rect.Rect, d float64) rect.Rect {
	return rect.Rect{LLx: r.LLx - d, LLy: r.LLy - d, URx: r.URx + d, URy: r.URy + d}
}

// BoxesIntersect reports whether two boxes overlap. Boxes which only touch
// along an edge count as overlapping.
func BoxesIntersect(a, b rect.Rect) bool {
	return a.LLx <= b.URx && b.LLx <= a.URx && a.LLy <= b.URy && b.LLy <= a.URy
}

// BoxContains reports whether the box r contains the point p.
func BoxContains(r rect.Rect, p vec.Vec2) bool {
	return p.X >= r.LLx && p.X <= r.URx && p.Y >= r.LLy && p.Y <= r.URy
}

func pointsBox(a, b vec.Vec2) rect.Rect {
	return rect.Rect{
		LLx: min(a.X, b.X),
		LLy: min(a.Y, b.Y),
		URx: max(a.X, b.X),
		URy: max(a.Y, b.Y),
	}
}

func extendBox(r *rect.Rect, p vec.Vec2) {
	r.LLx = min(r.LLx, p.X)
	r.LLy = min(r.LLy, p.Y)
	r.URx = max(r.URx, p.X)
	r.URy = max(r.URy, p.Y)
}
