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

package offset

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pline"
)

// rawSegment is a segment of the original polyline, moved sideways by the
// offset distance.
type rawSegment struct {
	v1, v2 pline.Vertex

	// origV2 is the end point of the original segment. Joins at convex
	// corners are arcs around this point.
	origV2 vec.Vec2

	// collapsed is set for arcs whose radius shrank to zero. These are
	// turned into lines.
	collapsed bool
}

// untrimmedSegments offsets every segment of p independently. Segment i
// starts at vertex i.
func (o *Offsetter) untrimmedSegments(p *pline.Polyline, d float64) []rawSegment {
	n := p.Len()
	count := n - 1
	if p.IsClosed() {
		count = n
	}
	res := make([]rawSegment, 0, count)
	for i := range count {
		res = append(res, o.offsetSegment(p.Vertex(i), p.Vertex((i+1)%n), d))
	}
	return res
}

func (o *Offsetter) offsetSegment(v1, v2 pline.Vertex, d float64) rawSegment {
	seg := rawSegment{origV2: v2.Pos()}
	switch s := pline.SegmentOf(v1, v2).(type) {
	case pline.Line:
		e := s.B.Sub(s.A)
		var shift vec.Vec2
		if l := e.Length(); l > 0 {
			shift = vec.Vec2{X: -e.Y, Y: e.X}.Mul(d / l)
		}
		seg.v1 = pline.VertexAt(s.A.Add(shift), 0)
		seg.v2 = pline.VertexAt(s.B.Add(shift), v2.Bulge)

	case pline.Arc:
		// The left side of a counter-clockwise arc faces the centre.
		offs := -d
		if s.Sweep < 0 {
			offs = d
		}
		dir1 := s.A.Sub(s.Center).Mul(1 / s.Radius)
		dir2 := s.B.Sub(s.Center).Mul(1 / s.Radius)
		seg.v1 = pline.VertexAt(s.A.Add(dir1.Mul(offs)), v1.Bulge)
		seg.v2 = pline.VertexAt(s.B.Add(dir2.Mul(offs)), v2.Bulge)
		if s.Radius+offs < o.PosEqualEps {
			seg.collapsed = true
			seg.v1.Bulge = 0
			o.Stats.CollapsedArcs++
		}
	}
	return seg
}

// addOrReplace appends v to vs, unless the last vertex already is at the
// position of v. In this case only the bulge is updated.
func addOrReplace(vs []pline.Vertex, v pline.Vertex, eps float64) []pline.Vertex {
	if n := len(vs); n > 0 && fuzzyEqual(vs[n-1].Pos(), v.Pos(), eps) {
		vs[n-1].Bulge = v.Bulge
		return vs
	}
	return append(vs, v)
}

// joiner connects consecutive raw offset segments.
type joiner struct {
	eps    float64 // intersection tolerance
	posEps float64

	// arcsCCW gives the direction of the arcs inserted at convex corners.
	arcsCCW bool
}

func (j *joiner) add(vs []pline.Vertex, v pline.Vertex) []pline.Vertex {
	return addOrReplace(vs, v, j.posEps)
}

// join appends the vertices which lead from s1 to s2. The last vertex of
// vs must be the start of s1.
func (j *joiner) join(s1, s2 rawSegment, vs []pline.Vertex) []pline.Vertex {
	seg1 := pline.SegmentOf(s1.v1, s1.v2)
	seg2 := pline.SegmentOf(s2.v1, s2.v2)
	switch a := seg1.(type) {
	case pline.Line:
		switch b := seg2.(type) {
		case pline.Line:
			return j.lineToLine(s1, s2, a, b, vs)
		case pline.Arc:
			return j.lineToArc(s1, s2, a, b, vs)
		}
	case pline.Arc:
		switch b := seg2.(type) {
		case pline.Line:
			return j.arcToLine(s1, s2, a, b, vs)
		case pline.Arc:
			return j.arcToArc(s1, s2, a, b, vs)
		}
	}
	panic("unreachable")
}

// connect inserts an arc around the original corner point, from the end of
// s1 to the start of s2.
func (j *joiner) connect(s1, s2 rawSegment, vs []pline.Vertex) []pline.Vertex {
	center := s1.origV2
	sp := s1.v2.Pos()
	ep := s2.v1.Pos()
	sweep := math.Abs(pline.DeltaAngle(pline.Angle(center, sp), pline.Angle(center, ep)))
	if !j.arcsCCW {
		sweep = -sweep
	}
	vs = j.add(vs, pline.VertexAt(sp, pline.BulgeForSweep(sweep)))
	return j.add(vs, s2.v1)
}

// straight connects the end of s1 to the start of s2 by a line.
func (j *joiner) straight(s1, s2 rawSegment, vs []pline.Vertex) []pline.Vertex {
	vs = j.add(vs, pline.VertexAt(s1.v2.Pos(), 0))
	return j.add(vs, s2.v1)
}

func (j *joiner) lineToLine(s1, s2 rawSegment, a, b pline.Line, vs []pline.Vertex) []pline.Vertex {
	if s1.collapsed || s2.collapsed {
		return j.connect(s1, s2, vs)
	}

	li := intrLineLine(a.A, a.B, b.A, b.B, j.eps)
	switch li.kind {
	case lineTrue:
		return j.add(vs, pline.VertexAt(li.point, 0))
	case lineCoincident:
		return j.add(vs, pline.VertexAt(a.B, 0))
	case lineNone:
		// parallel lines at a reversal of direction
		return j.connect(s1, s2, vs)
	default: // lineFalse
		if li.t0 > 1 && (li.t1 < 0 || li.t1 > 1) {
			return j.connect(s1, s2, vs)
		}
		return j.straight(s1, s2, vs)
	}
}

func (j *joiner) lineToArc(s1, s2 rawSegment, a pline.Line, b pline.Arc, vs []pline.Vertex) []pline.Vertex {
	process := func(t float64) []pline.Vertex {
		p := a.PointAt(t)
		onLine := t+j.eps >= 0 && t <= 1+j.eps
		onArc := b.WithinSweep(p, j.eps)
		switch {
		case onLine && onArc:
			return j.add(vs, pline.VertexAt(p, remainingBulge(b, p, s2.v1.Bulge)))
		case t > 1 && !onArc:
			return j.connect(s1, s2, vs)
		case s1.collapsed:
			return j.connect(s1, s2, vs)
		default:
			return j.straight(s1, s2, vs)
		}
	}

	ci := intrLineCircle(a.A, a.B, b.Center, b.Radius, j.eps)
	switch ci.n {
	case 0:
		return j.connect(s1, s2, vs)
	case 1:
		return process(ci.t0)
	default:
		// use the intersection closest to the original corner
		d0 := distSq(a.PointAt(ci.t0), s1.origV2)
		d1 := distSq(a.PointAt(ci.t1), s1.origV2)
		if d0 < d1 {
			return process(ci.t0)
		}
		return process(ci.t1)
	}
}

func (j *joiner) arcToLine(s1, s2 rawSegment, a pline.Arc, b pline.Line, vs []pline.Vertex) []pline.Vertex {
	process := func(t float64) []pline.Vertex {
		p := b.PointAt(t)
		onLine := t+j.eps >= 0 && t <= 1+j.eps
		onArc := a.WithinSweep(p, j.eps)
		if onLine && onArc {
			j.trimLast(vs, s1.v2.Pos(), p)
			return j.add(vs, pline.VertexAt(p, 0))
		}
		return j.connect(s1, s2, vs)
	}

	ci := intrLineCircle(b.A, b.B, a.Center, a.Radius, j.eps)
	switch ci.n {
	case 0:
		return j.connect(s1, s2, vs)
	case 1:
		return process(ci.t0)
	default:
		orig := s1.origV2
		if s2.collapsed {
			orig = s2.v1.Pos()
		}
		d0 := distSq(b.PointAt(ci.t0), orig)
		d1 := distSq(b.PointAt(ci.t1), orig)
		if d0 < d1 {
			return process(ci.t0)
		}
		return process(ci.t1)
	}
}

func (j *joiner) arcToArc(s1, s2 rawSegment, a, b pline.Arc, vs []pline.Vertex) []pline.Vertex {
	process := func(p vec.Vec2) []pline.Vertex {
		if a.WithinSweep(p, j.eps) && b.WithinSweep(p, j.eps) {
			j.trimLast(vs, s1.v2.Pos(), p)
			return j.add(vs, pline.VertexAt(p, remainingBulge(b, p, s2.v1.Bulge)))
		}
		return j.connect(s1, s2, vs)
	}

	ci := intrCircleCircle(a.Center, a.Radius, b.Center, b.Radius, j.eps)
	switch ci.kind {
	case circlesOne:
		return process(ci.p1)
	case circlesTwo:
		d1 := distSq(ci.p1, s1.origV2)
		d2 := distSq(ci.p2, s1.origV2)
		switch {
		case math.Abs(d1-d2) < j.eps:
			// the arcs meet at a tangent point
			return j.connect(s1, s2, vs)
		case d1 < d2:
			return process(ci.p1)
		default:
			return process(ci.p2)
		}
	case circlesCoincident:
		return j.add(vs, s2.v1)
	default:
		return j.connect(s1, s2, vs)
	}
}

// trimLast shortens the arc which starts at the last vertex of vs and ends
// at end, so that it ends at p instead.
func (j *joiner) trimLast(vs []pline.Vertex, end, p vec.Vec2) {
	last := &vs[len(vs)-1]
	if last.Bulge == 0 || fuzzyEqual(last.Pos(), end, j.posEps) {
		return
	}
	arc, ok := pline.SegmentOf(*last, pline.VertexAt(end, 0)).(pline.Arc)
	if !ok {
		return
	}
	first, _ := arc.Split(p)
	if first.Sweep != 0 {
		last.Bulge = first.Bulge
	}
}

// remainingBulge returns the bulge of the part of a which starts at p.
// If p is the end point of a, the bulge fallback is returned.
func remainingBulge(a pline.Arc, p vec.Vec2, fallback float64) float64 {
	_, rest := a.Split(p)
	if rest.Sweep == 0 {
		return fallback
	}
	return rest.Bulge
}

func distSq(a, b vec.Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// rawOffset builds the raw offset curve of p: all segments moved by d and
// joined at the corners. The result may intersect itself.
func (o *Offsetter) rawOffset(p *pline.Polyline, d float64) *pline.Polyline {
	segs := o.untrimmedSegments(p, d)
	if len(segs) == 0 || len(segs) == 1 && segs[0].collapsed {
		return pline.New(p.IsClosed())
	}

	j := &joiner{
		eps:     o.IntersectEps,
		posEps:  o.PosEqualEps,
		arcsCCW: d < 0,
	}

	vs := make([]pline.Vertex, 1, p.Len()+2)
	vs[0] = segs[0].v1
	if len(segs) > 1 {
		vs = j.join(segs[0], segs[1], vs)
	}
	firstReplaced := len(vs) == 1
	for i := 2; i < len(segs); i++ {
		vs = j.join(segs[i-1], segs[i], vs)
	}

	if p.IsClosed() && len(vs) > 1 {
		// Join the last segment to the first one. The join may move the
		// start of the first segment.
		closing := []pline.Vertex{vs[len(vs)-1]}
		closing = j.join(segs[len(segs)-1], segs[0], closing)
		vs[len(vs)-1] = closing[0]
		vs = append(vs, closing[1:]...)
		vs = vs[:len(vs)-1]

		if !firstReplaced {
			start := closing[len(closing)-1].Pos()
			v0 := vs[0]
			b := v0.Bulge
			if b != 0 && len(vs) > 1 {
				if arc, ok := pline.SegmentOf(v0, vs[1]).(pline.Arc); ok {
					b = remainingBulge(arc, start, b)
				}
			}
			vs[0] = pline.VertexAt(start, b)
		}

		if len(vs) > 1 && fuzzyEqual(vs[0].Pos(), vs[1].Pos(), o.PosEqualEps) {
			vs = vs[1:]
		}
	} else {
		vs = addOrReplace(vs, segs[len(segs)-1].v2, o.PosEqualEps)
	}

	if len(vs) == 1 {
		vs = nil
	}
	return pline.New(p.IsClosed(), vs...)
}
