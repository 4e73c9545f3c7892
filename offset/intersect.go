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

func perpDot(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func fuzzyEqual(a, b vec.Vec2, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// lineIntrKind classifies the intersection of two line segments.
type lineIntrKind int

const (
	lineNone       lineIntrKind = iota // parallel and not collinear
	lineTrue                           // single point on both segments
	lineFalse                          // the lines cross outside a segment
	lineCoincident                     // collinear and overlapping
)

// lineIntr describes the intersection of two line segments p and q.
//
// For lineTrue and lineFalse, t0 and t1 give the parameters of the
// crossing point along p and q. For lineCoincident, point and point2 are
// the end points of the shared stretch.
type lineIntr struct {
	kind   lineIntrKind
	t0, t1 float64
	point  vec.Vec2
	point2 vec.Vec2
}

func intrLineLine(p0, p1, q0, q1 vec.Vec2, eps float64) lineIntr {
	u := p1.Sub(p0)
	v := q1.Sub(q0)
	w := p0.Sub(q0)
	lu, lv := u.Length(), v.Length()

	d := perpDot(u, v)
	if math.Abs(d) > eps*lu*lv {
		t0 := perpDot(v, w) / d
		t1 := perpDot(u, w) / d
		res := lineIntr{t0: t0, t1: t1, point: p0.Add(u.Mul(t0))}
		if t0+eps < 0 || t0 > 1+eps || t1+eps < 0 || t1 > 1+eps {
			res.kind = lineFalse
		} else {
			res.kind = lineTrue
		}
		return res
	}

	// parallel, collinear, or degenerate
	pIsPoint := lu < eps
	qIsPoint := lv < eps
	switch {
	case pIsPoint && qIsPoint:
		if fuzzyEqual(p0, q0, eps) {
			return lineIntr{kind: lineTrue, point: p0}
		}
		return lineIntr{kind: lineNone}
	case qIsPoint:
		if pline.SegmentOf(pline.VertexAt(p0, 0), pline.VertexAt(p1, 0)).ClosestPoint(q0).Sub(q0).Length() < eps {
			return lineIntr{kind: lineTrue, point: q0}
		}
		return lineIntr{kind: lineNone}
	case pIsPoint:
		if pline.SegmentOf(pline.VertexAt(q0, 0), pline.VertexAt(q1, 0)).ClosestPoint(p0).Sub(p0).Length() < eps {
			return lineIntr{kind: lineTrue, point: p0}
		}
		return lineIntr{kind: lineNone}
	}

	if math.Abs(perpDot(v, w))/lv > eps {
		return lineIntr{kind: lineNone}
	}

	// collinear: parameters of the end points of p along q
	lv2 := lv * lv
	t0 := w.Dot(v) / lv2
	t1 := p1.Sub(q0).Dot(v) / lv2
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 > 1+eps || t1 < -eps {
		return lineIntr{kind: lineNone}
	}
	t0 = max(t0, 0)
	t1 = min(t1, 1)
	res := lineIntr{
		t0:     t0,
		t1:     t1,
		point:  q0.Add(v.Mul(t0)),
		point2: q0.Add(v.Mul(t1)),
	}
	if (t1-t0)*lv < eps {
		res.kind = lineTrue // segments meet end to end
	} else {
		res.kind = lineCoincident
	}
	return res
}

// circleIntr gives the parameters of up to two points where the line
// through p0 and p1 meets a circle.
type circleIntr struct {
	n      int
	t0, t1 float64
}

// intrLineCircle intersects the line p0 + t(p1-p0) with a circle.
// A line which passes the circle at a distance of less than eps is
// treated as a tangent and gives a single solution.
func intrLineCircle(p0, p1, center vec.Vec2, r, eps float64) circleIntr {
	dir := p1.Sub(p0)
	a := dir.Dot(dir)
	if a < eps*eps {
		if math.Abs(p0.Sub(center).Length()-r) < eps {
			return circleIntr{n: 1}
		}
		return circleIntr{}
	}

	tc := center.Sub(p0).Dot(dir) / a
	foot := p0.Add(dir.Mul(tc))
	h := center.Sub(foot).Length()
	switch {
	case math.Abs(h-r) < eps:
		return circleIntr{n: 1, t0: tc}
	case h > r:
		return circleIntr{}
	}
	s := math.Sqrt(r*r-h*h) / math.Sqrt(a)
	return circleIntr{n: 2, t0: tc - s, t1: tc + s}
}

type circlesKind int

const (
	circlesNone circlesKind = iota
	circlesOne
	circlesTwo
	circlesCoincident
)

type circlesIntr struct {
	kind   circlesKind
	p1, p2 vec.Vec2
}

// intrCircleCircle intersects two circles. Two intersection points closer
// than eps are merged into one.
func intrCircleCircle(c1 vec.Vec2, r1 float64, c2 vec.Vec2, r2, eps float64) circlesIntr {
	cv := c2.Sub(c1)
	d2 := cv.Dot(cv)
	d := math.Sqrt(d2)
	if d < eps {
		if math.Abs(r1-r2) < eps {
			return circlesIntr{kind: circlesCoincident}
		}
		return circlesIntr{kind: circlesNone}
	}
	if d > r1+r2+eps || d+eps < math.Abs(r1-r2) {
		return circlesIntr{kind: circlesNone}
	}

	a := (r1*r1 - r2*r2 + d2) / (2 * d)
	mid := c1.Add(cv.Mul(a / d))
	diff := r1*r1 - a*a
	if diff <= 0 {
		return circlesIntr{kind: circlesOne, p1: mid}
	}
	h := math.Sqrt(diff)
	if h < eps {
		return circlesIntr{kind: circlesOne, p1: mid}
	}
	hOverD := h / d
	return circlesIntr{
		kind: circlesTwo,
		p1:   vec.Vec2{X: mid.X + hOverD*cv.Y, Y: mid.Y - hOverD*cv.X},
		p2:   vec.Vec2{X: mid.X - hOverD*cv.Y, Y: mid.Y + hOverD*cv.X},
	}
}

type segIntrKind int

const (
	segNone segIntrKind = iota
	segTangent
	segOne
	segTwo
	segOverlap
)

func (k segIntrKind) String() string {
	switch k {
	case segNone:
		return "none"
	case segTangent:
		return "tangent"
	case segOne:
		return "one"
	case segTwo:
		return "two"
	case segOverlap:
		return "overlap"
	default:
		return "invalid"
	}
}

// segIntr lists the intersection points of two polyline segments. For
// overlapping segments the points are the end points of the shared parts.
type segIntr struct {
	kind segIntrKind
	n    int
	pts  [4]vec.Vec2
}

func (s *segIntr) add(p vec.Vec2) {
	s.pts[s.n] = p
	s.n++
}

func (s *segIntr) points() []vec.Vec2 {
	return s.pts[:s.n]
}

// intrSegs intersects the segment from v1 to v2 with the segment from u1
// to u2.
func intrSegs(v1, v2, u1, u2 pline.Vertex, eps float64) segIntr {
	s1 := pline.SegmentOf(v1, v2)
	s2 := pline.SegmentOf(u1, u2)

	var res segIntr
	switch a := s1.(type) {
	case pline.Line:
		switch b := s2.(type) {
		case pline.Line:
			li := intrLineLine(a.A, a.B, b.A, b.B, eps)
			switch li.kind {
			case lineTrue:
				res.kind = segOne
				res.add(li.point)
			case lineCoincident:
				res.kind = segOverlap
				res.add(li.point)
				res.add(li.point2)
			}
		case pline.Arc:
			intrLineArc(&res, a, b, eps)
		}
	case pline.Arc:
		switch b := s2.(type) {
		case pline.Line:
			intrLineArc(&res, b, a, eps)
		case pline.Arc:
			intrArcArc(&res, a, b, eps)
		}
	}
	return res
}

func intrLineArc(res *segIntr, l pline.Line, a pline.Arc, eps float64) {
	ci := intrLineCircle(l.A, l.B, a.Center, a.Radius, eps)
	inSweep := func(t float64) bool {
		if t+eps < 0 || t > 1+eps {
			return false
		}
		return a.WithinSweep(l.PointAt(t), eps)
	}

	switch ci.n {
	case 1:
		if inSweep(ci.t0) {
			res.kind = segTangent
			res.add(l.PointAt(ci.t0))
		}
	case 2:
		if inSweep(ci.t0) {
			res.add(l.PointAt(ci.t0))
		}
		if inSweep(ci.t1) {
			res.add(l.PointAt(ci.t1))
		}
		switch res.n {
		case 1:
			res.kind = segOne
		case 2:
			res.kind = segTwo
		}
	}
}

func intrArcArc(res *segIntr, a1, a2 pline.Arc, eps float64) {
	ci := intrCircleCircle(a1.Center, a1.Radius, a2.Center, a2.Radius, eps)
	inBoth := func(p vec.Vec2) bool {
		return a1.WithinSweep(p, eps) && a2.WithinSweep(p, eps)
	}

	switch ci.kind {
	case circlesOne:
		if inBoth(ci.p1) {
			res.kind = segTangent
			res.add(ci.p1)
		}
	case circlesTwo:
		if inBoth(ci.p1) {
			res.add(ci.p1)
		}
		if inBoth(ci.p2) {
			res.add(ci.p2)
		}
		switch res.n {
		case 1:
			res.kind = segOne
		case 2:
			res.kind = segTwo
		}
	case circlesCoincident:
		arcOverlap(res, a1, a2, eps)
	}
}

// arcOverlap handles two arcs on the same circle.
func arcOverlap(res *segIntr, a1, a2 pline.Arc, eps float64) {
	addUnique := func(p vec.Vec2) {
		for _, q := range res.points() {
			if fuzzyEqual(p, q, eps) {
				return
			}
		}
		res.add(p)
	}
	if a2.WithinSweep(a1.A, eps) {
		addUnique(a1.A)
	}
	if a2.WithinSweep(a1.B, eps) {
		addUnique(a1.B)
	}
	if a1.WithinSweep(a2.A, eps) {
		addUnique(a2.A)
	}
	if a1.WithinSweep(a2.B, eps) {
		addUnique(a2.B)
	}

	switch res.n {
	case 0:
		return
	case 1:
		res.kind = segOne
	case 2:
		// Either the arcs share the stretch between the two points, or
		// they only touch at both ends.
		r0 := sweepOffset(a1, res.pts[0])
		r1 := sweepOffset(a1, res.pts[1])
		m := a1.PointAt(a1.StartAngle + math.Copysign((r0+r1)/2, a1.Sweep))
		if a2.WithinSweep(m, eps) {
			res.kind = segOverlap
		} else {
			res.kind = segTwo
		}
	default:
		res.kind = segOverlap
	}
}

// sweepOffset returns the unsigned angle from the start of a to the
// direction of p, measured in the direction of the arc.
func sweepOffset(a pline.Arc, p vec.Vec2) float64 {
	angle := pline.Angle(a.Center, p)
	var r float64
	if a.Sweep >= 0 {
		r = pline.NormalizeAngle(angle - a.StartAngle)
	} else {
		r = pline.NormalizeAngle(a.StartAngle - angle)
	}
	if sweep := math.Abs(a.Sweep); r > sweep && 2*math.Pi-r < r-sweep {
		r = 0 // just before the start
	}
	return r
}
