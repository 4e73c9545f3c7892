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

	"seehuhn.de/go/geom/vec"
)

// Segment is a line or arc segment of a polyline.
// The concrete type is either [Line] or [Arc].
type Segment interface {
	// Start returns the first end point of the segment.
	Start() vec.Vec2

	// End returns the second end point of the segment.
	End() vec.Vec2

	// Length returns the arc length of the segment.
	Length() float64

	// Midpoint returns the point half-way along the segment.
	Midpoint() vec.Vec2

	// ClosestPoint returns the point on the segment closest to p.
	ClosestPoint(p vec.Vec2) vec.Vec2

	isSegment()
}

// Line is a straight segment from A to B.
type Line struct {
	A, B vec.Vec2
}

// Arc is a circular arc from A to B.
//
// Sweep is the signed sweep angle in radians: positive values run
// counter-clockwise. Bulge is the bulge value of the start vertex.
type Arc struct {
	A, B       vec.Vec2
	Center     vec.Vec2
	Radius     float64
	StartAngle float64
	Sweep      float64
	Bulge      float64
}

// SegmentOf returns the segment from v1 to v2, using the bulge of v1.
// Arcs with coincident end points are returned as zero-length lines.
func SegmentOf(v1, v2 Vertex) Segment {
	a, b := v1.Pos(), v2.Pos()
	if v1.Bulge == 0 || a == b {
		return Line{A: a, B: b}
	}
	r, c := ArcRadiusAndCenter(v1, v2)
	return Arc{
		A:          a,
		B:          b,
		Center:     c,
		Radius:     r,
		StartAngle: Angle(c, a),
		Sweep:      SweepForBulge(v1.Bulge),
		Bulge:      v1.Bulge,
	}
}

func (l Line) isSegment() {}

// Start implements the [Segment] interface.
func (l Line) Start() vec.Vec2 { return l.A }

// End implements the [Segment] interface.
func (l Line) End() vec.Vec2 { return l.B }

// Length implements the [Segment] interface.
func (l Line) Length() float64 {
	return l.B.Sub(l.A).Length()
}

// Midpoint implements the [Segment] interface.
func (l Line) Midpoint() vec.Vec2 {
	return l.PointAt(0.5)
}

// PointAt returns the point A + t(B-A).
func (l Line) PointAt(t float64) vec.Vec2 {
	return l.A.Add(l.B.Sub(l.A).Mul(t))
}

// ClosestPoint implements the [Segment] interface.
func (l Line) ClosestPoint(p vec.Vec2) vec.Vec2 {
	v := l.B.Sub(l.A)
	len2 := v.Dot(v)
	if len2 == 0 {
		return l.A
	}
	t := p.Sub(l.A).Dot(v) / len2
	switch {
	case t <= 0:
		return l.A
	case t >= 1:
		return l.B
	}
	return l.PointAt(t)
}

func (a Arc) isSegment() {}

// Start implements the [Segment] interface.
func (a Arc) Start() vec.Vec2 { return a.A }

// End implements the [Segment] interface.
func (a Arc) End() vec.Vec2 { return a.B }

// Length implements the [Segment] interface.
func (a Arc) Length() float64 {
	return a.Radius * math.Abs(a.Sweep)
}

// EndAngle returns the angle of B as seen from the centre.
// The result is StartAngle+Sweep, it is not normalised.
func (a Arc) EndAngle() float64 {
	return a.StartAngle + a.Sweep
}

// PointAt returns the point at the given angle on the circle of the arc.
func (a Arc) PointAt(angle float64) vec.Vec2 {
	return PointOnCircle(a.Center, a.Radius, angle)
}

// Midpoint implements the [Segment] interface.
func (a Arc) Midpoint() vec.Vec2 {
	return a.PointAt(a.StartAngle + a.Sweep/2)
}

// ContainsAngle reports whether the direction angle lies within the sweep of
// the arc. The tolerance eps is an angle in radians.
func (a Arc) ContainsAngle(angle, eps float64) bool {
	var rel float64
	if a.Sweep >= 0 {
		rel = NormalizeAngle(angle - a.StartAngle)
	} else {
		rel = NormalizeAngle(a.StartAngle - angle)
	}
	sweep := math.Abs(a.Sweep)
	return rel <= sweep+eps || rel >= 2*math.Pi-eps
}

// WithinSweep reports whether the ray from the centre through p lies within
// the sweep of the arc. The tolerance eps is a distance measured along the
// circle.
func (a Arc) WithinSweep(p vec.Vec2, eps float64) bool {
	return a.ContainsAngle(Angle(a.Center, p), eps/a.Radius)
}

// ClosestPoint implements the [Segment] interface.
func (a Arc) ClosestPoint(p vec.Vec2) vec.Vec2 {
	if p == a.Center {
		return a.A
	}
	if a.WithinSweep(p, 0) {
		v := p.Sub(a.Center)
		return a.Center.Add(v.Mul(a.Radius / v.Length()))
	}
	if p.Sub(a.A).Length() <= p.Sub(a.B).Length() {
		return a.A
	}
	return a.B
}

// Split divides the arc at the point p, which is assumed to lie on the
// arc. Either part may be degenerate if p coincides with an end point.
func (a Arc) Split(p vec.Vec2) (Arc, Arc) {
	angle := Angle(a.Center, p)
	var rel float64
	if a.Sweep >= 0 {
		rel = NormalizeAngle(angle - a.StartAngle)
	} else {
		rel = NormalizeAngle(a.StartAngle - angle)
	}
	sweep := math.Abs(a.Sweep)
	if rel > sweep {
		// p lies just outside the arc; snap to the nearer end
		if rel-sweep < 2*math.Pi-rel {
			rel = sweep
		} else {
			rel = 0
		}
	}
	s1 := math.Copysign(rel, a.Sweep)
	first := Arc{
		A: a.A, B: p,
		Center: a.Center, Radius: a.Radius,
		StartAngle: a.StartAngle,
		Sweep:      s1,
		Bulge:      BulgeForSweep(s1),
	}
	second := Arc{
		A: p, B: a.B,
		Center: a.Center, Radius: a.Radius,
		StartAngle: angle,
		Sweep:      a.Sweep - s1,
		Bulge:      BulgeForSweep(a.Sweep - s1),
	}
	return first, second
}
