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

// Package pline represents open and closed paths made of straight line
// segments and circular arcs.
//
// A path is stored as a sequence of vertices. Each vertex has a position and
// a bulge value which describes the segment leading to the next vertex:
// bulge = tan(θ/4), where θ is the signed sweep angle of the arc from this
// vertex to the next. A bulge of zero denotes a straight line. Positive
// bulge values sweep counter-clockwise (in a coordinate system where the
// y-axis points up).
//
// The sub-package spatial provides the bounding-box index used to speed up
// segment queries, and the sub-package offset computes parallel offset
// curves.
package pline

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"
)

// ErrNonFinite is returned when a coordinate or bulge is NaN or infinite.
var ErrNonFinite = errors.New("pline: non-finite value")

// Vertex is a polyline vertex. Bulge describes the segment from this
// vertex to the next one, see the package documentation.
type Vertex struct {
	X, Y  float64
	Bulge float64
}

// NewVertex returns a vertex after checking that all values are finite.
func NewVertex(x, y, bulge float64) (Vertex, error) {
	if !isFinite(x) || !isFinite(y) || !isFinite(bulge) {
		return Vertex{}, fmt.Errorf("%w: vertex (%g, %g, %g)", ErrNonFinite, x, y, bulge)
	}
	return Vertex{X: x, Y: y, Bulge: bulge}, nil
}

// VertexAt returns a vertex at position p.
func VertexAt(p vec.Vec2, bulge float64) Vertex {
	return Vertex{X: p.X, Y: p.Y, Bulge: bulge}
}

// Pos returns the position of the vertex.
func (v Vertex) Pos() vec.Vec2 {
	return vec.Vec2{X: v.X, Y: v.Y}
}

// IsLine reports whether the segment starting at v is a straight line.
func (v Vertex) IsLine() bool {
	return v.Bulge == 0
}

// WithBulge returns a copy of v with the bulge replaced.
func (v Vertex) WithBulge(bulge float64) Vertex {
	v.Bulge = bulge
	return v
}

// ComputeCircle returns the circle on which the arc from (x1, y1) to
// (x2, y2) with the given bulge lies.
//
// The caller must dispatch straight segments (bulge == 0) elsewhere; for
// these the result is undefined.
func ComputeCircle(x1, y1, x2, y2, bulge float64) (radius, cx, cy float64) {
	dx := x2 - x1
	dy := y2 - y1
	d := math.Hypot(dx, dy)

	radius = d * (1 + bulge*bulge) / (4 * math.Abs(bulge))

	// The centre lies on the perpendicular bisector of the chord, at signed
	// distance d*(1-b²)/(4b) to the left of the chord direction. The left
	// normal (-dy, dx) already has length d.
	m := (1 - bulge*bulge) / (4 * bulge)
	cx = (x1+x2)/2 - m*dy
	cy = (y1+y2)/2 + m*dx
	return radius, cx, cy
}

// ArcRadiusAndCenter returns the circle of the arc segment starting at v1
// and ending at v2. The bulge of v1 must be non-zero.
func ArcRadiusAndCenter(v1, v2 Vertex) (float64, vec.Vec2) {
	r, cx, cy := ComputeCircle(v1.X, v1.Y, v2.X, v2.Y, v1.Bulge)
	return r, vec.Vec2{X: cx, Y: cy}
}

// BulgeForSweep returns the bulge of an arc with the given signed sweep
// angle (in radians).
func BulgeForSweep(sweep float64) float64 {
	return math.Tan(sweep / 4)
}

// SweepForBulge returns the signed sweep angle of an arc with the given
// bulge.
func SweepForBulge(bulge float64) float64 {
	return 4 * math.Atan(bulge)
}

// BulgeFromArc converts an arc, given by its circle, start angle and signed
// sweep, into a pair of vertices. The first vertex carries the bulge, the
// second has bulge zero.
func BulgeFromArc(center vec.Vec2, radius, startAngle, sweep float64) (Vertex, Vertex) {
	p1 := PointOnCircle(center, radius, startAngle)
	p2 := PointOnCircle(center, radius, startAngle+sweep)
	return VertexAt(p1, BulgeForSweep(sweep)), VertexAt(p2, 0)
}

// PointOnCircle returns the point at the given angle on a circle.
func PointOnCircle(center vec.Vec2, radius, angle float64) vec.Vec2 {
	sin, cos := math.Sincos(angle)
	return vec.Vec2{X: center.X + radius*cos, Y: center.Y + radius*sin}
}

// Angle returns the direction of the vector from p0 to p1, in (-π, π].
func Angle(p0, p1 vec.Vec2) float64 {
	return math.Atan2(p1.Y-p0.Y, p1.X-p0.X)
}

// NormalizeAngle maps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// DeltaAngle returns the signed angle to turn from a1 to a2, in (-π, π].
func DeltaAngle(a1, a2 float64) float64 {
	d := NormalizeAngle(a2 - a1)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
