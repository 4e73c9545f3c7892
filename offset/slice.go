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
	"cmp"
	"log/slog"
	"maps"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pline"
	"seehuhn.de/go/pline/spatial"
)

// slice is a piece of the raw offset curve which keeps the required
// distance from the original polyline.
type slice struct {
	start  int // raw offset segment where the slice begins
	vs     []pline.Vertex
	closed bool // set if the slice is the complete, closed raw offset
}

// intersect is a point where raw offset segments s1 and s2 meet.
type intersect struct {
	s1, s2 int
	pos    vec.Vec2
}

// distChecker tests points and segments against the original polyline.
type distChecker struct {
	orig    *pline.Polyline
	idx     *spatial.StaticIndex
	minDist float64
	eps     float64
}

func (o *Offsetter) newDistChecker(orig *pline.Polyline, idx *spatial.StaticIndex, d float64) *distChecker {
	return &distChecker{
		orig:    orig,
		idx:     idx,
		minDist: math.Abs(d) - o.OffsetDistEps,
		eps:     o.IntersectEps,
	}
}

// pointValid reports whether p is far enough from the original polyline.
func (c *distChecker) pointValid(p vec.Vec2) bool {
	r := c.minDist
	if r <= 0 {
		return true
	}
	valid := true
	err := c.idx.VisitQuery(p.X-r, p.Y-r, p.X+r, p.Y+r, func(k int) bool {
		q := c.orig.Segment(k).ClosestPoint(p)
		valid = distSq(q, p) > r*r
		return valid
	})
	return err == nil && valid
}

// crossesOrig reports whether the segment from v1 to v2 meets the original
// polyline.
func (c *distChecker) crossesOrig(v1, v2 pline.Vertex) bool {
	box := pline.FastApproxBoundingBox(v1, v2)
	found := false
	err := c.idx.VisitQuery(box.LLx, box.LLy, box.URx, box.URy, func(k int) bool {
		i, j := c.orig.SegIndices(k)
		si := intrSegs(v1, v2, c.orig.Vertex(i), c.orig.Vertex(j), c.eps)
		found = si.kind != segNone
		return !found
	})
	return err != nil || found
}

// selfIntersects finds all points where segments of raw meet, other than
// the shared vertices of consecutive segments. Intersections at the start
// point of either segment are skipped, since they are reported as end
// points of the preceding segments.
func (o *Offsetter) selfIntersects(raw *pline.Polyline, idx *spatial.StaticIndex) ([]intersect, error) {
	var res []intersect
	visited := make(map[[2]int]struct{})
	for k := range raw.SegmentCount() {
		i, j := raw.SegIndices(k)
		v1, v2 := raw.Vertex(i), raw.Vertex(j)
		box := pline.ExpandBox(pline.FastApproxBoundingBox(v1, v2), o.IntersectEps)
		err := idx.VisitQuery(box.LLx, box.LLy, box.URx, box.URy, func(hit int) bool {
			hi, hj := raw.SegIndices(hit)
			if i == hi || i == hj || j == hi || j == hj {
				return true
			}
			if _, seen := visited[[2]int{hi, i}]; seen {
				return true
			}
			visited[[2]int{i, hi}] = struct{}{}

			u1, u2 := raw.Vertex(hi), raw.Vertex(hj)
			si := intrSegs(v1, v2, u1, u2, o.IntersectEps)
			for _, p := range si.points() {
				if fuzzyEqual(v1.Pos(), p, o.PosEqualEps) || fuzzyEqual(u1.Pos(), p, o.PosEqualEps) {
					continue
				}
				res = append(res, intersect{s1: i, s2: hi, pos: p})
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return append(res, o.localSelfIntersects(raw)...), nil
}

// localSelfIntersects finds the points where consecutive segments of raw
// meet away from their shared vertex. This happens where an arc and its
// neighbour cross twice, or where a line doubles back on itself.
func (o *Offsetter) localSelfIntersects(raw *pline.Polyline) []intersect {
	n := raw.Len()
	pairs := n - 2
	if raw.IsClosed() {
		pairs = n
		if n == 2 {
			pairs = 1
		}
	}
	var res []intersect
	for i := range max(pairs, 0) {
		j := (i + 1) % n
		v1, v2, v3 := raw.Vertex(i), raw.Vertex(j), raw.Vertex((j+1)%n)
		si := intrSegs(v1, v2, v2, v3, o.IntersectEps)
		for _, p := range si.points() {
			if fuzzyEqual(v1.Pos(), p, o.PosEqualEps) || fuzzyEqual(v2.Pos(), p, o.PosEqualEps) {
				continue
			}
			res = append(res, intersect{s1: i, s2: j, pos: p})
		}
	}
	return res
}

// dualIntersects finds the points where raw meets the raw offset in the
// opposite direction. Only the segment index on raw is used.
func (o *Offsetter) dualIntersects(raw *pline.Polyline, idx *spatial.StaticIndex, dual *pline.Polyline) ([]intersect, error) {
	var res []intersect
	for k := range dual.SegmentCount() {
		i2, j2 := dual.SegIndices(k)
		u1, u2 := dual.Vertex(i2), dual.Vertex(j2)
		box := pline.ExpandBox(pline.FastApproxBoundingBox(u1, u2), o.IntersectEps)
		err := idx.VisitQuery(box.LLx, box.LLy, box.URx, box.URy, func(hit int) bool {
			i1, j1 := raw.SegIndices(hit)
			v1, v2 := raw.Vertex(i1), raw.Vertex(j1)
			si := intrSegs(v1, v2, u1, u2, o.IntersectEps)
			for _, p := range si.points() {
				if si.kind != segOverlap &&
					(fuzzyEqual(v1.Pos(), p, o.PosEqualEps) || fuzzyEqual(u1.Pos(), p, o.PosEqualEps)) {
					continue
				}
				res = append(res, intersect{s1: i1, s2: i2, pos: p})
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// circleIntersects finds the points where the open polyline raw meets the
// circle of radius r around center.
func (o *Offsetter) circleIntersects(raw *pline.Polyline, idx *spatial.StaticIndex, center vec.Vec2, r float64) ([]intersect, error) {
	var res []intersect
	err := idx.VisitQuery(center.X-r, center.Y-r, center.X+r, center.Y+r, func(k int) bool {
		i, j := raw.SegIndices(k)
		add := func(p vec.Vec2) {
			if !fuzzyEqual(p, raw.Vertex(i).Pos(), o.PosEqualEps) {
				res = append(res, intersect{s1: i, s2: -1, pos: p})
			}
		}
		switch s := pline.SegmentOf(raw.Vertex(i), raw.Vertex(j)).(type) {
		case pline.Line:
			ci := intrLineCircle(s.A, s.B, center, r, o.IntersectEps)
			ts := []float64{ci.t0, ci.t1}[:ci.n]
			for _, t := range ts {
				if t >= 0 && t <= 1 {
					add(s.PointAt(t))
				}
			}
		case pline.Arc:
			cc := intrCircleCircle(s.Center, s.Radius, center, r, o.IntersectEps)
			var pts []vec.Vec2
			switch cc.kind {
			case circlesOne:
				pts = []vec.Vec2{cc.p1}
			case circlesTwo:
				pts = []vec.Vec2{cc.p1, cc.p2}
			}
			for _, p := range pts {
				if s.WithinSweep(p, o.IntersectEps) {
					add(p)
				}
			}
		}
		return true
	})
	return res, err
}

// sliceAtIntersects cuts the raw offset of a closed polyline at its
// self-intersections and keeps the valid pieces.
func (o *Offsetter) sliceAtIntersects(orig, raw *pline.Polyline, d float64) ([]slice, error) {
	origIdx, err := pline.CreateApproxSpatialIndex(orig)
	if err != nil {
		return nil, err
	}
	rawIdx, err := pline.CreateApproxSpatialIndex(raw)
	if err != nil {
		return nil, err
	}

	self, err := o.selfIntersects(raw, rawIdx)
	if err != nil {
		return nil, err
	}
	o.Stats.SelfIntersects = len(self)

	lookup := make(map[int][]vec.Vec2)
	for _, si := range self {
		lookup[si.s1] = append(lookup[si.s1], si.pos)
		lookup[si.s2] = append(lookup[si.s2], si.pos)
	}

	chk := o.newDistChecker(orig, origIdx, d)
	return o.collectSlices(orig, raw, lookup, chk), nil
}

// dualSliceAtIntersects cuts the raw offset at its self-intersections, at
// the intersections with the raw offset on the opposite side, and, for
// open polylines, at the circles around the end points of orig.
func (o *Offsetter) dualSliceAtIntersects(orig, raw, dual *pline.Polyline, d float64) ([]slice, error) {
	origIdx, err := pline.CreateApproxSpatialIndex(orig)
	if err != nil {
		return nil, err
	}
	rawIdx, err := pline.CreateApproxSpatialIndex(raw)
	if err != nil {
		return nil, err
	}

	self, err := o.selfIntersects(raw, rawIdx)
	if err != nil {
		return nil, err
	}
	o.Stats.SelfIntersects = len(self)

	var dualIntrs []intersect
	if dual.Len() > 1 {
		dualIntrs, err = o.dualIntersects(raw, rawIdx, dual)
		if err != nil {
			return nil, err
		}
	}
	o.Stats.DualIntersects = len(dualIntrs)

	lookup := make(map[int][]vec.Vec2)
	if !orig.IsClosed() {
		for _, c := range []vec.Vec2{orig.Vertex(0).Pos(), orig.LastVertex().Pos()} {
			cis, err := o.circleIntersects(raw, rawIdx, c, math.Abs(d))
			if err != nil {
				return nil, err
			}
			for _, ci := range cis {
				lookup[ci.s1] = append(lookup[ci.s1], ci.pos)
			}
		}
	}
	for _, si := range self {
		lookup[si.s1] = append(lookup[si.s1], si.pos)
		lookup[si.s2] = append(lookup[si.s2], si.pos)
	}
	for _, di := range dualIntrs {
		lookup[di.s1] = append(lookup[di.s1], di.pos)
	}

	chk := o.newDistChecker(orig, origIdx, d)
	return o.collectSlices(orig, raw, lookup, chk), nil
}

// collectSlices cuts raw at the points listed in lookup (indexed by the
// raw segment containing the point) and returns the pieces which pass all
// distance checks.
func (o *Offsetter) collectSlices(orig, raw *pline.Polyline, lookup map[int][]vec.Vec2, chk *distChecker) []slice {
	if len(lookup) == 0 {
		if !chk.pointValid(raw.Vertex(0).Pos()) {
			o.discard("no intersects, start point too close", raw.Vertex(0).Pos())
			return nil
		}
		return []slice{{start: 0, vs: raw.Vertices(), closed: raw.IsClosed()}}
	}

	n := raw.Len()
	for start, pts := range lookup {
		seg := raw.Segment(segmentFromStart(raw, start))
		slices.SortFunc(pts, func(a, b vec.Vec2) int {
			return cmp.Compare(paramAlong(seg, a), paramAlong(seg, b))
		})
	}

	var res []slice
	if !orig.IsClosed() {
		if first, ok := o.firstOpenSlice(raw, lookup, chk); ok {
			res = append(res, first)
		}
	}

	for _, start := range slices.Sorted(maps.Keys(lookup)) {
		pts := lookup[start]
		v1 := raw.Vertex(start)
		next := (start + 1) % n
		v2 := raw.Vertex(next)

		// pieces between consecutive points on the same segment
		if len(pts) > 1 {
			_, prev := splitAt(v1, v2, pts[0], o.PosEqualEps)
			for _, p := range pts[1:] {
				a, b := splitAt(prev, v2, p, o.PosEqualEps)
				prev = b
				if fuzzyEqual(a.Pos(), b.Pos(), o.PosEqualEps) {
					continue
				}
				if !chk.pointValid(a.Pos()) || !chk.pointValid(b.Pos()) ||
					!chk.pointValid(segMidpoint(a, b)) || chk.crossesOrig(a, b) {
					o.discard("short piece too close", a.Pos())
					continue
				}
				res = append(res, slice{start: start, vs: []pline.Vertex{a, b}})
			}
		}

		// piece from the last point on this segment to the next point
		last := pts[len(pts)-1]
		if !chk.pointValid(last) {
			o.discard("start point too close", last)
			continue
		}
		_, sv := splitAt(v1, v2, last, o.PosEqualEps)
		cur := []pline.Vertex{sv}
		index := next
		valid := true
		for loop := 0; ; loop++ {
			if loop > n {
				pline.Logger().Warn("offset: slice does not terminate", slog.Int("start", start))
				valid = false
				break
			}
			v := raw.Vertex(index)
			if !chk.pointValid(v.Pos()) || chk.crossesOrig(cur[len(cur)-1], v) {
				valid = false
				break
			}
			cur = addOrReplace(cur, v, o.PosEqualEps)

			if ipts, ok := lookup[index]; ok {
				p := ipts[0]
				if !chk.pointValid(p) {
					valid = false
					break
				}
				a, _ := splitAt(cur[len(cur)-1], raw.Vertex((index+1)%n), p, o.PosEqualEps)
				end := pline.VertexAt(p, 0)
				if !chk.pointValid(segMidpoint(a, end)) {
					valid = false
					break
				}
				cur[len(cur)-1] = a
				cur = addOrReplace(cur, end, o.PosEqualEps)
				break
			}

			if index == n-1 {
				if !orig.IsClosed() {
					break
				}
				index = 0
			} else {
				index++
			}
		}

		if valid && len(cur) > 1 {
			res = append(res, slice{start: start, vs: cur})
		} else {
			o.discard("piece too close", last)
		}
	}
	return res
}

// firstOpenSlice builds the piece of the raw offset of an open polyline
// from its start to the first intersection point.
func (o *Offsetter) firstOpenSlice(raw *pline.Polyline, lookup map[int][]vec.Vec2, chk *distChecker) (slice, bool) {
	var cur []pline.Vertex
	for index := 0; index < raw.Len(); index++ {
		v := raw.Vertex(index)
		if !chk.pointValid(v.Pos()) {
			o.discard("first piece too close", v.Pos())
			return slice{}, false
		}
		if len(cur) > 0 && chk.crossesOrig(cur[len(cur)-1], v) {
			o.discard("first piece crosses", v.Pos())
			return slice{}, false
		}
		cur = addOrReplace(cur, v, o.PosEqualEps)

		pts, ok := lookup[index]
		if !ok {
			continue
		}
		a, _ := splitAt(cur[len(cur)-1], raw.Vertex(index+1), pts[0], o.PosEqualEps)
		end := pline.VertexAt(pts[0], 0)
		if !chk.pointValid(segMidpoint(a, end)) {
			o.discard("first piece too close", pts[0])
			return slice{}, false
		}
		cur[len(cur)-1] = a
		cur = addOrReplace(cur, end, o.PosEqualEps)
		break
	}
	if len(cur) < 2 {
		return slice{}, false
	}
	return slice{start: 0, vs: cur}, true
}

func (o *Offsetter) discard(reason string, p vec.Vec2) {
	o.Stats.SlicesDiscarded++
	pline.Logger().Debug("offset: discard slice",
		slog.String("reason", reason),
		slog.Float64("x", p.X),
		slog.Float64("y", p.Y))
}

// segmentFromStart returns the segment number (in the order of
// [pline.Polyline.SegIndices]) of the segment starting at vertex i.
func segmentFromStart(p *pline.Polyline, i int) int {
	if p.IsClosed() {
		return (i + 1) % p.Len()
	}
	return i
}

// splitAt divides the segment from v1 to v2 at the point p. The results
// are the new start vertex and the vertex at p, which carries the bulge of
// the remaining part.
func splitAt(v1, v2 pline.Vertex, p vec.Vec2, eps float64) (pline.Vertex, pline.Vertex) {
	switch {
	case v1.Bulge == 0:
		return v1, pline.VertexAt(p, 0)
	case fuzzyEqual(v1.Pos(), v2.Pos(), eps) || fuzzyEqual(v1.Pos(), p, eps):
		return pline.VertexAt(p, 0), pline.VertexAt(p, v1.Bulge)
	case fuzzyEqual(v2.Pos(), p, eps):
		return v1, pline.VertexAt(v2.Pos(), 0)
	}
	arc, ok := pline.SegmentOf(v1, v2).(pline.Arc)
	if !ok {
		return v1.WithBulge(0), pline.VertexAt(p, 0)
	}
	first, second := arc.Split(p)
	return v1.WithBulge(first.Bulge), pline.VertexAt(p, second.Bulge)
}

// segMidpoint returns the point half-way along the segment from v1 to v2.
func segMidpoint(v1, v2 pline.Vertex) vec.Vec2 {
	return pline.SegmentOf(v1, v2).Midpoint()
}

// paramAlong returns a value which increases monotonically along s.
func paramAlong(s pline.Segment, p vec.Vec2) float64 {
	switch s := s.(type) {
	case pline.Line:
		return p.Sub(s.A).Dot(s.B.Sub(s.A))
	case pline.Arc:
		return sweepOffset(s, p)
	}
	return 0
}
