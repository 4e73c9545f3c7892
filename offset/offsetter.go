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

// Package offset computes parallel offset curves of polylines.
//
// The offset of a polyline at signed distance d consists of all points at
// distance |d| from the polyline, on the left side of the direction of
// travel for d > 0 and on the right side for d < 0. A counter-clockwise
// closed polyline therefore shrinks for positive distances and grows for
// negative ones. Convex corners are joined by circular arcs (round joins).
//
// The algorithm first builds a raw offset curve by moving every segment
// sideways and joining neighbouring segments. The raw curve is then cut at
// its self-intersections, and only the pieces which keep the required
// distance to the original polyline are stitched together to form the
// result.
package offset

import (
	"fmt"
	"log/slog"
	"math"

	"seehuhn.de/go/pline"
)

const (
	defaultPosEqualEps   = 1e-5
	defaultIntersectEps  = 1e-8
	defaultSliceJoinEps  = 1e-4
	defaultOffsetDistEps = 1e-4
	defaultMinLoopLength = 1e-2
)

var (
	// ErrTooFewVertices is returned for input polylines with fewer than two
	// vertices.
	ErrTooFewVertices = pline.ErrTooFewVertices

	// ErrNonFinite is returned if the offset distance or a vertex of the
	// input is NaN or infinite.
	ErrNonFinite = pline.ErrNonFinite
)

// Offsetter computes parallel offsets of polylines.
//
// An Offsetter can be reused for several polylines, but it must not be
// used concurrently.
type Offsetter struct {
	// PosEqualEps is the distance below which two points are considered
	// equal.
	PosEqualEps float64

	// IntersectEps is the tolerance of the intersection tests. Nearly
	// parallel lines and nearly tangent circles closer than this are
	// treated as touching in a single point.
	IntersectEps float64

	// SliceJoinEps is the maximal gap between two pieces of the offset
	// curve which are joined into one polyline.
	SliceJoinEps float64

	// OffsetDistEps is the tolerance used when checking that a point of the
	// offset curve has the required distance from the original polyline.
	OffsetDistEps float64

	// MinLoopLength is the length below which output polylines are
	// discarded.
	MinLoopLength float64

	// HandleSelfIntersects must be set for closed input polylines which
	// intersect themselves. This makes the computation more expensive.
	// Open polylines are always treated this way.
	HandleSelfIntersects bool

	// Stats describes the most recent call to Offset.
	Stats Stats
}

// Stats gives counts collected during an offset computation.
type Stats struct {
	PrunedVertices  int // repeated input vertices removed
	CollapsedArcs   int // arcs with radius reduced to zero
	RawVertices     int // vertices of the raw offset curve
	SelfIntersects  int // self-intersections of the raw offset curve
	DualIntersects  int // intersections with the opposite raw offset
	SlicesCreated   int // pieces which passed all distance checks
	SlicesDiscarded int // pieces dropped because they came too close
}

// NewOffsetter returns an Offsetter with default tolerances.
func NewOffsetter() *Offsetter {
	return &Offsetter{
		PosEqualEps:   defaultPosEqualEps,
		IntersectEps:  defaultIntersectEps,
		SliceJoinEps:  defaultSliceJoinEps,
		OffsetDistEps: defaultOffsetDistEps,
		MinLoopLength: defaultMinLoopLength,
	}
}

// Parallel returns the offset of p at distance d, using default settings.
func Parallel(p *pline.Polyline, d float64) ([]*pline.Polyline, error) {
	return NewOffsetter().Offset(p, d)
}

// Offset returns the parallel offset of p at signed distance d.
//
// The result may consist of several polylines, or of none at all if the
// offset vanishes (for example when a closed polyline shrinks by more than
// its inner radius). For d == 0 the result is a copy of p.
func (o *Offsetter) Offset(p *pline.Polyline, d float64) ([]*pline.Polyline, error) {
	o.Stats = Stats{}

	if math.IsNaN(d) || math.IsInf(d, 0) {
		return nil, fmt.Errorf("offset distance %g: %w", d, ErrNonFinite)
	}
	if p.Len() < 2 {
		return nil, fmt.Errorf("offset: %w", ErrTooFewVertices)
	}
	for i := range p.Len() {
		v := p.Vertex(i)
		if _, err := pline.NewVertex(v.X, v.Y, v.Bulge); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}

	if d == 0 {
		return []*pline.Polyline{p.Clone()}, nil
	}

	in := o.pruneSingularities(p)
	if in.Len() < 2 {
		return nil, nil
	}

	raw := o.rawOffset(in, d)
	o.Stats.RawVertices = raw.Len()
	if raw.Len() < 2 {
		return nil, nil
	}

	var slices []slice
	var err error
	if in.IsClosed() && !o.HandleSelfIntersects {
		slices, err = o.sliceAtIntersects(in, raw, d)
	} else {
		dual := o.rawOffset(in, -d)
		slices, err = o.dualSliceAtIntersects(in, raw, dual, d)
	}
	if err != nil {
		return nil, err
	}
	o.Stats.SlicesCreated = len(slices)

	res, err := o.stitch(slices, in.IsClosed(), raw.Len()-1)
	if err != nil {
		return nil, err
	}
	for _, r := range res {
		r.SetWindingRule(p.WindingRule())
	}

	pline.Logger().Debug("offset",
		slog.Float64("distance", d),
		slog.Int("vertices", p.Len()),
		slog.Int("pruned", o.Stats.PrunedVertices),
		slog.Int("collapsed", o.Stats.CollapsedArcs),
		slog.Int("raw", o.Stats.RawVertices),
		slog.Int("selfIntersects", o.Stats.SelfIntersects),
		slog.Int("dualIntersects", o.Stats.DualIntersects),
		slog.Int("slices", o.Stats.SlicesCreated),
		slog.Int("discarded", o.Stats.SlicesDiscarded),
		slog.Int("results", len(res)))

	return res, nil
}

// pruneSingularities removes vertices which coincide with their
// predecessor. The bulge of the removed vertex is kept.
func (o *Offsetter) pruneSingularities(p *pline.Polyline) *pline.Polyline {
	res := pline.New(p.IsClosed())
	res.SetWindingRule(p.WindingRule())
	for i := range p.Len() {
		v := p.Vertex(i)
		if res.Len() > 0 && fuzzyEqual(res.LastVertex().Pos(), v.Pos(), o.PosEqualEps) {
			res.SetBulge(res.Len()-1, v.Bulge)
			o.Stats.PrunedVertices++
			continue
		}
		res.Add(v)
	}
	if p.IsClosed() && res.Len() > 1 && fuzzyEqual(res.LastVertex().Pos(), res.Vertex(0).Pos(), o.PosEqualEps) {
		res.PopBack()
		o.Stats.PrunedVertices++
	}
	return res
}
