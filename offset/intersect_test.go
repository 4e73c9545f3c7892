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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pline"
)

const testEps = 1e-8

func TestIntrLineLine(t *testing.T) {
	type testCase struct {
		name           string
		p0, p1, q0, q1 vec.Vec2
		kind           lineIntrKind
		point          vec.Vec2
	}
	cases := []testCase{
		{"cross", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 10}, vec.Vec2{X: 0, Y: 10}, vec.Vec2{X: 10, Y: 0}, lineTrue, vec.Vec2{X: 5, Y: 5}},
		{"outside", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 0}, vec.Vec2{X: 5, Y: -1}, vec.Vec2{X: 5, Y: 1}, lineFalse, vec.Vec2{X: 5, Y: 0}},
		{"touch at end", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 10, Y: 5}, lineTrue, vec.Vec2{X: 10, Y: 0}},
		{"parallel", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 0, Y: 1}, vec.Vec2{X: 10, Y: 1}, lineNone, vec.Vec2{}},
		{"collinear apart", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 0}, vec.Vec2{X: 2, Y: 0}, vec.Vec2{X: 3, Y: 0}, lineNone, vec.Vec2{}},
		{"end to end", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 20, Y: 0}, lineTrue, vec.Vec2{X: 10, Y: 0}},
		{"overlap", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 5, Y: 0}, vec.Vec2{X: 15, Y: 0}, lineCoincident, vec.Vec2{X: 5, Y: 0}},
		{"point on segment", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 4, Y: 0}, vec.Vec2{X: 4, Y: 0}, lineTrue, vec.Vec2{X: 4, Y: 0}},
	}
	opt := cmpopts.EquateApprox(0, 1e-9)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := intrLineLine(tc.p0, tc.p1, tc.q0, tc.q1, testEps)
			if got.kind != tc.kind {
				t.Fatalf("kind = %d, want %d", got.kind, tc.kind)
			}
			if tc.kind == lineNone {
				return
			}
			if d := cmp.Diff(tc.point, got.point, opt); d != "" {
				t.Errorf("point mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestIntrLineLineParams(t *testing.T) {
	got := intrLineLine(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 4, Y: 0}, vec.Vec2{X: 1, Y: -1}, vec.Vec2{X: 1, Y: 3}, testEps)
	if got.kind != lineTrue {
		t.Fatalf("kind = %d, want lineTrue", got.kind)
	}
	if math.Abs(got.t0-0.25) > 1e-12 || math.Abs(got.t1-0.25) > 1e-12 {
		t.Errorf("t0, t1 = %g, %g, want 0.25, 0.25", got.t0, got.t1)
	}
}

func TestIntrLineCircle(t *testing.T) {
	center := vec.Vec2{X: 0, Y: 0}
	cases := []struct {
		name   string
		p0, p1 vec.Vec2
		n      int
		t0, t1 float64
	}{
		{"secant", vec.Vec2{X: -2, Y: 0}, vec.Vec2{X: 2, Y: 0}, 2, 0.25, 0.75},
		{"tangent", vec.Vec2{X: -2, Y: 1}, vec.Vec2{X: 2, Y: 1}, 1, 0.5, 0},
		{"nearly tangent", vec.Vec2{X: -2, Y: 1 + 1e-10}, vec.Vec2{X: 2, Y: 1 + 1e-10}, 1, 0.5, 0},
		{"miss", vec.Vec2{X: -2, Y: 2}, vec.Vec2{X: 2, Y: 2}, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := intrLineCircle(tc.p0, tc.p1, center, 1, testEps)
			if got.n != tc.n {
				t.Fatalf("n = %d, want %d", got.n, tc.n)
			}
			if tc.n >= 1 && math.Abs(got.t0-tc.t0) > 1e-9 {
				t.Errorf("t0 = %g, want %g", got.t0, tc.t0)
			}
			if tc.n == 2 && math.Abs(got.t1-tc.t1) > 1e-9 {
				t.Errorf("t1 = %g, want %g", got.t1, tc.t1)
			}
		})
	}
}

func TestIntrCircleCircle(t *testing.T) {
	c0 := vec.Vec2{X: 0, Y: 0}
	cases := []struct {
		name string
		c    vec.Vec2
		r    float64
		kind circlesKind
	}{
		{"two", vec.Vec2{X: 1, Y: 0}, 1, circlesTwo},
		{"outer tangent", vec.Vec2{X: 2, Y: 0}, 1, circlesOne},
		{"inner tangent", vec.Vec2{X: 0.5, Y: 0}, 0.5, circlesOne},
		{"apart", vec.Vec2{X: 3, Y: 0}, 1, circlesNone},
		{"nested", vec.Vec2{X: 0.1, Y: 0}, 0.5, circlesNone},
		{"coincident", vec.Vec2{X: 0, Y: 0}, 1, circlesCoincident},
		{"concentric", vec.Vec2{X: 0, Y: 0}, 2, circlesNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := intrCircleCircle(c0, 1, tc.c, tc.r, testEps)
			if got.kind != tc.kind {
				t.Fatalf("kind = %d, want %d", got.kind, tc.kind)
			}
			var pts []vec.Vec2
			switch got.kind {
			case circlesOne:
				pts = []vec.Vec2{got.p1}
			case circlesTwo:
				pts = []vec.Vec2{got.p1, got.p2}
			}
			for _, p := range pts {
				if d := p.Sub(c0).Length(); math.Abs(d-1) > 1e-9 {
					t.Errorf("point %v at distance %g from first centre", p, d)
				}
				if d := p.Sub(tc.c).Length(); math.Abs(d-tc.r) > 1e-9 {
					t.Errorf("point %v at distance %g from second centre", p, d)
				}
			}
		})
	}
}

func TestIntrSegs(t *testing.T) {
	q := math.Tan(math.Pi / 8) // quarter circle
	type testCase struct {
		name           string
		v1, v2, u1, u2 pline.Vertex
		kind           segIntrKind
		pts            []vec.Vec2
	}
	cases := []testCase{
		{
			name: "lines crossing",
			v1:   pline.Vertex{X: 0, Y: 0}, v2: pline.Vertex{X: 10, Y: 10},
			u1: pline.Vertex{X: 0, Y: 10}, u2: pline.Vertex{X: 10, Y: 0},
			kind: segOne,
			pts:  []vec.Vec2{{X: 5, Y: 5}},
		},
		{
			name: "lines parallel",
			v1:   pline.Vertex{X: 0, Y: 0}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 0, Y: 1}, u2: pline.Vertex{X: 10, Y: 1},
			kind: segNone,
		},
		{
			name: "lines overlapping",
			v1:   pline.Vertex{X: 0, Y: 0}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 5, Y: 0}, u2: pline.Vertex{X: 15, Y: 0},
			kind: segOverlap,
			pts:  []vec.Vec2{{X: 5, Y: 0}, {X: 10, Y: 0}},
		},
		{
			name: "lines end to end",
			v1:   pline.Vertex{X: 0, Y: 0}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 10, Y: 0}, u2: pline.Vertex{X: 20, Y: 0},
			kind: segOne,
			pts:  []vec.Vec2{{X: 10, Y: 0}},
		},
		{
			name: "line through half circle",
			v1:   pline.Vertex{X: 5, Y: -10}, v2: pline.Vertex{X: 5, Y: 10},
			u1: pline.Vertex{X: 0, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 10, Y: 0},
			kind: segOne,
			pts:  []vec.Vec2{{X: 5, Y: -5}},
		},
		{
			name: "line tangent to arc",
			v1:   pline.Vertex{X: 0, Y: -5}, v2: pline.Vertex{X: 10, Y: -5},
			u1: pline.Vertex{X: 0, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 10, Y: 0},
			kind: segTangent,
			pts:  []vec.Vec2{{X: 5, Y: -5}},
		},
		{
			name: "line cutting arc twice",
			v1:   pline.Vertex{X: -1, Y: -3}, v2: pline.Vertex{X: 11, Y: -3},
			u1: pline.Vertex{X: 0, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 10, Y: 0},
			kind: segTwo,
			pts:  []vec.Vec2{{X: 1, Y: -3}, {X: 9, Y: -3}},
		},
		{
			name: "arc and line swapped",
			v1:   pline.Vertex{X: 0, Y: 0, Bulge: 1}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 5, Y: 10}, u2: pline.Vertex{X: 5, Y: -10},
			kind: segOne,
			pts:  []vec.Vec2{{X: 5, Y: -5}},
		},
		{
			name: "arcs crossing",
			v1:   pline.Vertex{X: 0, Y: 0, Bulge: 1}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 8, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 18, Y: 0},
			kind: segOne,
			pts:  []vec.Vec2{{X: 9, Y: -3}},
		},
		{
			name: "arcs touching",
			v1:   pline.Vertex{X: 0, Y: 0, Bulge: -1}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 10, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 20, Y: 0},
			kind: segTangent,
			pts:  []vec.Vec2{{X: 10, Y: 0}},
		},
		{
			name: "arcs overlapping",
			v1:   pline.Vertex{X: 0, Y: 0, Bulge: 1}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 5, Y: -5, Bulge: q}, u2: pline.Vertex{X: 10, Y: 0},
			kind: segOverlap,
			pts:  []vec.Vec2{{X: 10, Y: 0}, {X: 5, Y: -5}},
		},
		{
			name: "half circles meeting at both ends",
			v1:   pline.Vertex{X: 0, Y: 0, Bulge: 1}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 10, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 0, Y: 0},
			kind: segTwo,
			pts:  []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}},
		},
		{
			name: "arcs on different circles apart",
			v1:   pline.Vertex{X: 0, Y: 0, Bulge: 1}, v2: pline.Vertex{X: 10, Y: 0},
			u1: pline.Vertex{X: 30, Y: 0, Bulge: 1}, u2: pline.Vertex{X: 40, Y: 0},
			kind: segNone,
		},
	}

	opt := cmpopts.EquateApprox(0, 1e-7)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := intrSegs(tc.v1, tc.v2, tc.u1, tc.u2, testEps)
			if got.kind != tc.kind {
				t.Fatalf("kind = %s, want %s", got.kind, tc.kind)
			}
			if d := cmp.Diff(tc.pts, got.points(), opt, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("points mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestSweepOffset(t *testing.T) {
	a := pline.SegmentOf(pline.Vertex{X: 0, Y: 0, Bulge: 1}, pline.Vertex{X: 10, Y: 0}).(pline.Arc)
	cases := []struct {
		p    vec.Vec2
		want float64
	}{
		{vec.Vec2{X: 0, Y: 0}, 0},
		{vec.Vec2{X: 5, Y: -5}, math.Pi / 2},
		{vec.Vec2{X: 10, Y: 0}, math.Pi},
		{vec.Vec2{X: 0, Y: 1e-9}, 0},
	}
	for _, tc := range cases {
		if got := sweepOffset(a, tc.p); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("sweepOffset(%v) = %g, want %g", tc.p, got, tc.want)
		}
	}
}
