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
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pline"
	"seehuhn.de/go/pline/testcases"
)

func square() *pline.Polyline {
	return pline.New(true,
		pline.Vertex{X: 0, Y: 0},
		pline.Vertex{X: 10, Y: 0},
		pline.Vertex{X: 10, Y: 10},
		pline.Vertex{X: 0, Y: 10},
	)
}

func circle() *pline.Polyline {
	return pline.New(true,
		pline.Vertex{X: 0, Y: 0, Bulge: 1},
		pline.Vertex{X: 10, Y: 0, Bulge: 1},
	)
}

func TestSquareInward(t *testing.T) {
	res, err := Parallel(square(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d polylines, want 1", len(res))
	}
	if !res[0].IsClosed() {
		t.Error("result is not closed")
	}
	want := []pline.Vertex{{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 8}, {X: 2, Y: 8}}
	checkCyclic(t, res[0].Vertices(), want)
}

func TestCircleOutward(t *testing.T) {
	res, err := Parallel(circle(), -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d polylines, want 1", len(res))
	}
	p := res[0]
	if !p.IsClosed() || p.Len() != 2 {
		t.Fatalf("got closed=%t with %d vertices, want closed circle with 2 vertices",
			p.IsClosed(), p.Len())
	}
	want := []pline.Vertex{{X: -1, Y: 0, Bulge: 1}, {X: 11, Y: 0, Bulge: 1}}
	checkCyclic(t, p.Vertices(), want)
	if a := p.Area(); math.Abs(a-36*math.Pi) > 1e-9 {
		t.Errorf("area = %g, want %g", a, 36*math.Pi)
	}
}

func TestRoundedRectCornersVanish(t *testing.T) {
	q := math.Tan(math.Pi / 8)
	p := pline.New(true,
		pline.Vertex{X: 2, Y: 0}, pline.Vertex{X: 18, Y: 0, Bulge: q},
		pline.Vertex{X: 20, Y: 2}, pline.Vertex{X: 20, Y: 8, Bulge: q},
		pline.Vertex{X: 18, Y: 10}, pline.Vertex{X: 2, Y: 10, Bulge: q},
		pline.Vertex{X: 0, Y: 8}, pline.Vertex{X: 0, Y: 2, Bulge: q})

	o := NewOffsetter()
	res, err := o.Offset(p, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d polylines, want 1", len(res))
	}
	want := []pline.Vertex{{X: 3, Y: 3}, {X: 17, Y: 3}, {X: 17, Y: 7}, {X: 3, Y: 7}}
	checkCyclic(t, res[0].Vertices(), want)

	if o.Stats.CollapsedArcs != 4 {
		t.Errorf("CollapsedArcs = %d, want 4", o.Stats.CollapsedArcs)
	}
	if o.Stats.SelfIntersects != 4 {
		t.Errorf("SelfIntersects = %d, want 4", o.Stats.SelfIntersects)
	}
}

func TestDumbbellSplits(t *testing.T) {
	p := findCase(t, "dumbbell").Polyline
	res, err := Parallel(p, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d polylines, want 2", len(res))
	}
	slices.SortFunc(res, func(a, b *pline.Polyline) int {
		return cmpFloat(a.Bounds().LLx, b.Bounds().LLx)
	})

	bump := math.Sqrt(1.5*1.5 - 1)
	type box struct{ LLx, LLy, URx, URy float64 }
	var got []box
	for _, r := range res {
		if !r.IsClosed() {
			t.Error("piece is not closed")
		}
		b := r.Bounds()
		got = append(got, box{b.LLx, b.LLy, b.URx, b.URy})
	}
	want := []box{
		{1.5, 1.5, 10 - bump, 8.5},
		{20 + bump, 1.5, 28.5, 8.5},
	}
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", d)
	}
}

func TestCollapse(t *testing.T) {
	o := NewOffsetter()

	res, err := o.Offset(circle(), 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("circle shrunk by 6: got %d polylines, want none", len(res))
	}
	if o.Stats.CollapsedArcs != 2 {
		t.Errorf("CollapsedArcs = %d, want 2", o.Stats.CollapsedArcs)
	}

	res, err = o.Offset(square(), 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("square shrunk by 6: got %d polylines, want none", len(res))
	}
	if o.Stats.CollapsedArcs != 0 {
		t.Errorf("Stats not reset: CollapsedArcs = %d", o.Stats.CollapsedArcs)
	}
}

func TestOpenLine(t *testing.T) {
	p := pline.New(false, pline.Vertex{X: 0, Y: 0}, pline.Vertex{X: 10, Y: 0})
	for _, d := range []float64{1, -1} {
		res, err := Parallel(p, d)
		if err != nil {
			t.Fatal(err)
		}
		if len(res) != 1 {
			t.Fatalf("d=%g: got %d polylines, want 1", d, len(res))
		}
		if res[0].IsClosed() {
			t.Errorf("d=%g: result is closed", d)
		}
		want := []pline.Vertex{{X: 0, Y: d}, {X: 10, Y: d}}
		if diff := cmp.Diff(want, res[0].Vertices(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("d=%g: vertices mismatch (-want +got):\n%s", d, diff)
		}
	}
}

func TestOpenCorner(t *testing.T) {
	p := pline.New(false,
		pline.Vertex{X: 0, Y: 0}, pline.Vertex{X: 10, Y: 0}, pline.Vertex{X: 10, Y: 10})

	res, err := Parallel(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d polylines, want 1", len(res))
	}
	want := []pline.Vertex{{X: 0, Y: 1}, {X: 9, Y: 1}, {X: 9, Y: 10}}
	if d := cmp.Diff(want, res[0].Vertices(), cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", d)
	}

	// on the outside the corner is rounded
	res, err = Parallel(p, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].Len() != 4 {
		t.Fatalf("got %v, want a single polyline with 4 vertices", res)
	}
	wantLen := 10 + math.Pi/2 + 10
	if l := res[0].Length(); math.Abs(l-wantLen) > 1e-9 {
		t.Errorf("length = %g, want %g", l, wantLen)
	}
}

func TestZeroDistance(t *testing.T) {
	p := square()
	res, err := Parallel(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d polylines, want 1", len(res))
	}
	if res[0] == p {
		t.Error("result aliases the input")
	}
	if d := cmp.Diff(p.Vertices(), res[0].Vertices()); d != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", d)
	}
}

func TestOffsetErrors(t *testing.T) {
	cases := []struct {
		name string
		p    *pline.Polyline
		d    float64
		want error
	}{
		{"empty", pline.New(true), 1, ErrTooFewVertices},
		{"single vertex", pline.New(false, pline.Vertex{X: 1, Y: 1}), 1, ErrTooFewVertices},
		{"NaN distance", square(), math.NaN(), ErrNonFinite},
		{"infinite distance", square(), math.Inf(-1), ErrNonFinite},
		{"infinite vertex", pline.New(false, pline.Vertex{}, pline.Vertex{X: math.Inf(1)}), 1, ErrNonFinite},
		{"NaN bulge", pline.New(false, pline.Vertex{Bulge: math.NaN()}, pline.Vertex{X: 1}), 1, ErrNonFinite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parallel(tc.p, tc.d)
			if !errors.Is(err, tc.want) {
				t.Errorf("got error %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPruneRepeatedVertices(t *testing.T) {
	p := pline.New(true,
		pline.Vertex{X: 0, Y: 0},
		pline.Vertex{X: 10, Y: 0},
		pline.Vertex{X: 10, Y: 0},
		pline.Vertex{X: 10, Y: 10},
		pline.Vertex{X: 0, Y: 10},
		pline.Vertex{X: 0, Y: 0},
	)
	o := NewOffsetter()
	res, err := o.Offset(p, 2)
	if err != nil {
		t.Fatal(err)
	}
	if o.Stats.PrunedVertices != 2 {
		t.Errorf("PrunedVertices = %d, want 2", o.Stats.PrunedVertices)
	}
	if len(res) != 1 {
		t.Fatalf("got %d polylines, want 1", len(res))
	}
	want := []pline.Vertex{{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 8}, {X: 2, Y: 8}}
	checkCyclic(t, res[0].Vertices(), want)
}

func TestWindingRuleKept(t *testing.T) {
	p := square()
	p.SetWindingRule(pline.EvenOdd)
	res, err := Parallel(p, -1)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range res {
		if r.WindingRule() != pline.EvenOdd {
			t.Errorf("winding rule = %s, want %s", r.WindingRule(), pline.EvenOdd)
		}
	}
}

func TestDualMatchesSimple(t *testing.T) {
	for _, name := range []string{"square", "dumbbell", "rounded_rect", "circle"} {
		tc := findCase(t, name)
		for _, d := range tc.Distances {
			simple := NewOffsetter()
			a, err := simple.Offset(tc.Polyline, d)
			if err != nil {
				t.Fatal(err)
			}
			dual := NewOffsetter()
			dual.HandleSelfIntersects = true
			b, err := dual.Offset(tc.Polyline, d)
			if err != nil {
				t.Fatal(err)
			}
			if len(a) != len(b) {
				t.Errorf("%s d=%g: %d vs. %d polylines", name, d, len(a), len(b))
				continue
			}
			if la, lb := totalLength(a), totalLength(b); math.Abs(la-lb) > 1e-9 {
				t.Errorf("%s d=%g: total length %g vs. %g", name, d, la, lb)
			}
		}
	}
}

// TestOffsetDistance checks that every point of the computed offset has
// exactly the requested distance from the input.
func TestOffsetDistance(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			for _, d := range tc.Distances {
				name := fmt.Sprintf("%s_%s_%g", category, tc.Name, d)
				t.Run(name, func(t *testing.T) {
					res, err := Parallel(tc.Polyline, d)
					if err != nil {
						t.Fatal(err)
					}
					failed := false
					for _, r := range res {
						if r.IsClosed() != tc.Polyline.IsClosed() {
							t.Errorf("result closed=%t, input closed=%t",
								r.IsClosed(), tc.Polyline.IsClosed())
							failed = true
						}
					}
					if !checkDistance(t, tc.Polyline, res, d) || failed {
						if err := writeDebugImage(name, tc.Polyline, res); err != nil {
							t.Log(err)
						}
					}
				})
			}
		}
	}
}

// TestOffsetDistanceDual repeats the distance check with the slower
// algorithm for self-intersecting inputs. Closed inputs may give open
// results here, so only the distances are checked.
func TestOffsetDistanceDual(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			for _, d := range tc.Distances {
				name := fmt.Sprintf("%s_%s_%g_dual", category, tc.Name, d)
				t.Run(name, func(t *testing.T) {
					o := NewOffsetter()
					o.HandleSelfIntersects = true
					res, err := o.Offset(tc.Polyline, d)
					if err != nil {
						t.Fatal(err)
					}
					if !checkDistance(t, tc.Polyline, res, d) {
						if err := writeDebugImage(name, tc.Polyline, res); err != nil {
							t.Log(err)
						}
					}
				})
			}
		}
	}
}

// TestArcCrossesNeighbour covers inputs where an offset arc crosses the
// offset of the following edge twice. The loop between the two crossings
// must be cut off.
func TestArcCrossesNeighbour(t *testing.T) {
	for _, name := range []string{"wedge", "hook"} {
		tc := findCase(t, name)
		d := tc.Distances[0]
		for _, handleSelf := range []bool{false, true} {
			o := NewOffsetter()
			o.HandleSelfIntersects = handleSelf
			res, err := o.Offset(tc.Polyline, d)
			if err != nil {
				t.Fatal(err)
			}
			if len(res) == 0 {
				t.Errorf("%s dual=%t: no result", name, handleSelf)
				continue
			}
			for _, r := range res {
				if !r.IsClosed() {
					t.Errorf("%s dual=%t: result is open", name, handleSelf)
				}
				if a := r.Area(); a <= 0 {
					t.Errorf("%s dual=%t: area %g, want > 0", name, handleSelf, a)
				}
			}
			if o.Stats.SelfIntersects == 0 {
				t.Errorf("%s dual=%t: no self-intersections found", name, handleSelf)
			}
			checkDistance(t, tc.Polyline, res, d)
		}
	}
}

func TestBowtie(t *testing.T) {
	p := findCase(t, "bowtie").Polyline
	s := 0.5 / math.Sqrt2

	// only the counter-clockwise lobe has an inward offset
	res, err := Parallel(p, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || !res[0].IsClosed() {
		t.Fatalf("got %d polylines, want one closed polyline", len(res))
	}
	checkCyclic(t, res[0].Vertices(), []pline.Vertex{
		{X: 5 - 2*s, Y: 5},
		{X: 0.5, Y: 10 - 0.5 - 2*s},
		{X: 0.5, Y: 0.5 + 2*s},
	})

	// with the dual offset, the outside of the clockwise lobe is found as
	// well, ending where it meets the other lobe
	o := NewOffsetter()
	o.HandleSelfIntersects = true
	res, err = o.Offset(p, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d polylines, want 2", len(res))
	}
	slices.SortFunc(res, func(a, b *pline.Polyline) int {
		return cmpFloat(a.Bounds().LLx, b.Bounds().LLx)
	})
	if !res[0].IsClosed() || res[0].Len() != 3 {
		t.Errorf("inner piece: closed=%t, %d vertices", res[0].IsClosed(), res[0].Len())
	}
	outer := res[1]
	if outer.IsClosed() {
		t.Error("outer piece is closed")
	}
	ends := []vec.Vec2{outer.Vertex(0).Pos(), outer.LastVertex().Pos()}
	want := []vec.Vec2{{X: 5, Y: 5 + 2*s}, {X: 5, Y: 5 - 2*s}}
	if d := cmp.Diff(want, ends, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("outer end points (-want +got):\n%s", d)
	}
	checkDistance(t, p, res, 0.5)
}

func TestOffsetLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	pline.SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer pline.SetLogger(nil)

	if _, err := Parallel(square(), 1); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "msg=offset") || !strings.Contains(out, "distance=1") {
		t.Errorf("unexpected log output %q", out)
	}
}

func BenchmarkOffset(b *testing.B) {
	for _, name := range []string{"dumbbell", "rounded_rect", "s_curve"} {
		p := findCase(b, name).Polyline
		b.Run(name, func(b *testing.B) {
			o := NewOffsetter()
			for b.Loop() {
				if _, err := o.Offset(p, 1); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func findCase(tb testing.TB, name string) testcases.Case {
	tb.Helper()
	for _, cases := range testcases.All {
		for _, tc := range cases {
			if tc.Name == name {
				return tc
			}
		}
	}
	tb.Fatalf("test case %q not found", name)
	return testcases.Case{}
}

// checkCyclic verifies that got equals a rotation of want.
func checkCyclic(t *testing.T, got, want []pline.Vertex) {
	t.Helper()
	opt := cmpopts.EquateApprox(0, 1e-9)
	if len(got) == len(want) {
		for k := range got {
			if cmp.Equal(want, slices.Concat(got[k:], got[:k]), opt) {
				return
			}
		}
	}
	t.Errorf("got vertices %v, want a rotation of %v", got, want)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func totalLength(ps []*pline.Polyline) float64 {
	var l float64
	for _, p := range ps {
		l += p.Length()
	}
	return l
}

// checkDistance reports every sample point of res which does not have
// distance |d| from orig. The result is false if an error was reported.
func checkDistance(t *testing.T, orig *pline.Polyline, res []*pline.Polyline, d float64) bool {
	t.Helper()
	ok := true
	for _, r := range res {
		if r.Len() < 2 {
			t.Errorf("result has %d vertices", r.Len())
			ok = false
		}
		for k, s := range r.Segments() {
			for _, q := range samplePoints(s, 8) {
				dist := distanceTo(orig, q)
				if math.Abs(dist-math.Abs(d)) > 1e-6 {
					t.Errorf("segment %d: point %v at distance %g", k, q, dist)
					ok = false
				}
			}
		}
	}
	return ok
}

func distanceTo(p *pline.Polyline, q vec.Vec2) float64 {
	best := math.Inf(1)
	for _, s := range p.Segments() {
		best = min(best, s.ClosestPoint(q).Sub(q).Length())
	}
	return best
}

// samplePoints returns n+1 equally spaced points along s, including both
// end points.
func samplePoints(s pline.Segment, n int) []vec.Vec2 {
	pts := make([]vec.Vec2, 0, n+1)
	for i := range n + 1 {
		t := float64(i) / float64(n)
		switch s := s.(type) {
		case pline.Line:
			pts = append(pts, s.PointAt(t))
		case pline.Arc:
			pts = append(pts, s.PointAt(s.StartAngle+t*s.Sweep))
		}
	}
	return pts
}

// writeDebugImage draws the input in grey and the offsets in red, and
// saves the result in debug/<name>.png.
func writeDebugImage(name string, orig *pline.Polyline, res []*pline.Polyline) error {
	const size = 400
	const margin = 20

	box := orig.Bounds()
	for _, r := range res {
		b := r.Bounds()
		box.LLx = min(box.LLx, b.LLx)
		box.LLy = min(box.LLy, b.LLy)
		box.URx = max(box.URx, b.URx)
		box.URy = max(box.URy, b.URy)
	}
	scale := (size - 2*margin) / max(box.URx-box.LLx, box.URy-box.LLy, 1e-6)
	toImage := func(p vec.Vec2) (float32, float32) {
		x := margin + (p.X-box.LLx)*scale
		y := size - margin - (p.Y-box.LLy)*scale
		return float32(x), float32(y)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	drawOutline(img, orig, toImage, color.Gray{Y: 160}, 3)
	for _, r := range res {
		drawOutline(img, r, toImage, color.RGBA{R: 200, A: 255}, 1.5)
	}

	if err := os.MkdirAll("debug", 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join("debug", name+".png"))
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func drawOutline(img draw.Image, p *pline.Polyline, toImage func(vec.Vec2) (float32, float32), col color.Color, width float32) {
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, s := range p.Segments() {
		pts := samplePoints(s, 16)
		for i := 1; i < len(pts); i++ {
			x0, y0 := toImage(pts[i-1])
			x1, y1 := toImage(pts[i])
			addLine(r, x0, y0, x1, y1, width)
		}
	}
	r.Draw(img, b, image.NewUniform(col), image.Point{})
}

// addLine adds a thin rectangle along the line from (x0, y0) to (x1, y1).
func addLine(r *vector.Rasterizer, x0, y0, x1, y1, width float32) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	r.MoveTo(x0+nx, y0+ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x0-nx, y0-ny)
	r.ClosePath()
}
