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

package testcases

import (
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/pline"
)

// kappa for cubic Bezier approximation of a quarter circle
const kappa = 0.5522847498307936

// flatness used when converting the curves into polylines
const flatness = 0.01

var curveCases = []Case{
	{
		Name:      "bezier_circle",
		Polyline:  flattened(bezierCircle(20, 20, 10)),
		Distances: []float64{1, -1},
	},
	{
		Name:      "quadratic",
		Polyline:  flattened((&path.Data{}).MoveTo(pt(0, 0)).QuadTo(pt(10, 20), pt(20, 0))),
		Distances: []float64{1, -1},
	},
	{
		Name:      "cubic_scurve",
		Polyline:  flattened((&path.Data{}).MoveTo(pt(0, 0)).CubeTo(pt(0, 20), pt(20, -20), pt(20, 0))),
		Distances: []float64{0.5, -0.5},
	},
}

// bezierCircle builds a counter-clockwise circle from four cubic segments.
func bezierCircle(cx, cy, r float64) *path.Data {
	k := kappa * r
	return (&path.Data{}).
		MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy+k), pt(cx+k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx-k, cy+r), pt(cx-r, cy+k), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy-k), pt(cx-k, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx+k, cy-r), pt(cx+r, cy-k), pt(cx+r, cy)).
		Close()
}

// flattened converts a single-subpath curve into a polyline.
func flattened(p *path.Data) *pline.Polyline {
	return pline.FromPath(p, flatness)[0]
}
