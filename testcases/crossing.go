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

import "seehuhn.de/go/pline"

var crossingCases = []Case{
	{
		// two triangles which touch at (5, 5), one of each orientation
		Name: "bowtie",
		Polyline: pline.New(true,
			v(0, 0, 0), v(10, 10, 0), v(10, 0, 0), v(0, 10, 0)),
		Distances: []float64{0.5, -0.5},
	},
	{
		// the inward offset of the arc crosses the offset of the short
		// edge twice
		Name: "wedge",
		Polyline: pline.New(true,
			v(0, 0, 0), v(1.5866, 1.1477, 0), v(6.9454, 6.4136, 0.7474)),
		Distances: []float64{1.556},
	},
	{
		Name: "hook",
		Polyline: pline.New(true,
			v(0, 0, 1.032), v(1.518, -5.247, 0.575), v(2.873, -7.540, 0)),
		Distances: []float64{1.162},
	},
}
