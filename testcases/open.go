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

var openCases = []Case{
	{
		Name:      "line",
		Polyline:  pline.New(false, v(0, 0, 0), v(10, 0, 0)),
		Distances: []float64{1, -1},
	},
	{
		Name:      "corner",
		Polyline:  pline.New(false, v(0, 0, 0), v(10, 0, 0), v(10, 10, 0)),
		Distances: []float64{1, -1},
	},
	{
		Name: "zigzag",
		Polyline: pline.New(false,
			v(0, 0, 0), v(10, 5, 0), v(20, 0, 0), v(30, 5, 0)),
		Distances: []float64{1, -1},
	},
	{
		Name:      "arc",
		Polyline:  pline.New(false, v(0, 0, 1), v(10, 0, 0)),
		Distances: []float64{1, 3, -1},
	},
	{
		Name:      "s_curve",
		Polyline:  pline.New(false, v(0, 0, 1), v(10, 0, -1), v(20, 0, 0)),
		Distances: []float64{1, -1},
	},
}
