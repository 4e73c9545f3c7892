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

var arcCases = []Case{
	{
		Name:      "circle",
		Polyline:  pline.New(true, v(0, 0, 1), v(10, 0, 1)),
		Distances: []float64{1, 4, -1, 6},
	},
	{
		Name: "stadium",
		Polyline: pline.New(true,
			v(5, 0, 0), v(15, 0, 1), v(15, 10, 0), v(5, 10, 1)),
		Distances: []float64{1, 3, -2},
	},
	{
		Name:      "rounded_rect",
		Polyline:  roundedRect(0, 0, 20, 10, 2),
		Distances: []float64{1, 3, -1},
	},
	{
		Name:      "half_disc",
		Polyline:  pline.New(true, v(-10, 0, 0), v(10, 0, 1)),
		Distances: []float64{1, 2, -1},
	},
}

// roundedRect builds a counter-clockwise rectangle with quarter circle
// corners of radius r.
func roundedRect(x, y, w, h, r float64) *pline.Polyline {
	return pline.New(true,
		v(x+r, y, 0), v(x+w-r, y, quarter),
		v(x+w, y+r, 0), v(x+w, y+h-r, quarter),
		v(x+w-r, y+h, 0), v(x+r, y+h, quarter),
		v(x, y+h-r, 0), v(x, y+r, quarter))
}
