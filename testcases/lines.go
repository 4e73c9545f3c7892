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

var lineCases = []Case{
	{
		Name:      "square",
		Polyline:  rectangle(0, 0, 10, 10),
		Distances: []float64{2, -2, 6},
	},
	{
		Name:      "square_cw",
		Polyline:  pline.New(true, v(0, 0, 0), v(0, 10, 0), v(10, 10, 0), v(10, 0, 0)),
		Distances: []float64{2, -2},
	},
	{
		Name:      "rectangle",
		Polyline:  rectangle(0, 0, 30, 10),
		Distances: []float64{1, 4, -3},
	},
	{
		Name:      "triangle",
		Polyline:  pline.New(true, v(0, 0, 0), v(20, 0, 0), v(10, 15, 0)),
		Distances: []float64{1, 3, -2},
	},
	{
		Name: "l_shape",
		Polyline: pline.New(true,
			v(0, 0, 0), v(20, 0, 0), v(20, 8, 0),
			v(8, 8, 0), v(8, 20, 0), v(0, 20, 0)),
		Distances: []float64{2, 3, -2},
	},
	{
		// two squares joined by a channel of width 2
		Name:      "dumbbell",
		Polyline:  dumbbell(),
		Distances: []float64{0.5, 1.5, -1},
	},
}

// rectangle builds a counter-clockwise rectangle.
func rectangle(x, y, w, h float64) *pline.Polyline {
	return pline.New(true,
		v(x, y, 0), v(x+w, y, 0), v(x+w, y+h, 0), v(x, y+h, 0))
}

func dumbbell() *pline.Polyline {
	return pline.New(true,
		v(0, 0, 0), v(10, 0, 0), v(10, 4, 0), v(20, 4, 0),
		v(20, 0, 0), v(30, 0, 0), v(30, 10, 0), v(20, 10, 0),
		v(20, 6, 0), v(10, 6, 0), v(10, 10, 0), v(0, 10, 0))
}
