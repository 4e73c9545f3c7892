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

// Package testcases holds polylines used to exercise the offset algorithm.
// The same fixtures drive the unit tests, the PDF previews generated by
// genpdf, and the JSON export.
package testcases

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pline"
)

// Case is a single offset test.
type Case struct {
	Name      string          // lowercase a-z, 0-9 and _ only
	Polyline  *pline.Polyline // the input
	Distances []float64       // offset distances to apply
}

// quarter is the bulge of a quarter circle.
var quarter = math.Tan(math.Pi / 8)

// v is a helper to create a vertex.
func v(x, y, bulge float64) pline.Vertex {
	return pline.Vertex{X: x, Y: y, Bulge: bulge}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
