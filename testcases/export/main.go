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

// Command export writes the offset test cases, together with the offsets
// computed for them, to testdata/offsets.json. This allows other
// implementations to be compared against this one.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/pline"
	"seehuhn.de/go/pline/offset"
	"seehuhn.de/go/pline/testcases"
)

func main() {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			jtc, err := toJSON(category, tc)
			if err != nil {
				panic(err)
			}
			out.TestCases = append(out.TestCases, jtc)
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/offsets.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name    string       `json:"name"`
	Input   jsonPolyline `json:"input"`
	Offsets []jsonOffset `json:"offsets"`
}

type jsonOffset struct {
	Distance float64        `json:"distance"`
	Result   []jsonPolyline `json:"result"`
}

type jsonPolyline struct {
	Closed   bool         `json:"closed"`
	Vertices [][3]float64 `json:"vertices"` // x, y, bulge
}

func toJSON(category string, tc testcases.Case) (jsonTestCase, error) {
	jtc := jsonTestCase{
		Name:  category + "_" + tc.Name,
		Input: polylineToJSON(tc.Polyline),
	}
	for _, d := range tc.Distances {
		res, err := offset.Parallel(tc.Polyline, d)
		if err != nil {
			return jtc, err
		}
		jo := jsonOffset{Distance: d, Result: []jsonPolyline{}}
		for _, p := range res {
			jo.Result = append(jo.Result, polylineToJSON(p))
		}
		jtc.Offsets = append(jtc.Offsets, jo)
	}
	return jtc, nil
}

func polylineToJSON(p *pline.Polyline) jsonPolyline {
	jp := jsonPolyline{Closed: p.IsClosed()}
	for _, v := range p.Vertices() {
		jp.Vertices = append(jp.Vertices, [3]float64{v.X, v.Y, v.Bulge})
	}
	return jp
}
