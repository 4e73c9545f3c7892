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
	"cmp"
	"log/slog"
	"slices"

	"seehuhn.de/go/pline"
	"seehuhn.de/go/pline/spatial"
)

// stitch joins slices whose end and start points coincide. maxIndex is
// the largest segment index of the raw offset curve; it is used to order
// the candidates by how far they lie ahead along the raw curve.
func (o *Offsetter) stitch(pieces []slice, closed bool, maxIndex int) ([]*pline.Polyline, error) {
	if len(pieces) == 0 {
		return nil, nil
	}

	eps := o.SliceJoinEps
	if len(pieces) == 1 {
		s := pieces[0]
		p := pline.New(s.closed, s.vs...)
		if closed && !s.closed && p.Len() > 2 &&
			fuzzyEqual(p.Vertex(0).Pos(), p.LastVertex().Pos(), eps) {
			p.PopBack()
			p.SetClosed(true)
		}
		return o.dropShort([]*pline.Polyline{p}), nil
	}

	// index the start points of all slices
	idx, err := spatial.New(len(pieces))
	if err != nil {
		return nil, err
	}
	for _, s := range pieces {
		pt := s.vs[0].Pos()
		if _, err := idx.Add(pt.X-eps, pt.Y-eps, pt.X+eps, pt.Y+eps); err != nil {
			return nil, err
		}
	}
	if err := idx.Finish(); err != nil {
		return nil, err
	}

	var res []*pline.Polyline
	visited := make([]bool, len(pieces))
	for i := range pieces {
		if visited[i] {
			continue
		}
		visited[i] = true

		var cur []pline.Vertex
		curIdx := i
		initial := pieces[i].vs[0].Pos()
		for loop := 0; ; loop++ {
			if loop > len(pieces) {
				pline.Logger().Warn("offset: stitching does not terminate", slog.Int("slice", i))
				break
			}

			startIdx := pieces[curIdx].start
			cur = append(cur, pieces[curIdx].vs...)
			end := cur[len(cur)-1].Pos()

			hits, err := idx.Query(end.X-eps, end.Y-eps, end.X+eps, end.Y+eps)
			if err != nil {
				return nil, err
			}
			hits = slices.DeleteFunc(hits, func(k int) bool { return visited[k] })

			// Prefer the slice which starts closest ahead along the raw
			// curve. On ties, prefer slices which do not yet close the
			// loop, to get the longest possible loop.
			rank := func(k int) (int, bool) {
				s := pieces[k]
				dist := s.start - startIdx
				if startIdx > s.start {
					dist = maxIndex - startIdx + s.start
				}
				closes := fuzzyEqual(s.vs[len(s.vs)-1].Pos(), initial, o.PosEqualEps)
				return dist, closes
			}
			slices.SortFunc(hits, func(a, b int) int {
				da, ca := rank(a)
				db, cb := rank(b)
				if c := cmp.Compare(da, db); c != 0 {
					return c
				}
				switch {
				case ca == cb:
					return 0
				case !ca:
					return -1
				default:
					return 1
				}
			})

			if len(hits) == 0 {
				if len(cur) > 1 {
					p := pline.New(false, cur...)
					if closed && p.Len() > 2 &&
						fuzzyEqual(cur[0].Pos(), cur[len(cur)-1].Pos(), o.PosEqualEps) {
						p.PopBack()
						p.SetClosed(true)
					}
					res = append(res, p)
				}
				break
			}

			visited[hits[0]] = true
			cur = cur[:len(cur)-1]
			curIdx = hits[0]
		}
	}
	return o.dropShort(res), nil
}

// dropShort removes polylines shorter than MinLoopLength.
func (o *Offsetter) dropShort(ps []*pline.Polyline) []*pline.Polyline {
	return slices.DeleteFunc(ps, func(p *pline.Polyline) bool {
		if p.Length() >= o.MinLoopLength {
			return false
		}
		pline.Logger().Debug("offset: drop short result", slog.Float64("length", p.Length()))
		return true
	})
}
