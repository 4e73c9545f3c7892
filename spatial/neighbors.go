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

package spatial

import (
	"container/heap"
	"math"
)

// Neighbors returns up to maxResults items in order of increasing distance
// between (x, y) and the item's box. Items further away than maxDist are
// ignored. A non-positive maxResults means no limit, and maxDist may be
// +Inf. If filter is non-nil, only items for which it returns true are
// reported.
func (idx *StaticIndex) Neighbors(x, y float64, maxResults int, maxDist float64, filter func(item int) bool) ([]int, error) {
	if !idx.finished {
		return nil, ErrNotFinished
	}

	maxDist2 := maxDist * maxDist
	if math.IsInf(maxDist, 1) {
		maxDist2 = math.Inf(1)
	}

	var res []int
	q := &candidateQueue{}

	node := len(idx.indices) - 1
	for {
		end := min(node+idx.nodeSize, idx.upperBound(node))
		isLeafLevel := node < idx.numItems
		for pos := node; pos < end; pos++ {
			b := idx.boxes[4*pos : 4*pos+4]
			dx := axisDist(x, b[0], b[2])
			dy := axisDist(y, b[1], b[3])
			d2 := dx*dx + dy*dy
			if d2 > maxDist2 {
				continue
			}
			id := idx.indices[pos]
			if isLeafLevel {
				if filter != nil && !filter(id) {
					continue
				}
				heap.Push(q, candidate{id: id, leaf: true, dist2: d2})
			} else {
				heap.Push(q, candidate{id: id, dist2: d2})
			}
		}

		// report all items which are closer than any remaining node
		for q.Len() > 0 && (*q)[0].leaf {
			c := heap.Pop(q).(candidate)
			res = append(res, c.id)
			if maxResults > 0 && len(res) >= maxResults {
				return res, nil
			}
		}

		if q.Len() == 0 {
			return res, nil
		}
		node = heap.Pop(q).(candidate).id
	}
}

// axisDist returns the distance from k to the interval [lo, hi].
func axisDist(k, lo, hi float64) float64 {
	if k < lo {
		return lo - k
	}
	if k <= hi {
		return 0
	}
	return k - hi
}

type candidate struct {
	id    int
	leaf  bool
	dist2 float64
}

// candidateQueue is a min-heap on dist2. Among equal distances, leaves come
// first so that they are reported before further nodes are expanded.
type candidateQueue []candidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	if q[i].dist2 != q[j].dist2 {
		return q[i].dist2 < q[j].dist2
	}
	return q[i].leaf && !q[j].leaf
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x any) { *q = append(*q, x.(candidate)) }

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}
