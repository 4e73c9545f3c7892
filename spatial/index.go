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

// Package spatial implements a static, bulk-built bounding-box index.
//
// A [StaticIndex] stores a fixed number of axis-aligned boxes in a packed,
// pointer-free hierarchy: the leaf level holds the input boxes in insertion
// order, and every level above groups NodeSize consecutive children into a
// parent box which bounds them. All levels live back to back in flat
// arrays, so that the tree structure is implied by array offsets.
//
// Indices are built in two phases. During the building phase the caller
// announces the number of boxes, then calls [StaticIndex.Add] exactly that
// many times and finally [StaticIndex.Finish]. After Finish the index is
// read-only and may be queried concurrently from multiple goroutines.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"
)

// DefaultNodeSize is the branching factor used unless [WithNodeSize] is given.
const DefaultNodeSize = 16

var (
	// ErrInvalidNumItems is returned by [New] for a non-positive item count.
	ErrInvalidNumItems = errors.New("spatial: number of items must be positive")

	// ErrFinished is returned when boxes are added after Finish.
	ErrFinished = errors.New("spatial: index already finished")

	// ErrNotFinished is returned when an index is queried before Finish.
	ErrNotFinished = errors.New("spatial: index not finished")

	// ErrItemCount is returned when the number of added boxes does not match
	// the number given to New.
	ErrItemCount = errors.New("spatial: wrong number of items")
)

// StaticIndex is a packed hierarchical bounding-rectangle index over a fixed
// set of boxes. Item k is the k-th box passed to Add.
type StaticIndex struct {
	numItems int
	nodeSize int

	// boxes holds 4 values (xmin, ymin, xmax, ymax) per node.
	// Leaves come first, the root is the last node.
	boxes []float64

	// indices maps a leaf node to its item number and an internal node to
	// the node number of its first child.
	indices []int

	// levelBounds[l] is the node number one past the end of level l.
	levelBounds []int

	pos      int // number of nodes written so far
	finished bool
	bounds   rect.Rect
}

// Option configures a StaticIndex.
type Option func(*StaticIndex)

// WithNodeSize sets the branching factor of the index.
// Values below 2 are raised to 2.
func WithNodeSize(n int) Option {
	return func(idx *StaticIndex) {
		idx.nodeSize = max(n, 2)
	}
}

// New allocates an index for exactly numItems boxes.
func New(numItems int, opts ...Option) (*StaticIndex, error) {
	if numItems <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidNumItems, numItems)
	}

	idx := &StaticIndex{
		numItems: numItems,
		nodeSize: DefaultNodeSize,
	}
	for _, opt := range opts {
		opt(idx)
	}

	// compute the number of nodes on every level, up to a single root
	n := numItems
	numNodes := n
	idx.levelBounds = append(idx.levelBounds, numNodes)
	for {
		n = (n + idx.nodeSize - 1) / idx.nodeSize
		numNodes += n
		idx.levelBounds = append(idx.levelBounds, numNodes)
		if n == 1 {
			break
		}
	}

	idx.boxes = make([]float64, 4*numNodes)
	idx.indices = make([]int, numNodes)
	idx.bounds = rect.Rect{
		LLx: math.Inf(1),
		LLy: math.Inf(1),
		URx: math.Inf(-1),
		URy: math.Inf(-1),
	}
	return idx, nil
}

// NumItems returns the number of boxes the index was created for.
func (idx *StaticIndex) NumItems() int {
	return idx.numItems
}

// Bounds returns the box enclosing all items added so far.
func (idx *StaticIndex) Bounds() rect.Rect {
	return idx.bounds
}

// Add appends the next box and returns its item number.
func (idx *StaticIndex) Add(xmin, ymin, xmax, ymax float64) (int, error) {
	if idx.finished {
		return 0, ErrFinished
	}
	if idx.pos >= idx.numItems {
		return 0, fmt.Errorf("%w: more than %d boxes added", ErrItemCount, idx.numItems)
	}

	item := idx.pos
	idx.indices[item] = item
	b := idx.boxes[4*item : 4*item+4]
	b[0], b[1], b[2], b[3] = xmin, ymin, xmax, ymax
	idx.pos++

	idx.bounds.LLx = min(idx.bounds.LLx, xmin)
	idx.bounds.LLy = min(idx.bounds.LLy, ymin)
	idx.bounds.URx = max(idx.bounds.URx, xmax)
	idx.bounds.URy = max(idx.bounds.URy, ymax)

	return item, nil
}

// AddRect is a convenience wrapper around Add.
func (idx *StaticIndex) AddRect(r rect.Rect) (int, error) {
	return idx.Add(r.LLx, r.LLy, r.URx, r.URy)
}

// Finish builds the upper levels of the hierarchy. It must be called after
// the last box was added and before the first query.
func (idx *StaticIndex) Finish() error {
	if idx.finished {
		return ErrFinished
	}
	if idx.pos != idx.numItems {
		return fmt.Errorf("%w: added %d boxes, expected %d",
			ErrItemCount, idx.pos, idx.numItems)
	}

	// Walk the levels bottom-up. Every group of nodeSize children of one
	// level produces a parent in the next level.
	child := 0
	for level := 0; level < len(idx.levelBounds)-1; level++ {
		end := idx.levelBounds[level]
		for child < end {
			first := child
			xmin, ymin := math.Inf(1), math.Inf(1)
			xmax, ymax := math.Inf(-1), math.Inf(-1)
			for j := 0; j < idx.nodeSize && child < end; j++ {
				b := idx.boxes[4*child : 4*child+4]
				xmin = min(xmin, b[0])
				ymin = min(ymin, b[1])
				xmax = max(xmax, b[2])
				ymax = max(ymax, b[3])
				child++
			}

			parent := idx.pos
			idx.indices[parent] = first
			b := idx.boxes[4*parent : 4*parent+4]
			b[0], b[1], b[2], b[3] = xmin, ymin, xmax, ymax
			idx.pos++
		}
	}

	idx.finished = true
	return nil
}

// VisitQuery calls visit for every item whose box intersects the query box.
// Boxes touching the query box count as intersecting. Each matching item is
// visited exactly once, in no particular order. The traversal stops early if
// visit returns false.
func (idx *StaticIndex) VisitQuery(xmin, ymin, xmax, ymax float64, visit func(item int) bool) error {
	if !idx.finished {
		return ErrNotFinished
	}

	var stackBuf [32]int
	stack := stackBuf[:0]

	node := len(idx.indices) - 1 // root
	for {
		end := min(node+idx.nodeSize, idx.upperBound(node))
		isLeafLevel := node < idx.numItems
		for pos := node; pos < end; pos++ {
			b := idx.boxes[4*pos : 4*pos+4]
			if xmax < b[0] || ymax < b[1] || xmin > b[2] || ymin > b[3] {
				continue
			}
			if isLeafLevel {
				if !visit(idx.indices[pos]) {
					return nil
				}
			} else {
				stack = append(stack, idx.indices[pos])
			}
		}

		if len(stack) == 0 {
			return nil
		}
		node = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}
}

// Query returns the items whose boxes intersect the query box.
func (idx *StaticIndex) Query(xmin, ymin, xmax, ymax float64) ([]int, error) {
	var res []int
	err := idx.VisitQuery(xmin, ymin, xmax, ymax, func(item int) bool {
		res = append(res, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// upperBound returns the end of the level which contains the given node.
func (idx *StaticIndex) upperBound(node int) int {
	for _, b := range idx.levelBounds {
		if b > node {
			return b
		}
	}
	return len(idx.indices)
}
