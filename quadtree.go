// Copyright (c) 2026 The Loose-Quadtree Authors
// SPDX-License-Identifier: MIT

package quadtree

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/loose-quadtree/quadtree/internal/pool"
)

// Quadtree is a loose, pool-backed quadtree spatial index over
// axis-aligned rectangles.
//
// Concurrency: Quadtree exposes no synchronization. It is built for
// single-threaded mutation; a writer assumes exclusive access, and
// readers may only safely share a value once mutation has quiesced.
// All operations are synchronous and run to completion — there is no
// cancellation, no blocking, and no background work.
type Quadtree struct {
	root        nodeData
	maxEntities int
	maxDepth    int

	nodes       *pool.List[node]
	entities    *pool.List[rect]
	entityNodes *pool.List[entityNode]
}

// New builds an empty quadtree over the world region centered at
// (x, y) with the given width and height, splitting any leaf that
// exceeds maxEntitiesPerRegion entities (subject to the precomputed
// maximum depth, at which splitting is inhibited).
//
// width and height should be positive; behavior for non-positive
// extents is undefined, matching the index's trusted-interface error
// model (see the notes on precondition violations at assertf).
func New(x, y, width, height float64, maxEntitiesPerRegion int) *Quadtree {
	w, h := int(width), int(height)

	q := &Quadtree{
		maxEntities: maxEntitiesPerRegion,
		maxDepth:    calcMaxDepth(w, h),
		nodes:       pool.New[node](0),
		entities:    pool.New[rect](0),
		entityNodes: pool.New[entityNode](0),
	}

	rootIdx := q.nodes.Insert(newLeaf())
	q.root = nodeData{
		idx: rootIdx,
		x:   int(x),
		y:   int(y),
		hx:  w / 2,
		hy:  h / 2,
	}

	return q
}

// calcMaxDepth computes the greatest depth at which a split is still
// permitted: the number of halvings, starting from min(w, h), needed
// to bring that dimension down to 2 or below.
func calcMaxDepth(w, h int) int {
	size := w
	if h < w {
		size = h
	}

	depth := 0
	for size > 2 {
		size /= 2
		depth++
	}
	return depth
}

// MaxDepth returns the tree's precomputed maximum subdivision depth.
func (q *Quadtree) MaxDepth() int {
	return q.maxDepth
}

// MaxEntities returns the per-leaf entity cap that triggers a split.
func (q *Quadtree) MaxEntities() int {
	return q.maxEntities
}

// Insert adds the rectangle (x1, y1)-(x2, y2), truncated to integer
// coordinates, and returns its entity id. The id is stable — Query
// and Traverse will report it, and Remove will accept it — until the
// matching Remove call.
func (q *Quadtree) Insert(x1, y1, x2, y2 float64) int {
	id := q.entities.Insert(truncRect(x1, y1, x2, y2))
	q.nodeInsert(q.root, id)
	return id
}

// Remove deletes entityID from every leaf its rectangle overlaps and
// recycles its entity slot.
//
// Precondition: entityID refers to a currently live entity. Removing
// a dead or unknown id is a caller bug and panics immediately rather
// than corrupting the free stack with a duplicate entry.
func (q *Quadtree) Remove(entityID int) {
	assertf(q.entities.Live(entityID), "Remove: entity %d is not live", entityID)
	r := q.entities.Get(entityID)
	leaves := q.findLeaves(q.root, r.left, r.top, r.right, r.bottom)

	for _, leaf := range leaves {
		n := q.nodes.Get(leaf.idx)

		prev := noneIndex
		cur := n.firstChild
		for cur != noneIndex && q.entityNodes.Get(cur).entity != entityID {
			prev = cur
			cur = q.entityNodes.Get(cur).next
		}

		if cur == noneIndex {
			// Not present in this leaf (its rectangle didn't reach here
			// or was already removed from it); nothing to unlink.
			continue
		}

		next := q.entityNodes.Get(cur).next
		if prev == noneIndex {
			n.firstChild = next
		} else {
			pn := q.entityNodes.GetMut(prev)
			pn.next = next
		}
		n.numChildren--
		q.nodes.Set(leaf.idx, n)

		q.entityNodes.Erase(cur)
	}

	q.entities.Erase(entityID)
}

// Query returns the distinct ids of every entity whose rectangle
// intersects (x1, y1)-(x2, y2). Order reflects leaf-walk order and
// callers must not rely on it beyond "no duplicates".
func (q *Quadtree) Query(x1, y1, x2, y2 float64) []int {
	return q.QueryOmit(x1, y1, x2, y2, noneIndex)
}

// QueryOmit behaves like Query but excludes omitID from the result.
// omitID may name a nonexistent entity, in which case QueryOmit
// behaves exactly like Query.
func (q *Quadtree) QueryOmit(x1, y1, x2, y2 float64, omitID int) []int {
	query := truncRect(x1, y1, x2, y2)
	leaves := q.findLeaves(q.root, query.left, query.top, query.right, query.bottom)

	seen := roaring.New()
	var out []int

	for _, leaf := range leaves {
		cur := q.nodes.Get(leaf.idx).firstChild
		for cur != noneIndex {
			en := q.entityNodes.Get(cur)
			if en.entity != omitID && intersect(query, q.entities.Get(en.entity)) {
				if seen.CheckedAdd(uint32(en.entity)) {
					out = append(out, en.entity)
				}
			}
			cur = en.next
		}
	}

	return out
}

// Cleanup performs one bottom-up pass collapsing quad-siblings of
// four empty leaves into a single empty leaf at their parent's slot.
// It is always safe to call. A single call collapses at most one
// level per branch visited in this pass — a freshly collapsed parent
// only becomes a collapse candidate itself on a later Cleanup call,
// since its siblings may still be branches in the current one. Call
// Cleanup repeatedly to converge the tree shape fully; that choice is
// the caller's.
func (q *Quadtree) Cleanup() {
	root := q.nodes.Get(q.root.idx)
	if root.isLeaf() {
		return
	}

	stack := []int{q.root.idx}

	for len(stack) > 0 {
		n := len(stack) - 1
		idx := stack[n]
		stack = stack[:n]

		branch := q.nodes.Get(idx)
		fc := branch.firstChild

		emptyLeaves := 0
		for i := 0; i < 4; i++ {
			child := q.nodes.Get(fc + i)
			if !child.isLeaf() {
				stack = append(stack, fc+i)
			} else if child.numChildren == 0 {
				emptyLeaves++
			}
		}

		if emptyLeaves == 4 {
			// Erase in descending order so the free stack surfaces
			// +0 first on the next four allocations, preserving the
			// contiguous-quadruplet invariant for a future split.
			q.nodes.Erase(fc + 3)
			q.nodes.Erase(fc + 2)
			q.nodes.Erase(fc + 1)
			q.nodes.Erase(fc + 0)

			q.nodes.Set(idx, newLeaf())
		}
	}
}

// Traverse walks the tree pre-order via an explicit stack, calling
// into visitor for every branch, leaf, and entity-node cell. See
// Visitor for the exact event contract, including the SE/SW/NE/NW
// pop-order guarantee on branches.
func (q *Quadtree) Traverse(visitor Visitor) {
	stack := []nodeData{q.root}

	for len(stack) > 0 {
		n := len(stack) - 1
		nd := stack[n]
		stack = stack[:n]

		cur := q.nodes.Get(nd.idx)
		width, height := nd.hx*2, nd.hy*2

		if !cur.isLeaf() {
			children := nd.quarters(cur.firstChild)
			stack = append(stack, children[0], children[1], children[2], children[3])
			visitor.Branch(nd.depth, nd.idx, cur.firstChild, nd.x, nd.y, width, height)
			continue
		}

		visitor.Leaf(nd.depth, nd.idx, cur.numChildren, cur.firstChild, nd.x, nd.y, width, height)

		cellIdx := cur.firstChild
		for cellIdx != noneIndex {
			cell := q.entityNodes.Get(cellIdx)
			r := q.entities.Get(cell.entity)
			ew, eh := r.right-r.left, r.bottom-r.top
			ex, ey := r.left+ew/2, r.top+eh/2
			visitor.Entity(cell.entity, cellIdx, cell.next, ex, ey, ew, eh)
			cellIdx = cell.next
		}
	}
}

// String returns a short human-readable summary of the tree's size.
func (q *Quadtree) String() string {
	return fmt.Sprintf("Quadtree{entities=%d, nodes=%d, maxDepth=%d, maxEntities=%d}",
		q.entities.Cursor(), q.nodes.Cursor(), q.maxDepth, q.maxEntities)
}
