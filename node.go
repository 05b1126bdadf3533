// Copyright (c) 2026 The Loose-Quadtree Authors
// SPDX-License-Identifier: MIT

package quadtree

// branchFlag is the sentinel value of node.numChildren that marks a
// node as a branch rather than a leaf. Any other value (including 0)
// means the node is a leaf, and numChildren counts its entity-node
// chain. A sentinel keeps node a single flat struct instead of a
// tagged union.
const branchFlag = -1

// node is either a leaf or a branch, discriminated by numChildren.
//
// Leaf: numChildren >= 0, firstChild is the head of the leaf's
// entityNode chain or noneIndex if empty.
//
// Branch: numChildren == branchFlag, firstChild is the pool index of
// the first of four contiguous child nodes, ordered NW, NE, SW, SE.
// Children of a branch are always addressed as firstChild+q for
// q in {0,1,2,3} — never stored individually — which is what makes
// the four-at-a-time allocate/erase discipline in leafInsert's split
// and in Cleanup load-bearing rather than cosmetic.
type node struct {
	firstChild  int
	numChildren int
}

func newLeaf() node {
	return node{firstChild: noneIndex, numChildren: 0}
}

func (n node) isLeaf() bool {
	return n.numChildren != branchFlag
}

// nodeData is the transient descriptor carried during descent: a
// node's pool index plus its geometry, derived on the fly from the
// root's stored center and half-extents by repeated halving. Nothing
// here is ever persisted in the tree itself — every insert, remove,
// query, or traverse walk starts back at the root descriptor and
// rebuilds this as it goes.
type nodeData struct {
	idx    int
	depth  int
	x, y   int
	hx, hy int
}

// quarters computes the four child descriptors of nd in NW, NE, SW,
// SE order, given the branch's firstChild pool index.
func (nd nodeData) quarters(firstChild int) [4]nodeData {
	qx, qy := nd.hx/2, nd.hy/2
	l, t := nd.x-qx, nd.y-qy
	r, b := nd.x+qx, nd.y+qy
	depth := nd.depth + 1
	return [4]nodeData{
		{idx: firstChild + 0, depth: depth, x: l, y: t, hx: qx, hy: qy}, // NW
		{idx: firstChild + 1, depth: depth, x: r, y: t, hx: qx, hy: qy}, // NE
		{idx: firstChild + 2, depth: depth, x: l, y: b, hx: qx, hy: qy}, // SW
		{idx: firstChild + 3, depth: depth, x: r, y: b, hx: qx, hy: qy}, // SE
	}
}

// findLeaves descends from start, via an explicit stack, collecting
// every leaf whose region overlaps the query rectangle (left, top,
// right, bottom). The pruning predicates are asymmetric by design
// (<= on left/top, > on right/bottom) so that a rectangle lying
// exactly on a split axis is routed to exactly one side per axis,
// never both.
func (q *Quadtree) findLeaves(start nodeData, left, top, right, bottom int) []nodeData {
	var leaves []nodeData
	stack := []nodeData{start}

	for len(stack) > 0 {
		n := len(stack) - 1
		nd := stack[n]
		stack = stack[:n]

		if q.nodes.Get(nd.idx).isLeaf() {
			leaves = append(leaves, nd)
			continue
		}

		fc := q.nodes.Get(nd.idx).firstChild
		children := nd.quarters(fc)

		if top <= nd.y {
			if left <= nd.x {
				stack = append(stack, children[0]) // NW
			}
			if right > nd.x {
				stack = append(stack, children[1]) // NE
			}
		}
		if bottom > nd.y {
			if left <= nd.x {
				stack = append(stack, children[2]) // SW
			}
			if right > nd.x {
				stack = append(stack, children[3]) // SE
			}
		}
	}

	return leaves
}

// nodeInsert reads entityID's rectangle and inserts it into every
// leaf under start that it overlaps.
func (q *Quadtree) nodeInsert(start nodeData, entityID int) {
	r := q.entities.Get(entityID)
	for _, leaf := range q.findLeaves(start, r.left, r.top, r.right, r.bottom) {
		q.leafInsert(leaf, entityID)
	}
}

// leafInsert prepends an entityNode cell for entityID onto nd's
// chain, then either bumps the leaf's count or splits it.
//
// Precondition: nd.idx names a leaf.
func (q *Quadtree) leafInsert(nd nodeData, entityID int) {
	leaf := q.nodes.Get(nd.idx)
	assertf(leaf.isLeaf(), "leafInsert: node %d is a branch", nd.idx)

	cell := q.entityNodes.Push(entityNode{entity: entityID, next: leaf.firstChild})
	leaf.firstChild = cell
	q.nodes.Set(nd.idx, leaf)

	if leaf.numChildren < q.maxEntities || nd.depth == q.maxDepth {
		leaf = q.nodes.Get(nd.idx)
		leaf.numChildren++
		q.nodes.Set(nd.idx, leaf)
		return
	}

	q.split(nd)
}

// split drains nd's entity-node chain into a scratch list, turns nd
// into a branch over four freshly allocated empty leaves, and
// reinserts every drained entity starting back from nd — which, now
// that nd is a branch, routes each one into whichever of the four new
// children its rectangle actually overlaps. A child that immediately
// overflows recurses into its own split.
func (q *Quadtree) split(nd nodeData) {
	var drained []int

	leaf := q.nodes.Get(nd.idx)
	for leaf.firstChild != noneIndex {
		cellIdx := leaf.firstChild
		cell := q.entityNodes.Get(cellIdx)
		leaf.firstChild = cell.next
		q.entityNodes.Erase(cellIdx)
		drained = append(drained, cell.entity)
	}

	fc := q.nodes.Insert(newLeaf())
	q.nodes.Insert(newLeaf())
	q.nodes.Insert(newLeaf())
	q.nodes.Insert(newLeaf())

	q.nodes.Set(nd.idx, node{firstChild: fc, numChildren: branchFlag})

	for _, id := range drained {
		q.nodeInsert(nd, id)
	}
}
