// Copyright (c) 2026 The Loose-Quadtree Authors
// SPDX-License-Identifier: MIT

// Package quadtree provides a loose, pool-backed quadtree spatial index
// for axis-aligned rectangles.
//
// The tree stores integer rectangles ("entities") keyed by a stable,
// caller-visible id. Entities are inserted into every leaf their
// rectangle overlaps, leaves split once they exceed a configured
// capacity (subject to a precomputed maximum depth), and a separate
// Cleanup pass lazily collapses quadruplets of empty leaves back into
// a single empty leaf.
//
// All tree state (nodes, entities, and per-leaf entity-node chains)
// lives in pool-backed storage with stable indices, so the tree never
// needs to rewrite parent/child or chain links on growth. None of the
// public API is safe for concurrent mutation; see the package-level
// notes on Quadtree for the full concurrency contract.
package quadtree
