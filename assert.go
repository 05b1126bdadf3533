// Copyright (c) 2026 The Loose-Quadtree Authors
// SPDX-License-Identifier: MIT

package quadtree

import "fmt"

// assertf panics with a formatted message if cond is false.
//
// Precondition violations in this package (a caller-supplied dead
// entity id, a structural invariant broken by a bug in this package
// itself) are programmer errors, not recoverable conditions — there
// is nothing a caller could do with an error value here that panicking
// doesn't already do more directly.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
