// Package intervaltree implements the half-open interval index of
// an ordered set of [start, end) intervals supporting
// overlap queries. The tree is not rebalanced on insert, so a query
// costs O(h + k) for tree height h: close to O(log n + k) when
// intervals arrive in mixed start order, but up to O(n) when they are
// inserted in increasing start order.
//
// No third-party Go interval-tree library turned up anywhere in the
// retrieval pack (see DESIGN.md) — the closest analogue is the
// bio::data_structures::interval_tree::IntervalTree the original Rust
// program (original_source/src/gcal.rs, types.rs) used to back its
// MeetingsTree. This is an augmented binary search tree in that same
// spirit: each node is keyed by interval start and carries the max end
// time in its subtree, which lets Query prune branches that cannot
// overlap the query range.
package intervaltree

import "time"

// Entry is one stored interval and its payload, as returned by Query.
type Entry struct {
	Start   time.Time
	End     time.Time
	Payload string
}

type node struct {
	start, end time.Time
	maxEnd     time.Time
	payload    string
	left       *node
	right      *node
}

// Tree is an interval index over half-open [start, end) ranges. The
// zero value is an empty, ready-to-use tree.
type Tree struct {
	root *node
}

// Insert adds [start, end) with the given payload. Duplicate intervals
// and duplicate payloads are both permitted.
func (t *Tree) Insert(start, end time.Time, payload string) {
	t.root = insert(t.root, start, end, payload)
}

func insert(n *node, start, end time.Time, payload string) *node {
	if n == nil {
		return &node{start: start, end: end, maxEnd: end, payload: payload}
	}
	if start.Before(n.start) {
		n.left = insert(n.left, start, end, payload)
	} else {
		n.right = insert(n.right, start, end, payload)
	}
	if n.maxEnd.Before(end) {
		n.maxEnd = end
	}
	if n.left != nil && n.maxEnd.Before(n.left.maxEnd) {
		n.maxEnd = n.left.maxEnd
	}
	if n.right != nil && n.maxEnd.Before(n.right.maxEnd) {
		n.maxEnd = n.right.maxEnd
	}
	return n
}

// overlaps reports strict half-open overlap: a.start < b.end && b.start < a.end.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Query returns every stored entry whose range overlaps [start, end).
// Result order is unspecified.
func (t *Tree) Query(start, end time.Time) []Entry {
	var out []Entry
	query(t.root, start, end, &out)
	return out
}

func query(n *node, start, end time.Time, out *[]Entry) {
	if n == nil {
		return
	}
	// Nothing in this subtree ends after `start`, so nothing here can
	// overlap [start, end).
	if !n.maxEnd.After(start) {
		return
	}
	if n.left != nil {
		query(n.left, start, end, out)
	}
	if overlaps(n.start, n.end, start, end) {
		*out = append(*out, Entry{Start: n.start, End: n.end, Payload: n.payload})
	}
	// The right subtree only needs visiting if it could still start
	// before the query window ends.
	if n.right != nil && n.start.Before(end) {
		query(n.right, start, end, out)
	}
}

// Any reports whether any stored interval overlaps [start, end),
// without materializing the full result set.
func (t *Tree) Any(start, end time.Time) bool {
	return any(t.root, start, end)
}

func any(n *node, start, end time.Time) bool {
	if n == nil {
		return false
	}
	if !n.maxEnd.After(start) {
		return false
	}
	if n.left != nil && any(n.left, start, end) {
		return true
	}
	if overlaps(n.start, n.end, start, end) {
		return true
	}
	if n.right != nil && n.start.Before(end) {
		return any(n.right, start, end)
	}
	return false
}
