package intervaltree

import (
	"testing"
	"time"
)

func t0(minutes int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func TestQueryFindsOverlapping(t *testing.T) {
	var tree Tree
	tree.Insert(t0(0), t0(30), "a")
	tree.Insert(t0(30), t0(60), "b")
	tree.Insert(t0(100), t0(130), "c")

	hits := tree.Query(t0(15), t0(45))
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %v", len(hits), hits)
	}
}

func TestQueryHalfOpen(t *testing.T) {
	var tree Tree
	tree.Insert(t0(0), t0(30), "a")

	if tree.Any(t0(30), t0(60)) {
		t.Fatal("expected no overlap for adjacent half-open interval")
	}
	if !tree.Any(t0(29), t0(60)) {
		t.Fatal("expected overlap one minute before boundary")
	}
}

func TestEmptyTree(t *testing.T) {
	var tree Tree
	if tree.Any(t0(0), t0(10)) {
		t.Fatal("empty tree should report no overlap")
	}
	if len(tree.Query(t0(0), t0(10))) != 0 {
		t.Fatal("empty tree should return no hits")
	}
}
