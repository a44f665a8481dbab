// Package conflict builds the pairwise time-conflict relation used by
// the ILP encoder: two surviving candidates conflict if
// their [start, end) ranges overlap, regardless of room assignment.
package conflict

import (
	"github.com/optirust-go/scheduler/internal/intervaltree"
	"github.com/optirust-go/scheduler/internal/model"
)

// Index returns the deduplicated, canonically-sorted set of conflicting
// candidate id pairs. Every candidate is inserted into a fresh interval
// tree keyed by its own [start, end); each candidate is then queried
// against the tree and every non-self match becomes a pair.
func Index(candidates []*model.MeetingCandidate) []model.Pair {
	var tree intervaltree.Tree
	for _, c := range candidates {
		tree.Insert(c.Start, c.End, c.ID)
	}

	seen := make(map[model.Pair]bool)
	var pairs []model.Pair
	for _, c := range candidates {
		for _, hit := range tree.Query(c.Start, c.End) {
			if hit.Payload == c.ID {
				continue
			}
			pair := model.NewPair(c.ID, hit.Payload)
			if seen[pair] {
				continue
			}
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}
	return pairs
}
