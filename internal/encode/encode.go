// Package encode turns a SolverInput into the LP-format text CBC
// reads. Grounded on original_source/src/solver.rs's
// to_lp_fmt, including its golden-output test.
package encode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/optirust-go/scheduler/internal/model"
)

// ToLP renders in the objective/meeting-constraints/conflict-constraints
// order. Output is fully deterministic: every listing is sorted
// lexicographically by candidate id.
func ToLP(input *model.SolverInput) string {
	ids := make([]string, 0, len(input.Candidates))
	for id := range input.Candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder

	b.WriteString("Maximize\n")
	b.WriteString("  obj: ")
	terms := make([]string, len(ids))
	for i, id := range ids {
		terms[i] = fmt.Sprintf("%d %s", input.Candidates[id].Score, id)
	}
	b.WriteString(strings.Join(terms, " + "))
	b.WriteString("\n")

	b.WriteString("Subject To\n")

	// Meeting constraints are ordered by the lexicographically smallest
	// candidate id in each meeting's group, not by title: the encoding
	// is keyed entirely on variable ids (the golden example
	// orders "id0 = 1" before "id10873 = 1" even though their titles
	// sort the other way).
	titles := make([]string, 0, len(input.CandidatesByMeetingTitle))
	sortedGroups := make(map[string][]string, len(input.CandidatesByMeetingTitle))
	for title, candidateIDs := range input.CandidatesByMeetingTitle {
		group := append([]string(nil), candidateIDs...)
		sort.Strings(group)
		sortedGroups[title] = group
		titles = append(titles, title)
	}
	sort.Slice(titles, func(i, j int) bool {
		return sortedGroups[titles[i]][0] < sortedGroups[titles[j]][0]
	})
	for _, title := range titles {
		b.WriteString("  ")
		b.WriteString(strings.Join(sortedGroups[title], " + "))
		b.WriteString(" = 1\n")
	}

	pairs := append([]model.Pair(nil), input.Intersections...)
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %s + %s <= 1\n", p[0], p[1])
	}

	b.WriteString("Binary\n")
	b.WriteString("  ")
	b.WriteString(strings.Join(ids, " "))
	b.WriteString("\n")

	b.WriteString("End")

	return b.String()
}
