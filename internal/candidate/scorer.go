package candidate

import (
	"time"

	"github.com/optirust-go/scheduler/internal/availability"
)

// window is one expansion radius of the clustering kernel and its
// per-overlap weight.
type window struct {
	radius time.Duration
	weight int
}

var scoringWindows = []window{
	{radius: 2 * time.Hour, weight: 20},
	{radius: time.Hour, weight: 100},
	{radius: 30 * time.Minute, weight: 300},
	{radius: 15 * time.Minute, weight: 600},
}

// DefaultScorer rewards candidates that cluster against attendees'
// existing commitments: for each attendee and each expansion radius,
// every busy interval overlapping the slot expanded by that radius on
// both sides adds the radius's weight. Smaller windows nest inside
// larger ones, so a close overlap is counted at every radius that
// contains it — an intentional decaying-kernel approximation, not a
// bug.
type DefaultScorer struct{}

func (DefaultScorer) Score(store *availability.Store, attendees []string, start, end time.Time) int {
	score := 1
	for _, a := range attendees {
		for _, w := range scoringWindows {
			wStart := start.Add(-w.radius)
			wEnd := end.Add(w.radius)
			score += w.weight * store.Overlaps(a, wStart, wEnd)
		}
	}
	return score
}
