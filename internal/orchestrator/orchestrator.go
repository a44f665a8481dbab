// Package orchestrator wires every component into the end-to-end
// pipeline over already-parsed input and config: resolve attendees,
// fetch availability, build and score
// candidates, index conflicts, encode and solve, and optionally book
// the winning assignment.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/optirust-go/scheduler/internal/availability"
	"github.com/optirust-go/scheduler/internal/candidate"
	"github.com/optirust-go/scheduler/internal/conflict"
	"github.com/optirust-go/scheduler/internal/model"
	"github.com/optirust-go/scheduler/internal/slotgen"
	"github.com/optirust-go/scheduler/internal/solver"
)

// Options bundles every pluggable policy threaded through the pipeline.
// Narrow, per-concern interfaces rather than one god interface, with
// documented config-driven defaults.
type Options struct {
	Fetcher          availability.Fetcher
	Booker           availability.Booker
	Solver           solver.Backend
	Scorer           candidate.Scorer
	RoomPicker       candidate.RoomPicker
	AttendeeResolver AttendeeResolver

	RejectDate     slotgen.DateRejector
	RejectDatetime slotgen.DatetimeRejector

	IgnoreAllDayEvents   bool
	IgnoreNoResponse     bool
	ConsiderPastMeetings bool

	// Book requests that a solved assignment be committed to the
	// calendar provider; otherwise the run is a dry run.
	Book bool

	// Now supplies the reference instant dropPast compares slots
	// against, keeping the run deterministic given fixed inputs.
	// Defaults to time.Now via NewOptions; tests set it explicitly.
	Now func() time.Time
}

// AttendeeResolver expands mailing-list addresses among a meeting's
// attendees into individual members before scheduling. Nil means
// attendees are taken verbatim.
type AttendeeResolver interface {
	ResolveAttendees(ctx context.Context, emails []string) ([]string, error)
}

// NewOptions builds the config-driven default Options: a
// ConfigRoomPicker over cfg's room pools, DefaultScorer, and either
// the config's reject_iso_weekday/reject_hour_range policies or the
// package defaults (Wed/Sat/Sun, 12:00-13:00 lunch).
func NewOptions(cfg *model.Config) *Options {
	return &Options{
		Scorer:               candidate.DefaultScorer{},
		RoomPicker:           candidate.ConfigRoomPicker{SmallRooms: cfg.SmallRooms, LargeRooms: cfg.LargeRooms},
		RejectDate:           configRejectDate(cfg),
		RejectDatetime:       configRejectDatetime(cfg),
		IgnoreAllDayEvents:   cfg.IgnoreAllDay(),
		IgnoreNoResponse:     cfg.IgnoreNoResponse(),
		ConsiderPastMeetings: false,
		Solver:               &solver.CBCBackend{},
		Now:                  time.Now,
	}
}

func configRejectDate(cfg *model.Config) slotgen.DateRejector {
	if len(cfg.RejectISOWeekday) == 0 {
		return slotgen.DateRejectorFunc(slotgen.DefaultRejectDate)
	}
	rejected := make(map[int]bool, len(cfg.RejectISOWeekday))
	for _, wd := range cfg.RejectISOWeekday {
		rejected[wd] = true
	}
	return slotgen.DateRejectorFunc(func(d time.Time) bool {
		iso := int(d.Weekday())
		if iso == 0 {
			iso = 7
		}
		return rejected[iso]
	})
}

func configRejectDatetime(cfg *model.Config) slotgen.DatetimeRejector {
	if len(cfg.RejectHourRange) == 0 {
		return slotgen.DatetimeRejectorFunc(slotgen.DefaultRejectDatetime)
	}
	ranges := cfg.RejectHourRange
	return slotgen.DatetimeRejectorFunc(func(start, end time.Time) bool {
		for _, r := range ranges {
			from := dateAt(start, r.From)
			to := dateAt(start, r.To)
			if start.Before(to) && from.Before(end) {
				return true
			}
		}
		return false
	})
}

// dateAt builds the time.Time on date's calendar day at the given
// hour/minute/second, in date's location.
func dateAt(date time.Time, hms model.HMS) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hms.Hours, hms.Minutes, hms.Seconds, 0, date.Location())
}

// Run executes the full scheduling pipeline for meetings against cfg
// and opts, returning the resulting Solution.
func Run(ctx context.Context, meetings []model.DesiredMeeting, cfg *model.Config, opts *Options) (*model.Solution, error) {
	if len(meetings) == 0 {
		return &model.Solution{Solved: true, Assignment: map[string]model.AssignmentEntry{}}, nil
	}

	if opts.AttendeeResolver != nil {
		for i := range meetings {
			resolved, err := opts.AttendeeResolver.ResolveAttendees(ctx, meetings[i].Attendees)
			if err != nil {
				return nil, &model.Error{Kind: model.KindProvider, Message: "resolve attendees for " + meetings[i].Title, Err: err}
			}
			meetings[i].Attendees = resolved
		}
	}

	identities := gatherIdentities(meetings, cfg, opts.RoomPicker)

	windowStart, windowEnd := globalWindow(meetings)

	store, missing, err := opts.Fetcher.Fetch(ctx, identities, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		for _, id := range missing {
			log.Warn().Str("identity", id).Msg("no accessible calendar; aborting run")
		}
		return nil, &model.Error{
			Kind:    model.KindProvider,
			Message: fmt.Sprintf("could not fetch availability for %d identities: %v", len(missing), missing),
		}
	}

	input := model.NewSolverInput()
	input.DesiredMeetings = meetings

	builder := &candidate.Builder{Store: store, RoomPicker: opts.RoomPicker, Scorer: opts.Scorer}

	var allCandidates []*model.MeetingCandidate
	for i := range meetings {
		m := &meetings[i]
		slots, err := slotgen.Generate(m, opts.RejectDate, opts.RejectDatetime)
		if err != nil {
			return nil, err
		}
		if !opts.ConsiderPastMeetings {
			slots = dropPast(slots, opts.now())
		}

		for _, slot := range slots {
			c, ok := builder.Build(m, slot)
			if !ok {
				continue
			}
			cp := &c
			input.AddCandidate(cp)
			allCandidates = append(allCandidates, cp)
		}
	}

	input.Intersections = conflict.Index(allCandidates)

	solution, err := opts.Solver.Solve(ctx, input)
	if err != nil {
		var appErr *model.Error
		if !errors.As(err, &appErr) || appErr.Kind.Fatal() {
			return nil, err
		}
		log.Warn().Err(err).Msg("solver failed; treating run as infeasible")
		solution = &model.Solution{Solved: false}
	}

	if !solution.Solved {
		log.Warn().Msg("no optimal assignment found")
		return solution, nil
	}

	if opts.Book && opts.Booker != nil {
		if err := bookAll(ctx, opts.Booker, solution); err != nil {
			return solution, err
		}
	}

	return solution, nil
}

func bookAll(ctx context.Context, booker availability.Booker, solution *model.Solution) error {
	g, gctx := errgroup.WithContext(ctx)
	for slug, entry := range solution.Assignment {
		entry := entry
		slug := slug
		g.Go(func() error {
			if err := booker.Book(gctx, &entry.Meeting, &entry.Candidate); err != nil {
				log.Error().Err(err).Str("meeting", slug).Msg("booking failed")
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// gatherIdentities unions every meeting's attendees with every room
// the picker might return for any attendee count seen in the input.
func gatherIdentities(meetings []model.DesiredMeeting, cfg *model.Config, picker candidate.RoomPicker) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	seenCounts := make(map[int]bool)
	for _, m := range meetings {
		for _, a := range m.Attendees {
			add(a)
		}
		seenCounts[len(m.Attendees)] = true
	}

	if picker != nil {
		for n := range seenCounts {
			if pool, ok := picker.PickRooms(n); ok {
				for _, r := range pool {
					add(r)
				}
			}
		}
	}
	for _, r := range cfg.AllRooms() {
		add(r)
	}

	return out
}

// dropPast filters out slots that have already ended relative to now,
// the default behavior when consider_meetings_in_the_past is false.
func dropPast(slots []model.Slot, now time.Time) []model.Slot {
	out := slots[:0]
	for _, s := range slots {
		if s.End.After(now) {
			out = append(out, s)
		}
	}
	return out
}

// now returns opts.Now, defaulting to the wall clock when unset so
// Options built by hand (outside NewOptions) still work.
func (opts *Options) now() time.Time {
	if opts.Now == nil {
		return time.Now()
	}
	return opts.Now()
}

func globalWindow(meetings []model.DesiredMeeting) (start, end time.Time) {
	start = meetings[0].MinDate
	end = meetings[0].MaxDate
	for _, m := range meetings[1:] {
		if m.MinDate.Before(start) {
			start = m.MinDate
		}
		if m.MaxDate.After(end) {
			end = m.MaxDate
		}
	}
	return start, end
}
