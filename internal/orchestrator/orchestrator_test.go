package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/optirust-go/scheduler/internal/availability"
	"github.com/optirust-go/scheduler/internal/candidate"
	"github.com/optirust-go/scheduler/internal/model"
	"github.com/optirust-go/scheduler/internal/slotgen"
	"github.com/optirust-go/scheduler/internal/solver"
)

// fakeFetcher returns an empty Store (every identity entirely free) for
// whatever identities it is asked about.
type fakeFetcher struct{}

func (fakeFetcher) Fetch(_ context.Context, _ []string, _, _ time.Time) (*availability.Store, []string, error) {
	return availability.NewStore(), nil, nil
}

// fakeSolver always reports a feasible solution and assigns each
// meeting the first of its candidates that map iteration reaches,
// ignoring conflicts; tests that need infeasibility use
// infeasibleSolver instead.
type fakeSolver struct{}

func (fakeSolver) Solve(_ context.Context, input *model.SolverInput) (*model.Solution, error) {
	meetingByTitle := make(map[string]model.DesiredMeeting, len(input.DesiredMeetings))
	for _, m := range input.DesiredMeetings {
		meetingByTitle[m.Title] = m
	}
	assignment := make(map[string]model.AssignmentEntry)
	for _, c := range input.Candidates {
		if _, taken := assignment[meetingByTitle[c.Title].Slug]; taken {
			continue
		}
		assignment[meetingByTitle[c.Title].Slug] = model.AssignmentEntry{Meeting: meetingByTitle[c.Title], Candidate: *c}
	}
	return &model.Solution{Solved: true, Assignment: assignment}, nil
}

type infeasibleSolver struct{}

func (infeasibleSolver) Solve(_ context.Context, _ *model.SolverInput) (*model.Solution, error) {
	return &model.Solution{Solved: false}, nil
}

type fakeBooker struct {
	booked []string
}

func (b *fakeBooker) Book(_ context.Context, meeting *model.DesiredMeeting, _ *model.MeetingCandidate) error {
	b.booked = append(b.booked, meeting.Slug)
	return nil
}

func meeting(title string, minDate, maxDate time.Time) model.DesiredMeeting {
	return model.DesiredMeeting{
		Title:     title,
		Slug:      model.Slugify(title),
		Attendees: []string{"a@x", "b@x"},
		MinDate:   minDate,
		MaxDate:   maxDate,
		Step:      30 * time.Minute,
		Duration:  30 * time.Minute,
		Timezone:  "UTC",
	}
}

// fixedNow anchors dropPast to a deterministic instant before every
// fixture meeting's window, so tests never depend on wall-clock time.
var fixedNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func baseOpts() *Options {
	return &Options{
		Fetcher:        fakeFetcher{},
		Solver:         fakeSolver{},
		Scorer:         candidate.DefaultScorer{},
		RejectDate:     slotgen.DateRejectorFunc(slotgen.DefaultRejectDate),
		RejectDatetime: slotgen.DatetimeRejectorFunc(slotgen.DefaultRejectDatetime),
		Now:            func() time.Time { return fixedNow },
	}
}

func TestRunSingleMeetingEmptyCalendars(t *testing.T) {
	thu := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	fri := time.Date(2026, 1, 2, 17, 0, 0, 0, time.UTC)
	meetings := []model.DesiredMeeting{meeting("Planning sync", thu, fri)}

	opts := baseOpts()
	solution, err := Run(context.Background(), meetings, &model.Config{}, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !solution.Solved {
		t.Fatal("expected a solved solution against empty calendars")
	}
	entry, ok := solution.Assignment["planningsync"]
	if !ok {
		t.Fatal("expected an assignment for planningsync")
	}
	if entry.Candidate.Score != 1 {
		t.Fatalf("expected score 1 with no neighboring busy intervals, got %d", entry.Candidate.Score)
	}
}

func TestRunEmptyMeetingsReturnsSolvedEmpty(t *testing.T) {
	opts := baseOpts()
	solution, err := Run(context.Background(), nil, &model.Config{}, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !solution.Solved || len(solution.Assignment) != 0 {
		t.Fatalf("expected a trivially solved empty solution, got %+v", solution)
	}
}

func TestRunInfeasibleReturnsUnsolved(t *testing.T) {
	thu := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	fri := time.Date(2026, 1, 2, 17, 0, 0, 0, time.UTC)
	meetings := []model.DesiredMeeting{meeting("Planning sync", thu, fri)}

	opts := baseOpts()
	opts.Solver = infeasibleSolver{}
	solution, err := Run(context.Background(), meetings, &model.Config{}, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if solution.Solved {
		t.Fatal("expected an unsolved solution")
	}
}

func TestRunBooksWinningAssignment(t *testing.T) {
	thu := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	fri := time.Date(2026, 1, 2, 17, 0, 0, 0, time.UTC)
	meetings := []model.DesiredMeeting{meeting("Planning sync", thu, fri)}

	booker := &fakeBooker{}
	opts := baseOpts()
	opts.Book = true
	opts.Booker = booker

	solution, err := Run(context.Background(), meetings, &model.Config{}, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !solution.Solved {
		t.Fatal("expected solved solution")
	}
	if len(booker.booked) != 1 || booker.booked[0] != "planningsync" {
		t.Fatalf("expected planningsync to be booked, got %v", booker.booked)
	}
}

func TestRunResolvesMailingListAttendees(t *testing.T) {
	thu := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	fri := time.Date(2026, 1, 2, 17, 0, 0, 0, time.UTC)
	m := meeting("Planning sync", thu, fri)
	m.Attendees = []string{"team@x"}
	meetings := []model.DesiredMeeting{m}

	opts := baseOpts()
	opts.AttendeeResolver = resolverFunc(func(_ context.Context, emails []string) ([]string, error) {
		if len(emails) != 1 || emails[0] != "team@x" {
			t.Fatalf("unexpected emails passed to resolver: %v", emails)
		}
		return []string{"a@x", "b@x"}, nil
	})

	solution, err := Run(context.Background(), meetings, &model.Config{}, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !solution.Solved {
		t.Fatal("expected solved solution")
	}
	if len(meetings[0].Attendees) != 2 {
		t.Fatalf("expected mailing list to expand to 2 attendees, got %v", meetings[0].Attendees)
	}
}

type resolverFunc func(ctx context.Context, emails []string) ([]string, error)

func (f resolverFunc) ResolveAttendees(ctx context.Context, emails []string) ([]string, error) {
	return f(ctx, emails)
}

func TestGatherIdentitiesUnionsAttendeesAndRooms(t *testing.T) {
	meetings := []model.DesiredMeeting{
		{Attendees: []string{"a@x", "b@x"}},
		{Attendees: []string{"c@x"}},
	}
	cfg := &model.Config{SmallRooms: []string{"small1"}, LargeRooms: []string{"large1"}}
	picker := candidate.ConfigRoomPicker{SmallRooms: cfg.SmallRooms, LargeRooms: cfg.LargeRooms}

	identities := gatherIdentities(meetings, cfg, picker)

	want := map[string]bool{"a@x": true, "b@x": true, "c@x": true, "small1": true, "large1": true}
	if len(identities) != len(want) {
		t.Fatalf("expected %d identities, got %d: %v", len(want), len(identities), identities)
	}
	for _, id := range identities {
		if !want[id] {
			t.Fatalf("unexpected identity %q", id)
		}
	}
}

var _ solver.Backend = fakeSolver{}
var _ availability.Fetcher = fakeFetcher{}
var _ availability.Booker = (*fakeBooker)(nil)
