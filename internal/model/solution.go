package model

// Pair is an unordered, canonically-sorted pair of candidate ids.
type Pair [2]string

// NewPair returns a and b sorted lexicographically so that {a,b} and
// {b,a} canonicalize to the same value.
func NewPair(a, b string) Pair {
	if a <= b {
		return Pair{a, b}
	}
	return Pair{b, a}
}

// SolverInput is the frozen tuple handed to the ILP encoder: every
// surviving candidate, the candidates grouped by the title of the
// desired meeting they belong to, the pairwise time-conflict relation,
// and the desired meetings themselves (needed to map a chosen
// candidate id back to the meeting it satisfies).
type SolverInput struct {
	Candidates               map[string]*MeetingCandidate
	CandidatesByMeetingTitle map[string][]string
	Intersections            []Pair
	DesiredMeetings          []DesiredMeeting
}

// NewSolverInput returns an empty, ready-to-populate SolverInput.
func NewSolverInput() *SolverInput {
	return &SolverInput{
		Candidates:               make(map[string]*MeetingCandidate),
		CandidatesByMeetingTitle: make(map[string][]string),
	}
}

// AddCandidate registers c under its desired meeting's title.
func (s *SolverInput) AddCandidate(c *MeetingCandidate) {
	s.Candidates[c.ID] = c
	s.CandidatesByMeetingTitle[c.Title] = append(s.CandidatesByMeetingTitle[c.Title], c.ID)
}

// AssignmentEntry pairs a desired meeting with the candidate chosen for it.
type AssignmentEntry struct {
	Meeting   DesiredMeeting
	Candidate MeetingCandidate
}

// Solution is the outcome of a scheduling run. Assignment is keyed by
// the desired meeting's slug, its stable identity. When Solved is
// false, Assignment is empty.
type Solution struct {
	Solved     bool
	Assignment map[string]AssignmentEntry
}
