package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// inputMeeting mirrors one element of the input YAML's top-level
// sequence.
type inputMeeting struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Attendees   []string `yaml:"attendees"`
	MinDate     string   `yaml:"min_date"`
	MaxDate     string   `yaml:"max_date"`
	Step        *int     `yaml:"step"`
	Duration    *int     `yaml:"duration"`
	Timezone    string   `yaml:"timezone"`
}

// wallClockLayout is the layout used for min_date/max_date: a naive,
// timezone-less wall-clock datetime interpreted local to the
// meeting's timezone.
const wallClockLayout = "2006-01-02T15:04:05"

// LoadInput parses the input YAML file into a validated, duplicate-free
// set of DesiredMeetings. Any input error returned here is fatal per §7.
func LoadInput(path string) ([]DesiredMeeting, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindInput, Message: "cannot read input file " + path, Err: err}
	}
	return ParseInput(raw)
}

// ParseInput parses raw YAML bytes shaped like the input file.
func ParseInput(raw []byte) ([]DesiredMeeting, error) {
	var entries []inputMeeting
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, &Error{Kind: KindInput, Message: "malformed input YAML", Err: err}
	}

	meetings := make([]DesiredMeeting, 0, len(entries))
	seenSlugs := make(map[string]string, len(entries))

	for _, e := range entries {
		step := DefaultStep
		if e.Step != nil {
			step = time.Duration(*e.Step) * time.Minute
		}
		duration := DefaultDuration
		if e.Duration != nil {
			duration = time.Duration(*e.Duration) * time.Minute
		}
		timezone := e.Timezone
		if timezone == "" {
			timezone = DefaultTimezone
		}

		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, &Error{Kind: KindInput, Message: fmt.Sprintf("unparseable timezone %q for meeting %q", timezone, e.Title), Err: err}
		}

		minDate, err := time.ParseInLocation(wallClockLayout, e.MinDate, loc)
		if err != nil {
			return nil, &Error{Kind: KindInput, Message: fmt.Sprintf("unparseable min_date for meeting %q", e.Title), Err: err}
		}
		maxDate, err := time.ParseInLocation(wallClockLayout, e.MaxDate, loc)
		if err != nil {
			return nil, &Error{Kind: KindInput, Message: fmt.Sprintf("unparseable max_date for meeting %q", e.Title), Err: err}
		}

		m := DesiredMeeting{
			Title:       e.Title,
			Slug:        Slugify(e.Title),
			Description: e.Description,
			Attendees:   e.Attendees,
			MinDate:     minDate.UTC(),
			MaxDate:     maxDate.UTC(),
			Step:        step,
			Duration:    duration,
			Timezone:    timezone,
		}

		if err := m.Validate(); err != nil {
			return nil, err
		}

		if prior, ok := seenSlugs[m.Slug]; ok {
			return nil, &Error{Kind: KindInput, Message: fmt.Sprintf("duplicate meeting slug %q (titles %q and %q)", m.Slug, prior, m.Title)}
		}
		seenSlugs[m.Slug] = m.Title

		meetings = append(meetings, m)
	}

	return meetings, nil
}
