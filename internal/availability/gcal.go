package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/optirust-go/scheduler/internal/holidays"
	"github.com/optirust-go/scheduler/internal/model"
)

// GCalFetcher resolves busy intervals via the Google Calendar Events
// API, one identity at a time, in parallel. Grounded on the prior
// internal/calendar.GetBusyTimesWithBatching, generalized from a
// single batched FreeBusy call into per-identity errgroup fan-out over
// Events.List: FreeBusy collapses every event into an opaque busy
// block, which cannot distinguish all-day events or an attendee's own
// response status, so it cannot honor ignore_all_day_events or
// ignore_meetings_with_no_response. Also grounded on
// original_source/src/gcal.rs's fetch_availability_with_api (parallel
// fetch, joined by identity).
type GCalFetcher struct {
	Service  *gcal.Service
	Holidays *holidays.Service

	// IgnoreAllDayEvents drops all-day events from the busy set
	// (config.yaml's ignore_all_day_events, default true).
	IgnoreAllDayEvents bool

	// IgnoreNoResponse drops events the identity has not responded to
	// yet (config.yaml's ignore_meetings_with_no_response, default
	// true).
	IgnoreNoResponse bool
}

// Fetch implements Fetcher.
func (f *GCalFetcher) Fetch(ctx context.Context, identities []string, start, end time.Time) (*Store, []string, error) {
	store := NewStore()
	resolved := make(map[string]bool, len(identities))

	type result struct {
		identity  string
		intervals []model.BusyInterval
		resolved  bool
	}

	results := make([]result, len(identities))

	g, gctx := errgroup.WithContext(ctx)
	for i, identity := range identities {
		i, identity := i, identity
		g.Go(func() error {
			intervals, ok, err := f.fetchOne(gctx, identity, start, end)
			if err != nil {
				log.Warn().Err(err).Str("identity", identity).Msg("failed to fetch calendar availability")
				results[i] = result{identity: identity, resolved: false}
				return nil
			}
			results[i] = result{identity: identity, intervals: intervals, resolved: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, &model.Error{Kind: model.KindProvider, Message: "availability fetch failed", Err: err}
	}

	var missing []string
	for _, r := range results {
		if !r.resolved {
			missing = append(missing, r.identity)
			continue
		}
		resolved[r.identity] = true
		for _, interval := range r.intervals {
			store.Add(r.identity, interval)
		}
	}

	return store, missing, nil
}

func (f *GCalFetcher) fetchOne(ctx context.Context, identity string, start, end time.Time) ([]model.BusyInterval, bool, error) {
	cal, err := f.Service.Calendars.Get(identity).Context(ctx).Do()
	if err != nil {
		return nil, false, fmt.Errorf("get calendar %s (%s): %w", identity, categorizeCalendarError(err), err)
	}

	tz := time.UTC
	if cal.TimeZone != "" {
		if loc, locErr := time.LoadLocation(cal.TimeZone); locErr == nil {
			tz = loc
		}
	}

	var intervals []model.BusyInterval
	pageToken := ""
	for {
		call := f.Service.Events.List(identity).
			Context(ctx).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, false, fmt.Errorf("list events %s: %w", identity, err)
		}

		for _, ev := range resp.Items {
			if ev.Status == "cancelled" || ev.Start == nil || ev.End == nil {
				continue
			}
			allDay := ev.Start.DateTime == ""
			if allDay && f.IgnoreAllDayEvents {
				continue
			}
			if f.IgnoreNoResponse && needsResponse(ev, identity) {
				continue
			}

			bstart, bend, ok := eventSpan(ev, allDay, tz)
			if !ok {
				continue
			}
			intervals = append(intervals, model.BusyInterval{
				ID:    fmt.Sprintf("%s_busy_%s", identity, ev.Id),
				Start: bstart,
				End:   bend,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if f.Holidays != nil {
		holidayIntervals, err := f.Holidays.Holidays(ctx, identity, tz, start, end)
		if err != nil {
			log.Warn().Err(err).Str("identity", identity).Msg("holiday enrichment failed")
		}
		intervals = append(intervals, holidayIntervals...)
	}

	return intervals, true, nil
}

// needsResponse reports whether identity is listed among ev's
// attendees with a pending response.
func needsResponse(ev *gcal.Event, identity string) bool {
	for _, a := range ev.Attendees {
		if strings.EqualFold(a.Email, identity) {
			return a.ResponseStatus == "needsAction"
		}
	}
	return false
}

// eventSpan resolves ev's [start, end) in UTC. All-day events carry a
// date-only Start/End in tz; timed events carry an RFC3339 DateTime.
func eventSpan(ev *gcal.Event, allDay bool, tz *time.Location) (time.Time, time.Time, bool) {
	if allDay {
		start, err := time.ParseInLocation("2006-01-02", ev.Start.Date, tz)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end, err := time.ParseInLocation("2006-01-02", ev.End.Date, tz)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return start.UTC(), end.UTC(), true
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start.UTC(), end.UTC(), true
}

// GCalBooker inserts a calendar event for the winning candidate of a
// desired meeting. Grounded on original_source/src/gcal.rs's
// candidate_and_meeting_to_event / book_with_api.
type GCalBooker struct {
	Service *gcal.Service
}

// Book implements Booker.
func (b *GCalBooker) Book(ctx context.Context, meeting *model.DesiredMeeting, candidate *model.MeetingCandidate) error {
	attendees := make([]*gcal.EventAttendee, 0, len(meeting.Attendees)+1)
	for _, a := range meeting.Attendees {
		attendees = append(attendees, &gcal.EventAttendee{Email: a, ResponseStatus: "needsAction"})
	}
	if candidate.HasRoom() {
		attendees = append(attendees, &gcal.EventAttendee{
			Email:          candidate.Room,
			ResponseStatus: "needsAction",
			Resource:       true,
		})
	}

	event := &gcal.Event{
		Summary:     meeting.Title,
		Description: meeting.Description,
		Start:       &gcal.EventDateTime{DateTime: candidate.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: candidate.End.Format(time.RFC3339)},
		Attendees:   attendees,
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				"optirust_meeting_slug": meeting.Slug,
				"optirust_booking_id":   uuid.NewString(),
			},
		},
	}

	organizer := "primary"
	if len(meeting.Attendees) > 0 {
		organizer = meeting.Attendees[0]
	}

	_, err := b.Service.Events.Insert(organizer, event).Context(ctx).SendUpdates("all").Do()
	if err != nil {
		return &model.Error{Kind: model.KindBooking, Message: fmt.Sprintf("insert event for %q", meeting.Title), Err: err}
	}
	return nil
}
