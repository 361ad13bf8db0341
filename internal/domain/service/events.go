package service

import (
	"context"
	"strings"
	"time"

	"github.com/toogather/wabot/internal/domain/apperr"
	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/domain/entity"
)

const upcomingEventsLimit = 5

// jadwalkanDateLayout is the date+time format of the !jadwalkan command
// arguments.
const jadwalkanDateLayout = "02/01/2006 15:04"

// eventService answers calendar queries and schedules posts as calendar
// events.
type eventService struct {
	calendar contract.CalendarAPI
	loc      *time.Location
}

func newEvents(calendar contract.CalendarAPI, loc *time.Location) *eventService {
	return &eventService{calendar: calendar, loc: loc}
}

// Upcoming fetches the next events, freshly on every call.
func (s *eventService) Upcoming(ctx context.Context) ([]entity.UpcomingEvent, error) {
	events, err := s.calendar.ListUpcoming(ctx, upcomingEventsLimit)
	if err != nil {
		return nil, apperr.Provider("list events: %v", err)
	}
	return events, nil
}

// Search finds the first upcoming event whose summary contains query
// (case insensitive) and returns its details.
func (s *eventService) Search(ctx context.Context, query string) (*entity.EventDetail, error) {
	events, err := s.calendar.ListUpcoming(ctx, upcomingEventsLimit)
	if err != nil {
		return nil, apperr.Provider("list events: %v", err)
	}

	query = strings.ToLower(query)
	for _, event := range events {
		if strings.Contains(strings.ToLower(event.Summary), query) {
			detail, err := s.calendar.GetDetails(ctx, event.ID)
			if err != nil {
				return nil, apperr.Provider("get event %s: %v", event.ID, err)
			}
			return detail, nil
		}
	}

	return nil, apperr.NotFound("event matching %q", query)
}

// SchedulePost creates a calendar event for a client's post and returns
// the event link. date is DD/MM/YYYY, timeRange is HH:MM-HH:MM.
func (s *eventService) SchedulePost(ctx context.Context, client, code, date, timeRange string) (string, error) {
	startRaw, endRaw, ok := strings.Cut(timeRange, "-")
	if !ok {
		return "", apperr.Format("time range %q, want HH:MM-HH:MM", timeRange)
	}

	start, err := time.ParseInLocation(jadwalkanDateLayout, date+" "+strings.TrimSpace(startRaw), s.loc)
	if err != nil {
		return "", apperr.Format("start %q %q: %v", date, startRaw, err)
	}
	end, err := time.ParseInLocation(jadwalkanDateLayout, date+" "+strings.TrimSpace(endRaw), s.loc)
	if err != nil {
		return "", apperr.Format("end %q %q: %v", date, endRaw, err)
	}

	summary := "Posting " + client + " [" + code + "]"
	description := "Post untuk klien " + client + " dengan kode " + code

	link, err := s.calendar.Insert(ctx, summary, description,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return "", apperr.Provider("insert event: %v", err)
	}
	return link, nil
}
