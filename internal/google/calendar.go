package google

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/toogather/wabot/internal/domain/entity"
)

// DisplayDateLayout is the format events are shown in across replies
// and reminder messages, always in the configured local zone.
const (
	DisplayDateLayout = "2 January 2006, 15:04"
	displayTimeLayout = "15:04"
)

// Calendar implements contract.CalendarAPI over the Calendar v3 REST API.
type Calendar struct {
	client     *Client
	calendarID string
}

func NewCalendar(client *Client, calendarID string) *Calendar {
	return &Calendar{client: client, calendarID: calendarID}
}

type eventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type calendarEvent struct {
	ID          string     `json:"id,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *eventTime `json:"start,omitempty"`
	End         *eventTime `json:"end,omitempty"`
	HTMLLink    string     `json:"htmlLink,omitempty"`
}

func (c *Calendar) ListUpcoming(ctx context.Context, max int) ([]entity.UpcomingEvent, error) {
	token, err := c.client.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		Items []calendarEvent `json:"items"`
	}

	resp, err := c.client.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"timeMin":      time.Now().UTC().Format(time.RFC3339),
			"maxResults":   strconv.Itoa(max),
			"singleEvents": "true",
			"orderBy":      "startTime",
		}).
		SetResult(&out).
		Get(c.eventsURL(""))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to list events: %s", resp.Status())
	}

	var events []entity.UpcomingEvent
	for _, item := range out.Items {
		if item.Start == nil || (item.Start.DateTime == "" && item.Start.Date == "") {
			log.Printf("event %s has no start date, skipping", item.ID)
			continue
		}
		events = append(events, entity.UpcomingEvent{
			ID:        item.ID,
			Summary:   summaryOrDefault(item.Summary),
			StartDate: c.formatDateTime(item.Start, DisplayDateLayout),
			EndDate:   c.formatEnd(item.End),
		})
	}
	return events, nil
}

func (c *Calendar) GetDetails(ctx context.Context, eventID string) (*entity.EventDetail, error) {
	token, err := c.client.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	var out calendarEvent
	resp, err := c.client.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get(c.eventsURL(eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get event: %s", resp.Status())
	}

	return &entity.EventDetail{
		ID:          out.ID,
		Summary:     summaryOrDefault(out.Summary),
		Description: out.Description,
		Start:       c.formatDateTime(out.Start, DisplayDateLayout),
		End:         c.formatDateTime(out.End, displayTimeLayout),
		Location:    out.Location,
	}, nil
}

func (c *Calendar) Insert(ctx context.Context, summary, description, startISO, endISO string) (string, error) {
	token, err := c.client.auth.Token(ctx)
	if err != nil {
		return "", err
	}

	body := calendarEvent{
		Summary:     summary,
		Description: description,
		Start:       &eventTime{DateTime: startISO, TimeZone: c.client.loc.String()},
		End:         &eventTime{DateTime: endISO, TimeZone: c.client.loc.String()},
	}

	var out calendarEvent
	resp, err := c.client.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&out).
		Post(c.eventsURL(""))
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to insert event: %s", resp.Status())
	}

	return out.HTMLLink, nil
}

func (c *Calendar) eventsURL(eventID string) string {
	u := fmt.Sprintf("%s/calendars/%s/events", c.client.calendarBase, url.PathEscape(c.calendarID))
	if eventID != "" {
		u += "/" + url.PathEscape(eventID)
	}
	return u
}

// formatDateTime renders an event boundary in the local zone. All-day
// events carry only a date; events with an unparsable value fall back
// to the raw string rather than failing the whole listing.
func (c *Calendar) formatDateTime(t *eventTime, layout string) string {
	if t == nil {
		return "N/A"
	}

	raw := t.DateTime
	if raw == "" {
		raw = t.Date
	}
	if raw == "" {
		return "N/A"
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.In(c.client.loc).Format(layout)
	}
	if parsed, err := time.ParseInLocation("2006-01-02", raw, c.client.loc); err == nil {
		return parsed.Format(layout)
	}
	return raw
}

func (c *Calendar) formatEnd(t *eventTime) string {
	return c.formatDateTime(t, displayTimeLayout)
}

func summaryOrDefault(summary string) string {
	if summary == "" {
		return "No title"
	}
	return summary
}
