// Package google holds the thin REST adapters for the Google Calendar
// and Sheets APIs, authenticated with a service account.
package google

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultCalendarBaseURL = "https://www.googleapis.com/calendar/v3"
	defaultSheetsBaseURL   = "https://sheets.googleapis.com/v4"
)

type Client struct {
	rest *resty.Client
	auth *tokenSource
	loc  *time.Location

	calendarBase string
	sheetsBase   string
}

type ClientOptions struct {
	CredentialsFile string
	Location        *time.Location

	// Overridable endpoints, used by tests.
	CalendarBaseURL string
	SheetsBaseURL   string
	TokenURL        string
}

func NewClient(opts ClientOptions) (*Client, error) {
	rest := resty.New().SetTimeout(30 * time.Second)

	auth, err := newTokenSource(opts.CredentialsFile, opts.TokenURL, rest)
	if err != nil {
		return nil, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	calendarBase := opts.CalendarBaseURL
	if calendarBase == "" {
		calendarBase = defaultCalendarBaseURL
	}
	sheetsBase := opts.SheetsBaseURL
	if sheetsBase == "" {
		sheetsBase = defaultSheetsBaseURL
	}

	return &Client{
		rest:         rest,
		auth:         auth,
		loc:          loc,
		calendarBase: calendarBase,
		sheetsBase:   sheetsBase,
	}, nil
}
