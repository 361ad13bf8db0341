package entity

import "time"

// DeadlineRow is one parsed content-plan row. Code is unique within a
// single sheet, not across sheets.
type DeadlineRow struct {
	Code     string
	Format   string
	Deadline time.Time
	Type     string
	Title    string
	Status   string
}

// PostDetail carries the full column set (A..J) for a single post.
type PostDetail struct {
	Code        string
	Format      string
	Deadline    time.Time
	HasDeadline bool
	Type        string
	Title       string
	Copy        string
	Details     string
	Reference   string
	Caption     string
	Status      string
}

// UpcomingEvent is a calendar event with display-formatted local times,
// fetched fresh on every query.
type UpcomingEvent struct {
	ID        string
	Summary   string
	StartDate string
	EndDate   string
}

type EventDetail struct {
	ID          string
	Summary     string
	Description string
	Start       string
	End         string
	Location    string
}

// TimedReminder is a user-declared one-shot reminder. It lives only in
// the scheduler queue and is dropped on process restart.
type TimedReminder struct {
	FireAt        time.Time
	Title         string
	Details       []string
	TargetChannel string
}

// Subscribers is the persisted membership record for the daily quote
// broadcast.
type Subscribers struct {
	Groups []string `json:"groups"`
	Users  []string `json:"users"`
}

type Quote struct {
	ID        int64
	Text      string
	Author    string
	CreatedAt time.Time
}
