package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/google"
)

const (
	pollInterval   = 30 * time.Second
	leadWindow     = 5 * time.Minute
	pollFetchLimit = 10
)

// eventReminder polls the calendar and fires a reminder shortly before
// an event starts. The sent log guarantees at most one notification per
// event id across the lifetime of the data directory.
type eventReminder struct {
	calendar  contract.CalendarAPI
	transport contract.Transport
	sentLog   contract.SentLog
	channelID string
	loc       *time.Location

	now      func() time.Time
	stopChan chan struct{}
	running  bool
}

func newEventReminder(calendar contract.CalendarAPI, transport contract.Transport,
	sentLog contract.SentLog, channelID string, loc *time.Location) *eventReminder {
	return &eventReminder{
		calendar:  calendar,
		transport: transport,
		sentLog:   sentLog,
		channelID: channelID,
		loc:       loc,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

func (s *eventReminder) Start() {
	if s.running {
		return
	}
	s.running = true
	log.Println("Event reminder starting...")
	go s.mainLoop()
}

func (s *eventReminder) Stop() {
	if !s.running {
		return
	}
	log.Println("Event reminder stopping...")
	close(s.stopChan)
	s.running = false
}

func (s *eventReminder) mainLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkOnce(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// checkOnce runs one poll tick: fetch upcoming events and notify for
// the first one starting inside the lead window. Only one winner per
// tick; a fetch error abandons the tick and the next one proceeds
// independently.
func (s *eventReminder) checkOnce(ctx context.Context) {
	events, err := s.calendar.ListUpcoming(ctx, pollFetchLimit)
	if err != nil {
		log.Printf("Event reminder: fetch failed: %v", err)
		return
	}

	now := s.now().In(s.loc)
	windowEnd := now.Add(leadWindow)

	for _, event := range events {
		start, err := time.ParseInLocation(google.DisplayDateLayout, event.StartDate, s.loc)
		if err != nil {
			continue
		}
		if start.Before(now) || !start.Before(windowEnd) {
			continue
		}

		// First event inside the window wins this tick, whether or not
		// it was already notified.
		if s.sentLog.Contains(event.ID) {
			return
		}

		// The dedup record must be durable before the send counts;
		// a failed flush aborts the tick so the next one can retry.
		if err := s.sentLog.Append(event.ID); err != nil {
			log.Printf("Event reminder: failed to record %s: %v", event.ID, err)
			return
		}

		message := fmt.Sprintf("Reminder: %s will start at %s. Don't miss it!", event.Summary, event.StartDate)
		if err := s.transport.SendText(ctx, s.channelID, message); err != nil {
			log.Printf("Event reminder: failed to send for %s: %v", event.ID, err)
			return
		}

		log.Printf("Reminder sent for event: %s", event.Summary)
		return
	}
}
