package service

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toogather/wabot/internal/domain/apperr"
	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/domain/entity"
)

const defaultReminderTitle = "Pengingat"

// explicitDateLayouts are tried in order for a day argument outside the
// relative vocabulary.
var explicitDateLayouts = []string{"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006"}

// ParseTimedReminder parses an !ingatkan command body:
//
//	!ingatkan HH:MM <hari ini|besok|lusa|DD/MM/YYYY>
//	Judul (optional)
//	Detail 1, Detail 2 (optional)
func ParseTimedReminder(text, targetChannel string, loc *time.Location, now time.Time) (entity.TimedReminder, error) {
	var reminder entity.TimedReminder

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	fields := strings.Fields(lines[0])
	if len(fields) < 3 {
		return reminder, apperr.Format("want <command> HH:MM <day>, got %q", lines[0])
	}

	clock, err := time.Parse("15:04", fields[1])
	if err != nil {
		return reminder, apperr.Format("time %q: %v", fields[1], err)
	}

	day, err := parseDay(strings.Join(fields[2:], " "), loc, now)
	if err != nil {
		return reminder, err
	}

	reminder.FireAt = time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc)
	reminder.TargetChannel = targetChannel

	reminder.Title = defaultReminderTitle
	if len(lines) > 1 {
		if title := strings.TrimSpace(lines[1]); title != "" {
			reminder.Title = title
		}
	}

	if len(lines) > 2 {
		reminder.Details = parseDetails(strings.TrimSpace(strings.Join(lines[2:], "\n")))
	}

	return reminder, nil
}

// parseDay resolves the closed relative vocabulary, falling back to an
// explicit day-month-year date.
func parseDay(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	today := now.In(loc)

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hari ini":
		return today, nil
	case "besok":
		return today.AddDate(0, 0, 1), nil
	case "lusa":
		return today.AddDate(0, 0, 2), nil
	}

	for _, layout := range explicitDateLayouts {
		if parsed, err := time.ParseInLocation(layout, strings.TrimSpace(raw), loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, apperr.Format("day %q", raw)
}

// parseDetails splits a comma-separated detail line; a line without a
// comma is one opaque detail.
func parseDetails(line string) []string {
	if line == "" {
		return nil
	}
	if !strings.Contains(line, ",") {
		return []string{line}
	}

	var details []string
	for _, part := range strings.Split(line, ",") {
		if part = strings.TrimSpace(part); part != "" {
			details = append(details, part)
		}
	}
	return details
}

// formatReminderBody renders the notification: bulleted list for
// multiple details, plain text for one, nothing for zero.
func formatReminderBody(reminder entity.TimedReminder) string {
	header := fmt.Sprintf("⏰ *%s*", reminder.Title)

	switch len(reminder.Details) {
	case 0:
		return header
	case 1:
		return header + "\n\n" + reminder.Details[0]
	default:
		var b strings.Builder
		b.WriteString(header)
		b.WriteString("\n")
		for _, detail := range reminder.Details {
			b.WriteString("\n• ")
			b.WriteString(detail)
		}
		return b.String()
	}
}

type oneShotJob struct {
	id       string
	reminder entity.TimedReminder
	index    int
}

// jobQueue is a min-heap on FireAt.
type jobQueue []*oneShotJob

func (q jobQueue) Len() int { return len(q) }

func (q jobQueue) Less(i, j int) bool {
	return q[i].reminder.FireAt.Before(q[j].reminder.FireAt)
}

func (q jobQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *jobQueue) Push(x interface{}) {
	job := x.(*oneShotJob)
	job.index = len(*q)
	*q = append(*q, job)
}

func (q *jobQueue) Pop() interface{} {
	old := *q
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return job
}

// oneShotScheduler fires each registered reminder exactly once at its
// absolute instant. One loop drains a due-time heap, sleeping until the
// next due job or a new registration. Jobs are not persisted: a restart
// drops everything still pending.
type oneShotScheduler struct {
	transport contract.Transport

	mu    sync.Mutex
	queue jobQueue

	wake     chan struct{}
	stopChan chan struct{}
	running  bool
	now      func() time.Time
}

func newOneShotScheduler(transport contract.Transport) *oneShotScheduler {
	return &oneShotScheduler{
		transport: transport,
		wake:      make(chan struct{}, 1),
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

func (s *oneShotScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	log.Println("One-shot scheduler starting...")
	go s.mainLoop()
}

func (s *oneShotScheduler) Stop() {
	if !s.running {
		return
	}
	log.Println("One-shot scheduler stopping...")
	close(s.stopChan)
	s.running = false
}

// Schedule registers a reminder and returns its job id.
func (s *oneShotScheduler) Schedule(reminder entity.TimedReminder) string {
	job := &oneShotJob{id: uuid.NewString(), reminder: reminder}

	s.mu.Lock()
	heap.Push(&s.queue, job)
	s.mu.Unlock()

	s.notifyWake()
	return job.id
}

// Cancel drops a pending job. Returns false if the job already fired or
// is unknown.
func (s *oneShotScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.queue {
		if job.id == id {
			heap.Remove(&s.queue, job.index)
			return true
		}
	}
	return false
}

// Pending returns the number of jobs still waiting to fire.
func (s *oneShotScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

func (s *oneShotScheduler) notifyWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *oneShotScheduler) mainLoop() {
	for {
		next, ok := s.peek()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.stopChan:
				return
			}
		}

		waitDuration := next.Sub(s.now())
		if waitDuration <= 0 {
			s.fireDue()
			continue
		}

		timer := time.NewTimer(waitDuration)
		select {
		case <-timer.C:
			s.fireDue()
		case <-s.wake:
			// new registration, recalculate the next due time
			timer.Stop()
		case <-s.stopChan:
			timer.Stop()
			return
		}
	}
}

func (s *oneShotScheduler) peek() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].reminder.FireAt, true
}

// fireDue pops and fires every job whose instant has arrived.
func (s *oneShotScheduler) fireDue() {
	now := s.now()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].reminder.FireAt.After(now) {
			s.mu.Unlock()
			return
		}
		job := heap.Pop(&s.queue).(*oneShotJob)
		s.mu.Unlock()

		s.fire(job)
	}
}

func (s *oneShotScheduler) fire(job *oneShotJob) {
	body := formatReminderBody(job.reminder)
	if err := s.transport.SendText(context.Background(), job.reminder.TargetChannel, body); err != nil {
		log.Printf("One-shot reminder %s: send failed: %v", job.id, err)
		return
	}
	log.Printf("One-shot reminder fired: %s", job.reminder.Title)
}
