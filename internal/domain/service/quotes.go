package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/toogather/wabot/internal/domain/apperr"
	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/domain/entity"
)

// quoteService serves on-demand quotes and runs the daily broadcast to
// every subscribed group and user.
type quoteService struct {
	dm          contract.DataManager
	subscribers contract.SubscriberStore
	transport   contract.Transport
	sendTime    string
	loc         *time.Location

	now      func() time.Time
	stopChan chan struct{}
	running  bool
}

func newQuotes(dm contract.DataManager, subscribers contract.SubscriberStore,
	transport contract.Transport, sendTime string, loc *time.Location) *quoteService {
	return &quoteService{
		dm:          dm,
		subscribers: subscribers,
		transport:   transport,
		sendTime:    sendTime,
		loc:         loc,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// RandomQuote returns a random quote, or nil when the store is empty.
func (s *quoteService) RandomQuote() (*entity.Quote, error) {
	quote, err := s.dm.Quote().Random()
	if err != nil {
		return nil, apperr.Provider("random quote: %v", err)
	}
	return quote, nil
}

// Subscribe adds an origin to the daily broadcast. Returns true when
// newly added.
func (s *quoteService) Subscribe(kind, id string) (bool, error) {
	return s.subscribers.Add(kind, id)
}

func (s *quoteService) Unsubscribe(kind, id string) error {
	return s.subscribers.Remove(kind, id)
}

func (s *quoteService) Start() {
	if s.running {
		return
	}
	s.running = true
	log.Println("Quote broadcast starting...")
	go s.mainLoop()
}

func (s *quoteService) Stop() {
	if !s.running {
		return
	}
	log.Println("Quote broadcast stopping...")
	close(s.stopChan)
	s.running = false
}

func (s *quoteService) mainLoop() {
	for {
		nextTime, err := s.nextBroadcast()
		if err != nil {
			log.Printf("Quote broadcast: bad send time %q: %v", s.sendTime, err)
			return
		}

		// The timer never fires early, so after a broadcast the
		// recomputed instant lands on the next day.
		timer := time.NewTimer(time.Until(nextTime))
		select {
		case <-timer.C:
			s.broadcast(context.Background())
		case <-s.stopChan:
			timer.Stop()
			return
		}
	}
}

// nextBroadcast computes the next daily fire instant in the local zone.
func (s *quoteService) nextBroadcast() (time.Time, error) {
	parts := strings.Split(s.sendTime, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("want HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute: %w", err)
	}

	now := s.now().In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// broadcast reads the registry once and sends to every member; one
// recipient's failure does not block the others.
func (s *quoteService) broadcast(ctx context.Context) {
	subs, err := s.subscribers.All()
	if err != nil {
		log.Printf("Quote broadcast: failed to read subscribers: %v", err)
		return
	}

	quote, err := s.RandomQuote()
	if err != nil {
		log.Printf("Quote broadcast: %v", err)
		return
	}
	if quote == nil {
		log.Println("Quote broadcast: no quotes available")
		return
	}

	message := FormatQuote(quote)
	recipients := append(append([]string{}, subs.Groups...), subs.Users...)
	for _, recipient := range recipients {
		if err := s.transport.SendText(ctx, recipient, message); err != nil {
			log.Printf("Quote broadcast to %s failed: %v", recipient, err)
		}
	}
	log.Printf("Quote broadcast sent to %d recipients", len(recipients))
}

func FormatQuote(quote *entity.Quote) string {
	if quote.Author == "" {
		return fmt.Sprintf("🌞 *Quote of the Day*\n\n_%s_", quote.Text)
	}
	return fmt.Sprintf("🌞 *Quote of the Day*\n\n_%s_\n— %s", quote.Text, quote.Author)
}
