package service

import (
	"context"
	"sync"

	"github.com/toogather/wabot/internal/domain/entity"
)

type sentText struct {
	ChatID string
	Text   string
}

type fakeTransport struct {
	mu      sync.Mutex
	texts   []sentText
	sendErr error
}

func (f *fakeTransport) SendText(ctx context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}
	f.texts = append(f.texts, sentText{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeTransport) SendMentions(ctx context.Context, chatID, text string, mentions []string) error {
	return f.SendText(ctx, chatID, text)
}

func (f *fakeTransport) SendSticker(ctx context.Context, chatID, path string) error {
	return f.SendText(ctx, chatID, path)
}

func (f *fakeTransport) sent() []sentText {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]sentText{}, f.texts...)
}

type insertedEvent struct {
	Summary     string
	Description string
	Start       string
	End         string
}

type fakeCalendar struct {
	events     []entity.UpcomingEvent
	details    map[string]*entity.EventDetail
	insertLink string
	inserted   []insertedEvent
	err        error
}

func (f *fakeCalendar) ListUpcoming(ctx context.Context, maxResults int) ([]entity.UpcomingEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.events) > maxResults {
		return f.events[:maxResults], nil
	}
	return f.events, nil
}

func (f *fakeCalendar) GetDetails(ctx context.Context, eventID string) (*entity.EventDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details[eventID], nil
}

func (f *fakeCalendar) Insert(ctx context.Context, summary, description, startISO, endISO string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.inserted = append(f.inserted, insertedEvent{
		Summary:     summary,
		Description: description,
		Start:       startISO,
		End:         endISO,
	})
	return f.insertLink, nil
}

type fakeSheets struct {
	names []string
	rows  map[string][][]string
	err   error
}

func (f *fakeSheets) ListSheetNames(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func (f *fakeSheets) GetRows(ctx context.Context, sheetName string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[sheetName], nil
}
