package service

import (
	"time"

	"github.com/toogather/wabot/internal/domain/contract"
)

type Instance struct {
	Content  *contentService
	Events   *eventService
	Reminder *eventReminder
	OneShot  *oneShotScheduler
	Quotes   *quoteService
}

type Options struct {
	DM          contract.DataManager
	Calendar    contract.CalendarAPI
	Sheets      contract.SheetsAPI
	Transport   contract.Transport
	SentLog     contract.SentLog
	Subscribers contract.SubscriberStore

	Location          *time.Location
	ReminderChannelID string
	QuoteTime         string
}

func NewInstance(opts Options) *Instance {
	return &Instance{
		Content:  newContent(opts.Sheets, opts.Location),
		Events:   newEvents(opts.Calendar, opts.Location),
		Reminder: newEventReminder(opts.Calendar, opts.Transport, opts.SentLog, opts.ReminderChannelID, opts.Location),
		OneShot:  newOneShotScheduler(opts.Transport),
		Quotes:   newQuotes(opts.DM, opts.Subscribers, opts.Transport, opts.QuoteTime, opts.Location),
	}
}
