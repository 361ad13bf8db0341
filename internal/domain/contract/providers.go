package contract

import (
	"context"

	"github.com/toogather/wabot/internal/domain/entity"
)

// CalendarAPI is the calendar provider surface the bot depends on.
type CalendarAPI interface {
	ListUpcoming(ctx context.Context, maxResults int) ([]entity.UpcomingEvent, error)
	GetDetails(ctx context.Context, eventID string) (*entity.EventDetail, error)

	// Insert creates an event and returns its web link. Times are RFC3339
	// in the bot's timezone.
	Insert(ctx context.Context, summary, description, startISO, endISO string) (string, error)
}

// SheetsAPI reads the content plan spreadsheet.
type SheetsAPI interface {
	// ListSheetNames returns the sheet titles, one per client.
	ListSheetNames(ctx context.Context) ([]string, error)

	// GetRows returns the raw cell values of one sheet, header included.
	GetRows(ctx context.Context, sheetName string) ([][]string, error)
}
