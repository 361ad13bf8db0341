package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/toogather/wabot/internal/domain/apperr"
	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/domain/entity"
)

// deadlineLayout is the date format of the deadline column (C) in the
// content plan sheets.
const deadlineLayout = "1/2/2006"

const scheduleLimit = 5

// Column positions in a content plan row (A..J).
const (
	colCode = iota
	colFormat
	colDeadline
	colType
	colTitle
	colCopy
	colDetails
	colReference
	colCaption
	colStatus
)

// contentService is the deadline ranking engine over the content plan
// sheets.
type contentService struct {
	sheets contract.SheetsAPI
	loc    *time.Location
	now    func() time.Time
}

func newContent(sheets contract.SheetsAPI, loc *time.Location) *contentService {
	return &contentService{
		sheets: sheets,
		loc:    loc,
		now:    time.Now,
	}
}

// ListClients returns the registered client names (sheet titles).
func (s *contentService) ListClients(ctx context.Context) ([]string, error) {
	names, err := s.sheets.ListSheetNames(ctx)
	if err != nil {
		return nil, apperr.Provider("list clients: %v", err)
	}
	return names, nil
}

// Schedule returns a client's ranked deadlines: the next 5 upcoming
// ones, or with last=true the 5 most recent past ones.
func (s *contentService) Schedule(ctx context.Context, client string, last bool) ([]entity.DeadlineRow, error) {
	names, err := s.sheets.ListSheetNames(ctx)
	if err != nil {
		return nil, apperr.Provider("list clients: %v", err)
	}
	if !containsString(names, client) {
		return nil, apperr.NotFound("client %q", client)
	}

	rows, err := s.sheets.GetRows(ctx, client)
	if err != nil {
		return nil, apperr.Provider("get rows for %q: %v", client, err)
	}

	if last {
		return s.rankPast(rows), nil
	}
	return s.rankUpcoming(rows), nil
}

// PostDetail returns the full record of one post, matched by exact code
// in row order. The caller decides whether to normalize the code first.
func (s *contentService) PostDetail(ctx context.Context, client, code string) (*entity.PostDetail, error) {
	rows, err := s.sheets.GetRows(ctx, client)
	if err != nil {
		return nil, apperr.Provider("get rows for %q: %v", client, err)
	}

	for _, row := range skipHeader(rows) {
		if cell(row, colCode) != code {
			continue
		}

		detail := &entity.PostDetail{
			Code:      cell(row, colCode),
			Format:    cell(row, colFormat),
			Type:      cell(row, colType),
			Title:     cell(row, colTitle),
			Copy:      cell(row, colCopy),
			Details:   cell(row, colDetails),
			Reference: cell(row, colReference),
			Caption:   cell(row, colCaption),
			Status:    cell(row, colStatus),
		}
		if deadline, ok := s.tryParseDate(cell(row, colDeadline)); ok {
			detail.Deadline = deadline
			detail.HasDeadline = true
		}
		return detail, nil
	}

	return nil, apperr.NotFound("code %q in sheet %q", code, client)
}

// rankUpcoming keeps rows due today or later, ascending by deadline,
// first 5. Rows with an unparsable date are filtered out, never
// reported as errors.
func (s *contentService) rankUpcoming(rows [][]string) []entity.DeadlineRow {
	now := s.now().In(s.loc)
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	var ranked []entity.DeadlineRow
	for _, row := range skipHeader(rows) {
		deadline, ok := s.tryParseDate(cell(row, colDeadline))
		if !ok || deadline.Before(startOfToday) {
			continue
		}
		ranked = append(ranked, newDeadlineRow(row, deadline))
	}

	// stable: equal dates keep their sheet order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Deadline.Before(ranked[j].Deadline)
	})
	return truncate(ranked)
}

// rankPast keeps rows already due, descending by deadline, first 5.
func (s *contentService) rankPast(rows [][]string) []entity.DeadlineRow {
	now := s.now().In(s.loc)

	var ranked []entity.DeadlineRow
	for _, row := range skipHeader(rows) {
		deadline, ok := s.tryParseDate(cell(row, colDeadline))
		if !ok || !deadline.Before(now) {
			continue
		}
		ranked = append(ranked, newDeadlineRow(row, deadline))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[j].Deadline.Before(ranked[i].Deadline)
	})
	return truncate(ranked)
}

// tryParseDate parses a deadline cell. A malformed date means the row
// is excluded from rankings, not an error.
func (s *contentService) tryParseDate(value string) (time.Time, bool) {
	parsed, err := time.ParseInLocation(deadlineLayout, strings.TrimSpace(value), s.loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func newDeadlineRow(row []string, deadline time.Time) entity.DeadlineRow {
	return entity.DeadlineRow{
		Code:     cell(row, colCode),
		Format:   cell(row, colFormat),
		Deadline: deadline,
		Type:     cell(row, colType),
		Title:    cell(row, colTitle),
		Status:   cell(row, colStatus),
	}
}

// skipHeader drops row 0, which always holds the column names.
func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func truncate(rows []entity.DeadlineRow) []entity.DeadlineRow {
	if len(rows) > scheduleLimit {
		return rows[:scheduleLimit]
	}
	return rows
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
