package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toogather/wabot/internal/domain/apperr"
)

var testZone = time.FixedZone("WIB", 7*3600)

func newTestContent(sheets *fakeSheets, now time.Time) *contentService {
	svc := newContent(sheets, testZone)
	svc.now = func() time.Time { return now }
	return svc
}

func planRow(code, deadline, title string) []string {
	return []string{code, "Video", deadline, "Feed", title, "", "", "", "", "Done"}
}

func TestContent_ScheduleUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, testZone)
	sheets := &fakeSheets{
		names: []string{"buodeh-1"},
		rows: map[string][][]string{
			"buodeh-1": {
				{"Code", "Format", "Deadline", "Type", "Title"},
				planRow("VD-1", "6/20/2025", "Later"),
				planRow("VD-2", "6/10/2025", "Past"),
				planRow("VD-3", "6/15/2025", "Today"),
				planRow("VD-4", "not-a-date", "Malformed"),
				planRow("VD-5", "6/16/2025", "Tomorrow"),
			},
		},
	}
	svc := newTestContent(sheets, now)

	rows, err := svc.Schedule(t.Context(), "buodeh-1", false)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "VD-3", rows[0].Code)
	assert.Equal(t, "VD-5", rows[1].Code)
	assert.Equal(t, "VD-1", rows[2].Code)
}

func TestContent_ScheduleUpcomingLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, testZone)
	rows := [][]string{{"Code", "Format", "Deadline"}}
	for _, deadline := range []string{"6/2/2025", "6/3/2025", "6/4/2025", "6/5/2025", "6/6/2025", "6/7/2025", "6/8/2025"} {
		rows = append(rows, planRow("VD", deadline, "Post"))
	}
	sheets := &fakeSheets{names: []string{"klien"}, rows: map[string][][]string{"klien": rows}}
	svc := newTestContent(sheets, now)

	ranked, err := svc.Schedule(t.Context(), "klien", false)
	require.NoError(t, err)

	require.Len(t, ranked, 5)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, testZone), ranked[0].Deadline)
	assert.Equal(t, time.Date(2025, 6, 6, 0, 0, 0, 0, testZone), ranked[4].Deadline)
}

func TestContent_ScheduleUpcomingStableTies(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, testZone)
	sheets := &fakeSheets{
		names: []string{"klien"},
		rows: map[string][][]string{
			"klien": {
				{"Code"},
				planRow("VD-A", "6/10/2025", "First"),
				planRow("VD-B", "6/10/2025", "Second"),
			},
		},
	}
	svc := newTestContent(sheets, now)

	rows, err := svc.Schedule(t.Context(), "klien", false)
	require.NoError(t, err)

	// equal deadlines keep their sheet order
	require.Len(t, rows, 2)
	assert.Equal(t, "VD-A", rows[0].Code)
	assert.Equal(t, "VD-B", rows[1].Code)
}

func TestContent_ScheduleLast(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, testZone)
	sheets := &fakeSheets{
		names: []string{"klien"},
		rows: map[string][][]string{
			"klien": {
				{"Code"},
				planRow("VD-1", "6/1/2025", "Oldest"),
				planRow("VD-2", "6/10/2025", "Recent"),
				planRow("VD-3", "6/20/2025", "Future"),
			},
		},
	}
	svc := newTestContent(sheets, now)

	rows, err := svc.Schedule(t.Context(), "klien", true)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "VD-2", rows[0].Code)
	assert.Equal(t, "VD-1", rows[1].Code)
}

func TestContent_ScheduleUnknownClient(t *testing.T) {
	sheets := &fakeSheets{names: []string{"buodeh-1"}}
	svc := newTestContent(sheets, time.Now())

	_, err := svc.Schedule(t.Context(), "nope", false)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestContent_ScheduleProviderError(t *testing.T) {
	sheets := &fakeSheets{err: errors.New("boom")}
	svc := newTestContent(sheets, time.Now())

	_, err := svc.Schedule(t.Context(), "klien", false)
	assert.True(t, errors.Is(err, apperr.ErrProvider))
}

func TestContent_PostDetail(t *testing.T) {
	sheets := &fakeSheets{
		rows: map[string][][]string{
			"klien": {
				{"Code", "Format", "Deadline", "Type", "Title", "Copy", "Details", "Reference", "Caption", "Status"},
				{"VD-1", "Video", "6/20/2025", "Feed", "Launch", "Copy text", "Notes", "ref.url", "Caption text", "Done"},
			},
		},
	}
	svc := newTestContent(sheets, time.Now())

	detail, err := svc.PostDetail(t.Context(), "klien", "VD-1")
	require.NoError(t, err)

	assert.Equal(t, "Launch", detail.Title)
	assert.Equal(t, "Copy text", detail.Copy)
	assert.Equal(t, "Caption text", detail.Caption)
	assert.True(t, detail.HasDeadline)
	assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, testZone), detail.Deadline)
}

func TestContent_PostDetailWithoutDeadline(t *testing.T) {
	sheets := &fakeSheets{
		rows: map[string][][]string{
			"klien": {
				{"Code"},
				{"VD-1", "Video", "", "Feed", "Launch"},
			},
		},
	}
	svc := newTestContent(sheets, time.Now())

	detail, err := svc.PostDetail(t.Context(), "klien", "VD-1")
	require.NoError(t, err)
	assert.False(t, detail.HasDeadline)
}

func TestContent_PostDetailNotFound(t *testing.T) {
	sheets := &fakeSheets{
		rows: map[string][][]string{
			"klien": {{"Code"}, planRow("VD-1", "6/20/2025", "Launch")},
		},
	}
	svc := newTestContent(sheets, time.Now())

	_, err := svc.PostDetail(t.Context(), "klien", "VD-9")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
