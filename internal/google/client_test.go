package google

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestCredentials generates a throwaway service-account key file.
func writeTestCredentials(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	creds := map[string]string{
		"client_email": "bot@test-project.iam.gserviceaccount.com",
		"private_key":  string(keyPEM),
	}
	data, err := json.Marshal(creds)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, jwtBearerGrant, r.FormValue("grant_type"))
		assert.NotEmpty(t, r.FormValue("assertion"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.Handle("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	client, err := NewClient(ClientOptions{
		CredentialsFile: writeTestCredentials(t),
		Location:        loc,
		CalendarBaseURL: srv.URL + "/calendar/v3",
		SheetsBaseURL:   srv.URL + "/v4",
		TokenURL:        srv.URL + "/token",
	})
	require.NoError(t, err)
	return client, srv
}

func TestCalendar_ListUpcoming(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar/v3/calendars/cal-1/events", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id":      "evt-1",
					"summary": "Team sync",
					"start":   map[string]string{"dateTime": "2025-01-11T12:00:00+07:00"},
					"end":     map[string]string{"dateTime": "2025-01-11T13:00:00+07:00"},
				},
				{
					// no start date: must be skipped, not fail the listing
					"id":      "evt-2",
					"summary": "Broken",
				},
				{
					"id":      "evt-3",
					"summary": "Offsite",
					"start":   map[string]string{"date": "2025-01-12"},
				},
			},
		})
	})

	client, _ := newTestClient(t, handler)
	calendar := NewCalendar(client, "cal-1")

	events, err := calendar.ListUpcoming(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "Team sync", events[0].Summary)
	assert.Equal(t, "11 January 2025, 12:00", events[0].StartDate)
	assert.Equal(t, "13:00", events[0].EndDate)

	assert.Equal(t, "evt-3", events[1].ID)
	assert.Equal(t, "12 January 2025, 00:00", events[1].StartDate)
	assert.Equal(t, "N/A", events[1].EndDate)
}

func TestCalendar_GetDetails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar/v3/calendars/cal-1/events/evt-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "evt-1",
			"summary":     "Team sync",
			"description": "Weekly alignment",
			"location":    "Meet",
			"start":       map[string]string{"dateTime": "2025-01-11T12:00:00+07:00"},
			"end":         map[string]string{"dateTime": "2025-01-11T13:00:00+07:00"},
		})
	})

	client, _ := newTestClient(t, handler)
	calendar := NewCalendar(client, "cal-1")

	detail, err := calendar.GetDetails(t.Context(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, "Team sync", detail.Summary)
	assert.Equal(t, "Weekly alignment", detail.Description)
	assert.Equal(t, "11 January 2025, 12:00", detail.Start)
	assert.Equal(t, "13:00", detail.End)
	assert.Equal(t, "Meet", detail.Location)
}

func TestCalendar_Insert(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendar/v3/calendars/cal-1/events", r.URL.Path)

		var body calendarEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Posting buodeh-1 [VD-S10-P1]", body.Summary)
		require.NotNil(t, body.Start)
		assert.Equal(t, "Asia/Jakarta", body.Start.TimeZone)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":       "evt-new",
			"htmlLink": "https://calendar.google.com/event?eid=abc",
		})
	})

	client, _ := newTestClient(t, handler)
	calendar := NewCalendar(client, "cal-1")

	link, err := calendar.Insert(t.Context(),
		"Posting buodeh-1 [VD-S10-P1]", "Post untuk klien buodeh-1 dengan kode VD-S10-P1",
		"2025-01-11T12:00:00+07:00", "2025-01-11T13:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.google.com/event?eid=abc", link)
}

func TestCalendar_ListUpcomingServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client, _ := newTestClient(t, handler)
	calendar := NewCalendar(client, "cal-1")

	_, err := calendar.ListUpcoming(t.Context(), 10)
	require.Error(t, err)
}

func TestSheets_ListSheetNames(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sheets": []map[string]interface{}{
				{"properties": map[string]string{"title": "buodeh-1"}},
				{"properties": map[string]string{"title": "kopikita"}},
			},
		})
	})

	client, _ := newTestClient(t, handler)
	sheets := NewSheets(client, "sheet-1")

	names, err := sheets.ListSheetNames(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"buodeh-1", "kopikita"}, names)
}

func TestSheets_GetRows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-1/values/")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"values": [][]string{
				{"Code", "Format", "Deadline"},
				{"VD-S10-P1", "Video", "1/11/2025"},
			},
		})
	})

	client, _ := newTestClient(t, handler)
	sheets := NewSheets(client, "sheet-1")

	rows, err := sheets.GetRows(t.Context(), "buodeh-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "VD-S10-P1", rows[1][0])
}

func TestTokenSource_CachesToken(t *testing.T) {
	var tokenCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v4/spreadsheets/sheet-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"sheets": []interface{}{}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(ClientOptions{
		CredentialsFile: writeTestCredentials(t),
		SheetsBaseURL:   srv.URL + "/v4",
		TokenURL:        srv.URL + "/token",
	})
	require.NoError(t, err)

	sheets := NewSheets(client, "sheet-1")
	_, err = sheets.ListSheetNames(t.Context())
	require.NoError(t, err)
	_, err = sheets.ListSheetNames(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls, "second call must reuse the cached token")
}
