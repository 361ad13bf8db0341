package google

import (
	"context"
	"fmt"
	"net/url"
)

const rowRange = "A1:J"

// Sheets implements contract.SheetsAPI over the Sheets v4 REST API.
type Sheets struct {
	client        *Client
	spreadsheetID string
}

func NewSheets(client *Client, spreadsheetID string) *Sheets {
	return &Sheets{client: client, spreadsheetID: spreadsheetID}
}

// ListSheetNames returns the sheet titles in spreadsheet order. Each
// sheet holds the content plan of one client.
func (s *Sheets) ListSheetNames(ctx context.Context) ([]string, error) {
	token, err := s.client.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}

	resp, err := s.client.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("fields", "sheets.properties.title").
		SetResult(&out).
		Get(fmt.Sprintf("%s/spreadsheets/%s", s.client.sheetsBase, url.PathEscape(s.spreadsheetID)))
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to list sheets: %s", resp.Status())
	}

	var names []string
	for _, sheet := range out.Sheets {
		names = append(names, sheet.Properties.Title)
	}
	return names, nil
}

// GetRows returns the raw formatted values of columns A..J, header row
// included.
func (s *Sheets) GetRows(ctx context.Context, sheetName string) ([][]string, error) {
	token, err := s.client.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		Values [][]string `json:"values"`
	}

	readRange := fmt.Sprintf("%s!%s", sheetName, rowRange)
	resp, err := s.client.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get(fmt.Sprintf("%s/spreadsheets/%s/values/%s",
			s.client.sheetsBase, url.PathEscape(s.spreadsheetID), url.PathEscape(readRange)))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get rows: %s", resp.Status())
	}

	return out.Values, nil
}
