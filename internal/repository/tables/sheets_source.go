package tables

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/terraplan/blendopt/internal/config"
)

// SheetsClient wraps the Google Sheets API for reading input tables from a
// shared spreadsheet instead of local files.
type SheetsClient struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewSheetsClient builds a read-only Sheets client from configuration.
func NewSheetsClient(ctx context.Context, cfg config.SheetsConfig) (*SheetsClient, error) {
	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetsClient{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Source returns a table source reading the given sheet range.
func (c *SheetsClient) Source(sheetRange string) SheetsSource {
	return SheetsSource{client: c, sheetRange: sheetRange}
}

// SheetsSource reads one rectangular range as a table.
type SheetsSource struct {
	client     *SheetsClient
	sheetRange string
}

// Rows fetches the range and stringifies every cell.
func (s SheetsSource) Rows(ctx context.Context) ([][]string, error) {
	if s.sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := s.client.service.Spreadsheets.Values.
		Get(s.client.spreadsheetID, s.sheetRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", s.sheetRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
