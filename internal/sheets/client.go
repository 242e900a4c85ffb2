// Package sheets reads user dictionaries from Google Sheets. The first
// row of a dictionary sheet names the languages; the first two columns
// that are not a status column hold the word pairs.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

type Client struct {
	svc *sheets.Service
}

// NewClient builds a read-only Sheets client from a service account file.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// ListSheetTitles returns the tab titles of a spreadsheet.
func (c *Client) ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(title))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}

	return titles, nil
}

// ReadDictionary reads every word pair of the given sheet. The header row
// supplies the language labels.
func (c *Client) ReadDictionary(ctx context.Context, spreadsheetID, sheetTitle string) (entities.LanguagePair, []entities.WordPair, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, sheetTitle).Context(ctx).Do()
	if err != nil {
		return entities.LanguagePair{}, nil, fmt.Errorf("get sheet values: %w", err)
	}

	return parseRows(resp.Values)
}
