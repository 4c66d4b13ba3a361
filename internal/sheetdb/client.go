// Package sheetdb talks to the ledger document: a Google spreadsheet holding
// one table per entity kind. Reads go through the visualization query
// endpoint (a textual query dialect over one sheet); row mutations go through
// the Sheets API values and batchUpdate calls.
package sheetdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Store is the document query service the repositories run against.
type Store interface {
	// Query runs a textual query against one sheet and returns the result
	// table. The header row is never part of the result.
	Query(ctx context.Context, spreadsheetID, sheetName, query string) (*Table, error)
	// AppendRow adds one row at the end of the sheet.
	AppendRow(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error
	// UpdateRow overwrites the row at the 1-based index in place.
	UpdateRow(ctx context.Context, spreadsheetID, sheetName string, rowIndex int64, cells []interface{}) error
	// DeleteRow removes the row at the 1-based index, shifting subsequent
	// rows up by one.
	DeleteRow(ctx context.Context, spreadsheetID, sheetName string, rowIndex int64) error
}

const defaultQueryBaseURL = "https://docs.google.com/spreadsheets/d"

// Client implements Store against Google Sheets.
type Client struct {
	svc          *sheets.Service
	httpClient   *http.Client
	queryBaseURL string
}

// NewClient builds a Client over an authorized HTTP client (one carrying the
// user's OAuth2 token).
func NewClient(ctx context.Context, httpClient *http.Client, opts ...ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	c := &Client{
		svc:          svc,
		httpClient:   httpClient,
		queryBaseURL: defaultQueryBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithQueryBaseURL overrides the query endpoint base URL (tests).
func WithQueryBaseURL(base string) ClientOption {
	return func(c *Client) { c.queryBaseURL = base }
}

// Query implements Store.
func (c *Client) Query(ctx context.Context, spreadsheetID, sheetName, query string) (*Table, error) {
	q := url.Values{}
	q.Set("sheet", sheetName)
	q.Set("headers", "1")
	q.Set("tqx", "out:json")
	q.Set("tq", query)

	endpoint := fmt.Sprintf("%s/%s/gviz/tq?%s", c.queryBaseURL, url.PathEscape(spreadsheetID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building query request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying sheet %q: %w", sheetName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading query response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying sheet %q: status %d", sheetName, resp.StatusCode)
	}

	table, err := parseQueryResponse(body)
	if err != nil {
		return nil, fmt.Errorf("querying sheet %q: %w", sheetName, err)
	}
	return table, nil
}

// AppendRow implements Store.
func (c *Client) AppendRow(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, sheetRange(sheetName), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending row to sheet %q: %w", sheetName, err)
	}
	return nil
}

// UpdateRow implements Store.
func (c *Client) UpdateRow(ctx context.Context, spreadsheetID, sheetName string, rowIndex int64, cells []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	rng := fmt.Sprintf("'%s'!A%d:%d", sheetName, rowIndex, rowIndex)
	_, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating row %d of sheet %q: %w", rowIndex, sheetName, err)
	}
	return nil
}

// DeleteRow implements Store. The Sheets API addresses rows for structural
// edits by numeric sheet id, so the sheet name is resolved first.
func (c *Client) DeleteRow(ctx context.Context, spreadsheetID, sheetName string, rowIndex int64) error {
	sheetID, err := c.sheetID(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: rowIndex - 1,
					EndIndex:   rowIndex,
				},
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("deleting row %d of sheet %q: %w", rowIndex, sheetName, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, spreadsheetID, sheetName string) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("fetching spreadsheet metadata: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", sheetName)
}

func sheetRange(sheetName string) string {
	return fmt.Sprintf("'%s'", sheetName)
}
