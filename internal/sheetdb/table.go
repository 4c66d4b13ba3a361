package sheetdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Table is the result of a textual query against one sheet: column metadata
// plus raw rows. Cell values are loosely typed (string, float64, bool or nil)
// exactly as the store returned them; use the Cell* coercions to read them.
type Table struct {
	Cols []Column
	Rows []Row
}

// Column describes one result column.
type Column struct {
	ID    string
	Label string
	Type  string
}

// Row is one result row.
type Row struct {
	Cells []interface{}
}

// CellString coerces a raw cell value to a string. Missing and null cells
// coerce to "".
func CellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

// CellFloat coerces a raw cell value to a float64. Missing, null and
// unparseable cells coerce to 0.
func CellFloat(v interface{}) float64 {
	switch c := v.(type) {
	case nil:
		return 0
	case float64:
		return c
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if c {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// CellInt coerces a raw cell value to an int64 via CellFloat.
func CellInt(v interface{}) int64 {
	return int64(CellFloat(v))
}

// Cell returns the cell at index i, or nil when the row is ragged and does
// not extend that far.
func (r Row) Cell(i int) interface{} {
	if i < 0 || i >= len(r.Cells) {
		return nil
	}
	return r.Cells[i]
}

// gvizResponse mirrors the JSON body of a visualization query response.
type gvizResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Reason          string `json:"reason"`
		Message         string `json:"message"`
		DetailedMessage string `json:"detailed_message"`
	} `json:"errors"`
	Table struct {
		Cols []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
			Type  string `json:"type"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V interface{} `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

const responseMarker = "setResponse("

// parseQueryResponse strips the JSONP envelope around a visualization query
// response and decodes the table inside it.
func parseQueryResponse(body []byte) (*Table, error) {
	s := string(body)
	start := strings.Index(s, responseMarker)
	if start < 0 {
		return nil, fmt.Errorf("unexpected query response: missing envelope")
	}
	s = s[start+len(responseMarker):]
	end := strings.LastIndex(s, "}")
	if end < 0 {
		return nil, fmt.Errorf("unexpected query response: truncated body")
	}
	s = s[:end+1]

	var resp gvizResponse
	if err := json.Unmarshal([]byte(s), &resp); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}

	if resp.Status == "error" {
		msg := "unknown error"
		if len(resp.Errors) > 0 {
			msg = resp.Errors[0].Reason
			if resp.Errors[0].DetailedMessage != "" {
				msg = msg + ": " + resp.Errors[0].DetailedMessage
			}
		}
		return nil, fmt.Errorf("query failed: %s", msg)
	}

	table := &Table{}
	for _, c := range resp.Table.Cols {
		table.Cols = append(table.Cols, Column{ID: c.ID, Label: c.Label, Type: c.Type})
	}
	for _, r := range resp.Table.Rows {
		row := Row{Cells: make([]interface{}, len(r.C))}
		for i, c := range r.C {
			if c != nil {
				row.Cells[i] = c.V
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
