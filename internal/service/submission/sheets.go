// Package submission stores published-form submissions and fans them
// out to the configured secondary sinks.
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pageforge/internal/domain/models"
)

// SheetAppender exports one submission row to a spreadsheet.
type SheetAppender interface {
	Append(ctx context.Context, sub *models.Submission) error
}

// googleSheetAppender appends rows to a Google Sheets range.
type googleSheetAppender struct {
	spreadsheetID   string
	sheetName       string
	credentialsJSON string
}

// NewGoogleSheetAppender creates a Sheets-backed appender. The service
// account client is built per call so a bad credential surfaces as an
// append error, not a startup failure.
func NewGoogleSheetAppender(spreadsheetID, sheetName, credentialsJSON string) SheetAppender {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &googleSheetAppender{
		spreadsheetID:   spreadsheetID,
		sheetName:       sheetName,
		credentialsJSON: credentialsJSON,
	}
}

// Append writes one submission as a row: name, email, phone, the
// submission time, and the full field bag as JSON.
func (g *googleSheetAppender) Append(ctx context.Context, sub *models.Submission) error {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(g.credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return fmt.Errorf("sheets client: %w", err)
	}

	data, err := json.Marshal(sub.Data)
	if err != nil {
		return fmt.Errorf("encode submission data: %w", err)
	}

	row := []interface{}{
		sub.Name,
		sub.Email,
		sub.Phone,
		sub.CreatedAt.Format(time.RFC3339),
		string(data),
	}

	_, err = svc.Spreadsheets.Values.
		Append(g.spreadsheetID, g.sheetName+"!A:E", &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}
