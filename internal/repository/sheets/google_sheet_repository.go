package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/cocopets/boarding/internal/config"
	"github.com/cocopets/boarding/internal/domain/models"
)

const occupancyRange = "Occupancy!A:G"

// GoogleSheetExporter appends occupancy report rows to the admin spreadsheet
// using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendOccupancyRow appends one report as a spreadsheet row.
func (e *GoogleSheetExporter) AppendOccupancyRow(ctx context.Context, report models.OccupancyReport) error {
	values := []interface{}{
		report.Date.Format("2006-01-02"),
		report.DogsBooked,
		report.DogCapacity,
		report.CatsBooked,
		report.CatCapacity,
		report.CheckIns,
		report.CheckOuts,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, occupancyRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append occupancy row: %w", err)
	}

	e.logger.Debug("occupancy row appended", zap.String("range", occupancyRange))
	return nil
}
