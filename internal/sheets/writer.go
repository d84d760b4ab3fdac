package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/model"
	"github.com/Veraticus/autobill/internal/service"
)

// Writer appends finalized transactions to a spreadsheet, one row each. It
// implements service.TransactionSink.
type Writer struct {
	service       *sheets.Service
	logger        *slog.Logger
	loc           *time.Location
	spreadsheetID string
	config        Config
	mu            sync.Mutex
	ready         bool
}

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(srv, config, logger)
}

// NewWriterWithService creates a writer around an existing API client. Auth
// settings in config are ignored.
func NewWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SheetName == "" {
		config.SheetName = DefaultConfig().SheetName
	}

	loc, err := time.LoadLocation(config.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", config.TimeZone, err)
	}

	return &Writer{
		service:       srv,
		logger:        logger,
		loc:           loc,
		spreadsheetID: config.SpreadsheetID,
		config:        config,
	}, nil
}

// Append implements service.TransactionSink. The spreadsheet and its header
// row are created on first use.
func (w *Writer) Append(ctx context.Context, txn model.FinalizedTransaction) error {
	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 1
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ready {
		err := common.WithRetry(ctx, func() error {
			return classify(w.prepare(ctx))
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to prepare spreadsheet: %w", err)
		}
		w.ready = true
	}

	row := NewRow(txn, w.loc)
	err := common.WithRetry(ctx, func() error {
		return classify(w.appendRow(ctx, row.Values()))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	w.logger.Debug("appended transaction to sheet",
		"spreadsheet_id", w.spreadsheetID,
		"transaction_id", txn.ID)

	return nil
}

// SpreadsheetID returns the target spreadsheet, which may have been created
// by the first Append.
func (w *Writer) SpreadsheetID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spreadsheetID
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// prepare makes sure the spreadsheet exists and its first row is the header.
func (w *Writer) prepare(ctx context.Context) error {
	if w.spreadsheetID == "" {
		id, err := w.createSpreadsheet(ctx)
		if err != nil {
			return err
		}
		w.spreadsheetID = id
	}

	headerRange := fmt.Sprintf("%s!A1:I1", w.config.SheetName)
	existing, err := w.service.Spreadsheets.Values.Get(w.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to read header of spreadsheet %s: %w", w.spreadsheetID, err)
	}
	if len(existing.Values) > 0 && len(existing.Values[0]) > 0 {
		return nil
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, headerRange, &sheets.ValueRange{
		Values: [][]any{Header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}

	w.logger.Info("wrote ledger header", "spreadsheet_id", w.spreadsheetID, "sheet", w.config.SheetName)
	return nil
}

func (w *Writer) createSpreadsheet(ctx context.Context) (string, error) {
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: w.config.SheetName,
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func (w *Writer) appendRow(ctx context.Context, values []any) error {
	appendRange := fmt.Sprintf("%s!A:I", w.config.SheetName)
	_, err := w.service.Spreadsheets.Values.Append(w.spreadsheetID, appendRange, &sheets.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// classify stops retries on client errors other than rate limiting.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return common.Permanent(err)
		}
	}
	return err
}
