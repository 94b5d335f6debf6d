// File: internal/store/sheets.go
package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/smartdevs17/health-sms-relay/internal/models"
	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// SheetsStore persists entries in a named Google Sheets spreadsheet,
// first worksheet, columns A:D. The spreadsheet is resolved by name
// through a Drive query and the resolved ID, URL and worksheet title are
// cached for the process lifetime.
//
// API clients are built lazily on first use so that missing or invalid
// credentials fail the operation rather than startup.
type SheetsStore struct {
	config *StoreConfig
	logger *logrus.Entry

	mu             sync.Mutex
	sheets         *sheets.Service
	drive          *drive.Service
	spreadsheetID  string
	spreadsheetURL string
	sheetTitle     string
}

// NewSheetsStore creates a new Google Sheets entry store
func NewSheetsStore(config *StoreConfig) *SheetsStore {
	return &SheetsStore{
		config: config,
		logger: utils.GetLogger().WithField("component", "sheets_store"),
	}
}

// Connect warms the API clients and spreadsheet resolution. Failures here
// are reported but not fatal: every operation re-attempts on its own.
func (s *SheetsStore) Connect() error {
	ctx, cancel := s.opContext(context.Background())
	defer cancel()

	if err := s.resolveSpreadsheet(ctx); err != nil {
		return err
	}

	s.logger.Info("Connected to Google Sheets", map[string]interface{}{
		"spreadsheet": s.config.SpreadsheetName,
		"worksheet":   s.sheetTitle,
	})
	return nil
}

// Close releases the cached clients
func (s *SheetsStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets = nil
	s.drive = nil
	return nil
}

// Ping verifies the spreadsheet is reachable
func (s *SheetsStore) Ping(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.resolveSpreadsheet(ctx)
}

// Append appends a single entry row to the spreadsheet
func (s *SheetsStore) Append(ctx context.Context, entry *models.Entry) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.resolveSpreadsheet(ctx); err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{entry.Row()},
	}

	_, err := s.sheets.Spreadsheets.Values.
		Append(s.spreadsheetID, s.entryRange(), valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Error("Failed to append entry", map[string]interface{}{"error": err})
		return utils.NewAppError(utils.ErrCodePersistence,
			"Failed to append entry to spreadsheet", err.Error())
	}

	s.logger.Info("Appended entry to spreadsheet", map[string]interface{}{
		"date":    entry.Date,
		"time":    entry.Time,
		"urgency": entry.Urgency,
	})
	return nil
}

// LastEntries returns the n most recently appended entries, oldest first.
// Row 1 is the header and is never counted as an entry.
func (s *SheetsStore) LastEntries(ctx context.Context, n int) ([]*models.Entry, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.resolveSpreadsheet(ctx); err != nil {
		return nil, err
	}

	resp, err := s.sheets.Spreadsheets.Values.
		Get(s.spreadsheetID, s.entryRange()).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Error("Failed to read entries", map[string]interface{}{"error": err})
		return nil, utils.NewAppError(utils.ErrCodePersistence,
			"Failed to read entries from spreadsheet", err.Error())
	}

	return tailEntries(resp.Values, n), nil
}

// ShareableLink returns the spreadsheet URL
func (s *SheetsStore) ShareableLink(ctx context.Context) (string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.resolveSpreadsheet(ctx); err != nil {
		return "", err
	}
	return s.spreadsheetURL, nil
}

// tailEntries decodes the last n data rows of a worksheet value grid,
// skipping the header row.
func tailEntries(rows [][]interface{}, n int) []*models.Entry {
	if len(rows) <= 1 {
		return nil
	}

	data := rows[1:]
	if len(data) > n {
		data = data[len(data)-n:]
	}

	entries := make([]*models.Entry, 0, len(data))
	for _, row := range data {
		entries = append(entries, models.EntryFromRow(row))
	}
	return entries
}

// entryRange returns the A1 range covering the entry columns
func (s *SheetsStore) entryRange() string {
	return fmt.Sprintf("%s!A:D", s.sheetTitle)
}

// opContext bounds an operation with the configured request timeout
func (s *SheetsStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

// resolveSpreadsheet builds the API clients and resolves the spreadsheet
// by name, caching the result. Safe for concurrent callers.
func (s *SheetsStore) resolveSpreadsheet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureClientsLocked(ctx); err != nil {
		return err
	}
	if s.spreadsheetID != "" {
		return nil
	}

	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(s.config.SpreadsheetName, "'", "\\'"))

	list, err := s.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return utils.NewAppError(utils.ErrCodePersistence,
			"Failed to look up spreadsheet", err.Error())
	}
	if len(list.Files) == 0 {
		return utils.NewAppError(utils.ErrCodeNotFound,
			"Spreadsheet not found", s.config.SpreadsheetName)
	}

	spreadsheetID := list.Files[0].Id

	meta, err := s.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetUrl,sheets(properties(title))").
		Context(ctx).
		Do()
	if err != nil {
		return utils.NewAppError(utils.ErrCodePersistence,
			"Failed to read spreadsheet metadata", err.Error())
	}
	if len(meta.Sheets) == 0 {
		return utils.NewAppError(utils.ErrCodeNotFound,
			"Spreadsheet has no worksheets", s.config.SpreadsheetName)
	}

	s.spreadsheetID = spreadsheetID
	s.spreadsheetURL = meta.SpreadsheetUrl
	s.sheetTitle = meta.Sheets[0].Properties.Title
	return nil
}

// ensureClientsLocked builds the Sheets and Drive clients from the service
// account credentials. Caller holds s.mu.
func (s *SheetsStore) ensureClientsLocked(ctx context.Context) error {
	if s.sheets != nil && s.drive != nil {
		return nil
	}

	creds, err := s.credentials()
	if err != nil {
		return err
	}

	jwtConfig, err := google.JWTConfigFromJSON(creds,
		sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeConfiguration,
			"Invalid Google service account credentials", err.Error())
	}

	// The token source is long-lived; request contexts bound individual calls.
	client := jwtConfig.Client(context.Background())

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return utils.NewAppError(utils.ErrCodeConfiguration,
			"Failed to create Sheets client", err.Error())
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return utils.NewAppError(utils.ErrCodeConfiguration,
			"Failed to create Drive client", err.Error())
	}

	s.sheets = sheetsService
	s.drive = driveService
	return nil
}

// credentials returns the service account key, inline config first, key
// file second.
func (s *SheetsStore) credentials() ([]byte, error) {
	if s.config.CredentialsJSON != "" {
		return []byte(s.config.CredentialsJSON), nil
	}
	if s.config.CredentialsFile != "" {
		creds, err := os.ReadFile(s.config.CredentialsFile)
		if err != nil {
			return nil, utils.NewAppError(utils.ErrCodeConfiguration,
				"Failed to read credentials file", err.Error())
		}
		return creds, nil
	}
	return nil, utils.NewAppError(utils.ErrCodeConfiguration,
		"Google credentials are not configured")
}
