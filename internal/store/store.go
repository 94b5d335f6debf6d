// File: internal/store/store.go
package store

import (
	"context"
	"time"

	"github.com/smartdevs17/health-sms-relay/internal/models"
)

// EntryStore defines the interface for health log persistence. Entries are
// append-only; there is no update or delete.
type EntryStore interface {
	// Connection management
	Connect() error
	Close() error
	Ping(ctx context.Context) error

	// Entry operations
	Append(ctx context.Context, entry *models.Entry) error
	LastEntries(ctx context.Context, n int) ([]*models.Entry, error)
	ShareableLink(ctx context.Context) (string, error)
}

// StoreConfig holds entry store configuration
type StoreConfig struct {
	Backend         string        `json:"backend"`
	CredentialsJSON string        `json:"-"`
	CredentialsFile string        `json:"credentials_file"`
	SpreadsheetName string        `json:"spreadsheet_name"`
	RequestTimeout  time.Duration `json:"request_timeout"`
}
