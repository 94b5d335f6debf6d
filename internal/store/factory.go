// File: internal/store/factory.go
package store

import (
	"strings"

	"github.com/smartdevs17/health-sms-relay/internal/config"
	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// NewEntryStore creates a new entry store instance based on configuration
func NewEntryStore(cfg *config.SheetsConfig) (EntryStore, error) {
	storeConfig := &StoreConfig{
		Backend:         cfg.Backend,
		CredentialsJSON: cfg.CredentialsJSON,
		CredentialsFile: cfg.CredentialsFile,
		SpreadsheetName: cfg.SpreadsheetName,
		RequestTimeout:  cfg.RequestTimeout,
	}

	switch strings.ToLower(cfg.Backend) {
	case "sheets":
		return NewSheetsStore(storeConfig), nil
	case "memory":
		return NewMemoryStore(storeConfig), nil
	default:
		return nil, utils.NewAppError(utils.ErrCodeConfiguration,
			"Unsupported store backend", cfg.Backend)
	}
}
