// File: internal/notify/factory.go
package notify

import (
	"strings"

	"github.com/smartdevs17/health-sms-relay/internal/config"
	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// NewNotifier creates a new notifier instance based on configuration
func NewNotifier(cfg *config.NotifyConfig) (Notifier, error) {
	notifierConfig := &NotifierConfig{
		Channel:        cfg.Channel,
		SendURL:        cfg.SendURL,
		RequestTimeout: cfg.RequestTimeout,
	}

	switch strings.ToLower(cfg.Channel) {
	case "sms":
		return NewSMSSender(notifierConfig), nil
	case "log":
		return NewLogNotifier(), nil
	default:
		return nil, utils.NewAppError(utils.ErrCodeConfiguration,
			"Unsupported notify channel", cfg.Channel)
	}
}
