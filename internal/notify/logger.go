// File: internal/notify/logger.go
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// LogNotifier writes outbound messages to the structured log instead of an
// SMS relay. Used for local runs and the connectivity test command.
type LogNotifier struct {
	logger *logrus.Entry
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		logger: utils.GetLogger().WithField("component", "log_notifier"),
	}
}

// Send logs the message and always succeeds
func (l *LogNotifier) Send(ctx context.Context, message string) error {
	l.logger.Info("Outbound message", map[string]interface{}{
		"message": message,
	})
	return nil
}
