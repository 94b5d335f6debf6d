// File: internal/notify/notify.go
package notify

import (
	"context"
	"time"
)

// Notifier is the outbound channel that turns a text string into a
// delivered SMS (or a log line, for local runs).
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// NotifierConfig holds outbound channel configuration
type NotifierConfig struct {
	Channel        string        `json:"channel"`
	SendURL        string        `json:"send_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
}
