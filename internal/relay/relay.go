// File: internal/relay/relay.go
package relay

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/health-sms-relay/internal/metrics"
	"github.com/smartdevs17/health-sms-relay/internal/models"
	"github.com/smartdevs17/health-sms-relay/internal/notify"
	"github.com/smartdevs17/health-sms-relay/internal/store"
	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// Message result statuses
const (
	StatusLogged      = "logged"
	StatusLinkSent    = "link sent"
	StatusSummarySent = "summary sent"
	StatusNoUrgency   = "no urgency found"
)

// Fixed outbound message texts
const (
	msgLinkFailed    = "Failed to retrieve sheet link."
	msgSummaryFailed = "Failed to retrieve summary."
	msgNoEntries     = "No entries found in Health Log."
	msgAskForRating  = "Please include a urgency rating (1-10) in your message."
)

// RelayConfig holds relay behavior configuration
type RelayConfig struct {
	Secret         string `json:"-"`
	SummaryCount   int    `json:"summary_count"`
	CheckinMessage string `json:"checkin_message"`
}

// MessageResult is the outcome of handling one inbound message
type MessageResult struct {
	Status  string `json:"status"`
	Urgency int    `json:"urgency,omitempty"`
}

// Relay implements the webhook behavior: classify an inbound message,
// read or write the entry store, and answer over the outbound SMS channel.
// It holds no state across requests.
type Relay struct {
	config         *RelayConfig
	store          store.EntryStore
	notifier       notify.Notifier
	metricsManager *metrics.Manager
	logger         *logrus.Entry
	now            func() time.Time
}

// NewRelay creates a new relay
func NewRelay(
	config *RelayConfig,
	entryStore store.EntryStore,
	notifier notify.Notifier,
	metricsManager *metrics.Manager,
) *Relay {
	return &Relay{
		config:         config,
		store:          entryStore,
		notifier:       notifier,
		metricsManager: metricsManager,
		logger:         utils.GetLogger().WithField("component", "relay"),
		now:            time.Now,
	}
}

// HandleMessage handles one inbound SMS notification. Classification on
// the lowercased, trimmed body, in strict order: link, summary, data
// entry. Store failures in the link and summary branches are answered
// with a best-effort SMS notice and still count as success; a data-entry
// append failure is surfaced to the caller.
func (r *Relay) HandleMessage(ctx context.Context, sender, body string) (*MessageResult, error) {
	body = strings.TrimSpace(body)
	bodyLower := strings.ToLower(body)

	r.logger.Info("Received SMS", map[string]interface{}{
		"sender": sender,
		"body":   body,
	})

	switch {
	case strings.Contains(bodyLower, "link"):
		return r.handleLink(ctx)
	case strings.Contains(bodyLower, "summary"):
		return r.handleSummary(ctx)
	default:
		return r.handleEntry(ctx, sender, body)
	}
}

// handleLink answers with the spreadsheet's shareable URL
func (r *Relay) handleLink(ctx context.Context) (*MessageResult, error) {
	r.recordMessage("link")

	startTime := time.Now()
	link, err := r.store.ShareableLink(ctx)
	r.recordStoreOperation("shareable_link", err == nil, time.Since(startTime))

	if err != nil {
		r.logger.Error("Error getting sheet link", map[string]interface{}{"error": err})
		r.send(ctx, msgLinkFailed)
	} else {
		r.send(ctx, "Health Log Link: "+link)
	}

	return &MessageResult{Status: StatusLinkSent}, nil
}

// handleSummary answers with the last few entries
func (r *Relay) handleSummary(ctx context.Context) (*MessageResult, error) {
	r.recordMessage("summary")

	startTime := time.Now()
	entries, err := r.store.LastEntries(ctx, r.config.SummaryCount)
	r.recordStoreOperation("last_entries", err == nil, time.Since(startTime))

	switch {
	case err != nil:
		r.logger.Error("Error getting summary", map[string]interface{}{"error": err})
		r.send(ctx, msgSummaryFailed)
	case len(entries) == 0:
		r.send(ctx, msgNoEntries)
	default:
		r.send(ctx, formatSummary(entries, r.config.SummaryCount))
	}

	return &MessageResult{Status: StatusSummarySent}, nil
}

// handleEntry parses an urgency rating and appends a new entry
func (r *Relay) handleEntry(ctx context.Context, sender, body string) (*MessageResult, error) {
	urgency, ok := ParseUrgency(body)
	if !ok {
		r.recordMessage("unparsed")
		r.send(ctx, msgAskForRating)
		return &MessageResult{Status: StatusNoUrgency}, nil
	}

	r.recordMessage("entry")
	entry := models.NewEntry(r.now(), body, urgency)

	startTime := time.Now()
	err := r.store.Append(ctx, entry)
	r.recordStoreOperation("append", err == nil, time.Since(startTime))

	if err != nil {
		r.send(ctx, fmt.Sprintf("Failed to log entry for %s. ❌", sender))
		return nil, utils.NewAppError(utils.ErrCodePersistence,
			"Failed to log entry", err.Error())
	}

	if r.metricsManager != nil {
		r.metricsManager.GetPrometheusMetrics().RecordEntryLogged(urgency)
	}

	r.send(ctx, fmt.Sprintf("Logged for %s. ✅", sender))
	return &MessageResult{Status: StatusLogged, Urgency: urgency}, nil
}

// TriggerCheckin sends the daily check-in prompt after verifying the
// caller's secret. The comparison is constant-time; an unset secret never
// authorizes.
func (r *Relay) TriggerCheckin(ctx context.Context, providedSecret string) error {
	if r.config.Secret == "" ||
		subtle.ConstantTimeCompare([]byte(providedSecret), []byte(r.config.Secret)) != 1 {
		r.logger.Warn("Unauthorized trigger attempt")
		r.recordCheckinTrigger("unauthorized")
		return utils.NewAppError(utils.ErrCodeUnauthorized, "Unauthorized")
	}

	if err := r.send(ctx, r.config.CheckinMessage); err != nil {
		r.recordCheckinTrigger("failed")
		return utils.NewAppError(utils.ErrCodeDelivery,
			"Failed to send SMS", err.Error())
	}

	r.recordCheckinTrigger("sent")
	return nil
}

// send delivers one outbound message, recording the attempt. Callers on
// the conversational paths ignore the returned error by design; the
// trigger path surfaces it.
func (r *Relay) send(ctx context.Context, message string) error {
	startTime := time.Now()
	err := r.notifier.Send(ctx, message)

	if r.metricsManager != nil {
		r.metricsManager.GetPrometheusMetrics().RecordSMS(err == nil, time.Since(startTime))
	}
	if err != nil {
		r.logger.Error("Outbound send failed", map[string]interface{}{"error": err})
	}
	return err
}

// formatSummary renders entries as the summary SMS text
func formatSummary(entries []*models.Entry, count int) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, fmt.Sprintf("Last %d entries:", count))
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s %s - Urgency: %d",
			i+1, entry.Date, entry.Time, entry.Urgency))
	}
	return strings.Join(lines, "\n")
}

func (r *Relay) recordMessage(kind string) {
	if r.metricsManager != nil {
		r.metricsManager.GetPrometheusMetrics().RecordMessage(kind)
	}
}

func (r *Relay) recordStoreOperation(operation string, success bool, duration time.Duration) {
	if r.metricsManager != nil {
		r.metricsManager.GetPrometheusMetrics().RecordStoreOperation(operation, success, duration)
	}
}

func (r *Relay) recordCheckinTrigger(outcome string) {
	if r.metricsManager != nil {
		r.metricsManager.GetPrometheusMetrics().RecordCheckinTrigger(outcome)
	}
}
