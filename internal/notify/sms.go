// File: internal/notify/sms.go
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// SMSSender delivers messages through the Android Tasker/Join relay: a GET
// to the configured send URL with the text in the `message` query
// parameter. A 2xx response means the phone accepted the message. Exactly
// one attempt per send; delivery failures are reported, never retried.
type SMSSender struct {
	config     *NotifierConfig
	logger     *logrus.Entry
	httpClient *http.Client
}

// SMSResponse captures the outcome of a single send attempt
type SMSResponse struct {
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
	Success      bool          `json:"success"`
	Error        error         `json:"error,omitempty"`
}

// NewSMSSender creates a new SMS sender
func NewSMSSender(config *NotifierConfig) *SMSSender {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SMSSender{
		config: config,
		logger: utils.GetLogger().WithField("component", "sms_sender"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// Send delivers a single message via the relay
func (s *SMSSender) Send(ctx context.Context, message string) error {
	if s.config.SendURL == "" {
		return utils.NewAppError(utils.ErrCodeConfiguration,
			"SMS send URL is not configured")
	}

	response := s.sendOnce(ctx, message)

	if response.Success {
		s.logger.Info("SMS sent", map[string]interface{}{
			"status_code":   response.StatusCode,
			"response_time": response.ResponseTime,
			"preview":       preview(message),
		})
		return nil
	}

	s.logger.Error("Failed to send SMS", map[string]interface{}{
		"status_code":   response.StatusCode,
		"response_time": response.ResponseTime,
		"error":         response.Error,
	})
	return response.Error
}

// sendOnce performs the single HTTP attempt
func (s *SMSSender) sendOnce(ctx context.Context, message string) *SMSResponse {
	startTime := time.Now()
	response := &SMSResponse{}

	sendURL, err := url.Parse(s.config.SendURL)
	if err != nil {
		response.Error = utils.NewAppError(utils.ErrCodeConfiguration,
			"Invalid SMS send URL", err.Error())
		response.ResponseTime = time.Since(startTime)
		return response
	}

	query := sendURL.Query()
	query.Set("message", message)
	sendURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sendURL.String(), nil)
	if err != nil {
		response.Error = utils.NewAppError(utils.ErrCodeInternal,
			"Failed to create SMS request", err.Error())
		response.ResponseTime = time.Since(startTime)
		return response
	}

	req.Header.Set("User-Agent", "Health-SMS-Relay/1.0")
	if requestID, err := utils.GenerateID(); err == nil {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := s.httpClient.Do(req)
	response.ResponseTime = time.Since(startTime)

	if err != nil {
		response.Error = utils.NewAppError(utils.ErrCodeDelivery,
			"Failed to reach SMS relay", err.Error())
		return response
	}
	defer resp.Body.Close()

	response.StatusCode = resp.StatusCode

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		response.Success = true
	} else {
		response.Error = utils.NewAppError(utils.ErrCodeDelivery,
			"SMS relay returned non-success status",
			fmt.Sprintf("status: %d", resp.StatusCode))
	}

	return response
}

// preview truncates a message for logging
func preview(message string) string {
	const max = 50
	if len(message) <= max {
		return message
	}
	return message[:max] + "..."
}
