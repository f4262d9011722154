// Package webhook delivers finished payloads to the configured Zapier
// webhook with bounded retries. Delivery failures are reported back to
// the caller, never escalated, the intake request that produced the
// payload must still succeed.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/payload"
)

// Statuses reported on a delivery result.
const (
	StatusDisabled      = "disabled"
	StatusNotConfigured = "not_configured"
	StatusSuccess       = "success"
	StatusError         = "error"
	StatusTimeout       = "timeout"
)

const urlPlaceholder = "YOUR_ZAPIER_WEBHOOK_URL_HERE"

// Config is the delivery configuration, stored as JSON on disk.
type Config struct {
	Enabled           bool              `json:"enabled"`
	WebhookURL        string            `json:"zapier_webhook_url"`
	RetryAttempts     int               `json:"retry_attempts"`
	RetryDelaySeconds int               `json:"retry_delay_seconds"`
	TimeoutSeconds    int               `json:"timeout_seconds"`
	Headers           map[string]string `json:"headers"`
}

// DefaultConfig returns the disabled default used when no config file
// can be read.
func DefaultConfig() Config {
	return Config{
		Enabled:           false,
		WebhookURL:        "",
		RetryAttempts:     3,
		RetryDelaySeconds: 5,
		TimeoutSeconds:    30,
		Headers:           map[string]string{"Content-Type": "application/json"},
	}
}

// Configured reports whether the config carries a usable webhook URL.
func (c Config) Configured() bool {
	return c.WebhookURL != "" && c.WebhookURL != urlPlaceholder
}

// UpstreamResponse captures the webhook receiver's reply.
type UpstreamResponse struct {
	StatusCode   int    `json:"status_code"`
	ResponseText string `json:"response_text,omitempty"`
}

// Result describes one delivery attempt chain.
type Result struct {
	Triggered       bool              `json:"triggered"`
	Timestamp       string            `json:"timestamp"`
	Status          string            `json:"status"`
	Message         string            `json:"message"`
	UpstreamReply   *UpstreamResponse `json:"zapier_response"`
	Attempts        int               `json:"attempts"`
	PayloadProblems []string          `json:"payload_problems,omitempty"`
}

// ConfigSource yields the current delivery configuration.
type ConfigSource interface {
	Load() Config
}

// Trigger sends combined reports to the configured webhook.
type Trigger struct {
	configs ConfigSource
	builder *payload.Builder
	logger  ectologger.Logger
	client  *http.Client
	sleep   func(time.Duration)
}

// NewTrigger creates a webhook trigger.
func NewTrigger(configs ConfigSource, builder *payload.Builder, logger ectologger.Logger) *Trigger {
	return &Trigger{
		configs: configs,
		builder: builder,
		logger:  logger,
		client:  &http.Client{},
		sleep:   time.Sleep,
	}
}

// Trigger builds the standardized payload for the combined report and
// POSTs its flattened form. Disabled or unconfigured delivery returns
// immediately without touching the network.
func (t *Trigger) Trigger(ctx context.Context, report map[string]any) Result {
	result := Result{
		Status:    StatusDisabled,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	cfg := t.configs.Load()
	if !cfg.Enabled {
		result.Message = "webhook delivery is disabled"
		t.logger.WithContext(ctx).Debug("webhook delivery disabled, skipping")
		return result
	}
	if !cfg.Configured() {
		result.Status = StatusNotConfigured
		result.Message = "webhook URL not configured"
		t.logger.WithContext(ctx).Info("webhook URL not configured, skipping delivery")
		return result
	}

	built := t.builder.Build(report)
	result.PayloadProblems = t.builder.Validate(built)
	body, err := json.Marshal(payload.Flatten(built))
	if err != nil {
		result.Status = StatusError
		result.Message = "payload encoding failed: " + err.Error()
		return result
	}

	t.logger.WithContext(ctx).WithFields(map[string]any{
		"url":     cfg.WebhookURL,
		"summary": t.builder.Summary(built),
	}).Info("triggering webhook delivery")

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	delay := time.Duration(cfg.RetryDelaySeconds) * time.Second

	for attempt := 1; attempt <= attempts; attempt++ {
		result.Attempts = attempt

		status, message, reply := t.post(ctx, cfg, body, timeout)
		result.Status = status
		result.Message = message
		result.UpstreamReply = reply

		if status == StatusSuccess {
			result.Triggered = true
			t.logger.WithContext(ctx).WithFields(map[string]any{
				"attempt":     attempt,
				"status_code": reply.StatusCode,
			}).Info("webhook delivered")
			return result
		}

		t.logger.WithContext(ctx).WithFields(map[string]any{
			"attempt": attempt,
			"status":  status,
			"message": message,
		}).Error("webhook delivery attempt failed")

		if attempt < attempts {
			t.sleep(delay)
		}
	}

	return result
}

func (t *Trigger) post(ctx context.Context, cfg Config, body []byte, timeout time.Duration) (string, string, *UpstreamResponse) {
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return StatusError, "building request failed: " + err.Error(), nil
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return StatusTimeout, fmt.Sprintf("request timed out after %s", timeout), nil
		}
		return StatusError, "request failed: " + err.Error(), nil
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
	text := string(raw)
	reply := &UpstreamResponse{StatusCode: resp.StatusCode, ResponseText: text}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return StatusSuccess, fmt.Sprintf("webhook accepted delivery (HTTP %d)", resp.StatusCode), reply
	default:
		return StatusError, fmt.Sprintf("webhook returned status %d: %s", resp.StatusCode, truncate(text, 200)), reply
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
