package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
	"github.com/amhub/dataworld/pkg/logger"
)

// WebhookConfig configures delivery to an HTTP notification endpoint
type WebhookConfig struct {
	Endpoint   string
	Token      string // sent as a bearer token when set
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration // first retry delay, doubled on each attempt
	MaxBackoff time.Duration
}

// Webhook posts submissions as JSON to an external endpoint
type Webhook struct {
	cfg        WebhookConfig
	httpClient *http.Client
	log        *logger.Logger
}

var _ ports.Notifier = (*Webhook)(nil)

// payload is the wire shape sent to the endpoint
type payload struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Subject        string    `json:"subject"`
	Product        string    `json:"product,omitempty"`
	RequesterName  string    `json:"requesterName,omitempty"`
	RequesterEmail string    `json:"requesterEmail"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewWebhook validates cfg and creates a webhook notifier
func NewWebhook(cfg WebhookConfig, log *logger.Logger) (*Webhook, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("webhook endpoint is required")
	}
	if !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return nil, fmt.Errorf("webhook endpoint must be an http(s) URL: %q", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Webhook{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("notifier", "webhook", "endpoint", cfg.Endpoint),
	}, nil
}

func (w *Webhook) Name() string {
	return "webhook"
}

// Notify posts sub, retrying on network errors, 429 and 5xx responses
func (w *Webhook) Notify(ctx context.Context, sub domain.Submission) error {
	body, err := json.Marshal(payload{
		ID:             sub.ID,
		Kind:           string(sub.Kind),
		Subject:        sub.Subject(),
		Product:        sub.Product,
		RequesterName:  sub.RequesterName,
		RequesterEmail: sub.RequesterEmail,
		Message:        sub.Message,
		CreatedAt:      sub.CreatedAt,
	})
	if err != nil {
		return &domain.TransportError{Endpoint: w.cfg.Endpoint, Err: err}
	}

	requestID := uuid.NewString()
	backoff := w.cfg.Backoff

	for attempt := 0; ; attempt++ {
		status, retryAfter, err := w.doOnce(ctx, body, requestID, sub.ID)
		if err == nil {
			return nil
		}

		if !retryable(status, err) || attempt >= w.cfg.MaxRetries {
			return &domain.TransportError{Endpoint: w.cfg.Endpoint, StatusCode: status, Err: err}
		}

		sleepFor := backoff
		if retryAfter > 0 {
			sleepFor = retryAfter
		}
		if sleepFor > w.cfg.MaxBackoff {
			sleepFor = w.cfg.MaxBackoff
		}

		w.log.Warn("webhook delivery retrying",
			"id", sub.ID,
			"attempt", attempt+1,
			"max_retries", w.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return &domain.TransportError{Endpoint: w.cfg.Endpoint, StatusCode: status, Err: ctx.Err()}
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}
}

func (w *Webhook) doOnce(ctx context.Context, body []byte, requestID, idempotencyKey string) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if w.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.Token)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, 0, nil
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return resp.StatusCode, retryAfter(resp), errors.New(msg)
}

func retryable(status int, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if status == 0 {
		return true // network error
	}
	return status == http.StatusTooManyRequests || status >= 500
}

func retryAfter(resp *http.Response) time.Duration {
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
