package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/lighthouse-point/internal/inquiry"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/diagnosis/lighthouse-point/pkg/metrics"
)

const maxResponseBytes = 64 << 10

// RelayError is any failed hand-off to the HTTP relay: transport error, non-2xx,
// unreadable body or success=false.
type RelayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RelayError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("relay status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("relay request failed: %v", e.Err)
	default:
		return fmt.Sprintf("relay status %d: %s", e.StatusCode, e.Message)
	}
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// TokenSource returns the bearer token presented to the relay. An empty token sends no header.
type TokenSource func() (string, error)

type HTTPRelay struct {
	baseURL string
	path    string
	client  *http.Client
	token   TokenSource
}

func NewHTTPRelay(baseURL, path string, token TokenSource) *HTTPRelay {
	return &HTTPRelay{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		token: token,
	}
}

func (r *HTTPRelay) Notify(ctx context.Context, n inquiry.Notification) error {
	if err := r.post(ctx, n); err != nil {
		metrics.NotificationsFailed.WithLabelValues("http").Inc()
		return err
	}
	return nil
}

func (r *HTTPRelay) post(ctx context.Context, n inquiry.Notification) error {
	body, err := json.Marshal(FromNotification(n))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := r.baseURL + r.path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", n.Reference)

	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	if r.token != nil {
		token, err := r.token()
		if err != nil {
			return fmt.Errorf("failed to sign relay token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.DebugContext(ctx, "Posting inquiry to relay", "url", url)

	resp, err := r.client.Do(req)
	if err != nil {
		return &RelayError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RelayError{StatusCode: resp.StatusCode, Err: err}
	}

	var out Response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		return &RelayError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return &RelayError{StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", decodeErr)}
	}
	if !out.Success {
		return &RelayError{StatusCode: resp.StatusCode, Message: out.Error}
	}

	return nil
}
