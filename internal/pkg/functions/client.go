package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"kambafy/internal/pkg/metrics"
)

var (
	ErrNotConfigured = errors.New("functions client is not configured")
	ErrUnavailable   = errors.New("functions endpoint unavailable")
)

// CallError is returned when a function answered with a non-2xx status.
type CallError struct {
	Function   string
	StatusCode int
	Body       string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("function %s returned %d: %s", e.Function, e.StatusCode, e.Body)
}

// Invoker is what callers depend on.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload any, out any) error
}

// Client invokes named serverless functions: JSON in, JSON out, one attempt per call.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	log        zerolog.Logger
}

func NewClient(baseURL, serviceKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "functions",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var callErr *CallError
			if errors.As(err, &callErr) {
				return callErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("functions circuit breaker state changed")
		},
	})
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: timeout},
		cb:         cb,
		log:        log,
	}
}

func (c *Client) Invoke(ctx context.Context, name string, payload any, out any) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", name, err)
	}

	raw, err := c.cb.Execute(func() ([]byte, error) {
		return c.post(ctx, name, body)
	})
	if err != nil {
		metrics.FunctionCalls.WithLabelValues(name, "error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		c.log.Error().Err(err).Str("function", name).Msg("function invocation failed")
		return err
	}
	metrics.FunctionCalls.WithLabelValues(name, "ok").Inc()

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, name string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+name, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CallError{Function: name, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
