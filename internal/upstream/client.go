// Package upstream holds the typed clients for the third-party APIs the
// service aggregates. Each provider gets its own rate limiter and circuit
// breaker; payloads are decoded into provider-specific schemas here so
// downstream logic never touches provider field names.
package upstream

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"pulsehub-api/internal/metrics"
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API responded with status %d", e.Provider, e.Code)
}

// Client is the shared HTTP transport for one provider. It enforces the
// provider's rate limit, wraps calls in a circuit breaker, and retries
// transient failures with jittered backoff.
type Client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	retries int
}

// NewClient builds a provider transport. ratePerMin caps outgoing
// requests; retries is the number of additional attempts after a
// transient failure.
func NewClient(name string, timeout time.Duration, ratePerMin float64, retries int) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ratePerMin <= 0 {
		ratePerMin = 60
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})

	return &Client{
		name:    name,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ratePerMin/60.0), 2),
		breaker: breaker,
		retries: retries,
	}
}

// GetJSON fetches url and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	body, err := c.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.name, err)
	}
	return nil
}

// Get fetches url and returns the raw body. Rate limiting happens before
// the breaker so a tripped breaker does not burn limiter tokens queueing.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doWithRetry(ctx, url, headers)
	})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(c.name, "ok").Inc()
	return body, nil
}

func (c *Client) doWithRetry(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s request failed: %w", c.name, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%s: failed to read response: %w", c.name, err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &StatusError{Provider: c.name, Code: resp.StatusCode}
			continue
		}
		if resp.StatusCode >= 300 {
			// Client errors are final; retrying cannot fix them.
			return nil, &StatusError{Provider: c.name, Code: resp.StatusCode}
		}

		return body, nil
	}

	return nil, lastErr
}

// backoff returns an exponential delay with jitter for the given retry
// attempt (1-based).
func backoff(attempt int) time.Duration {
	base := 500 * time.Millisecond << (attempt - 1)
	jitter := time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
	return base + jitter
}
