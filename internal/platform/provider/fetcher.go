// Package provider holds the HTTP plumbing shared by the book search
// providers: rate limiting, retries with backoff and a circuit breaker.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"bookshelf/internal/platform/logging"
	"bookshelf/internal/platform/metrics"
)

// ErrNotFound is returned when the provider answers 404.
var ErrNotFound = errors.New("provider: not found")

// StatusError is an unexpected HTTP status from the provider.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type Options struct {
	Name       string
	UserAgent  string
	RPS        float64
	MaxRetries int
	Timeout    time.Duration
	// BaseBackoff is the first retry delay; it doubles on every attempt.
	BaseBackoff time.Duration
	HTTPClient  *http.Client
}

type Fetcher struct {
	name        string
	httpClient  *http.Client
	userAgent   string
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
	breaker     *gobreaker.CircuitBreaker[[]byte]
}

func NewFetcher(o Options) *Fetcher {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.Timeout}
	}

	limit := rate.Inf
	if o.RPS > 0 {
		limit = rate.Limit(o.RPS)
	}

	metrics.CircuitBreakerState.WithLabelValues(o.Name).Set(0)

	return &Fetcher{
		name:        o.Name,
		httpClient:  httpClient,
		userAgent:   o.UserAgent,
		limiter:     rate.NewLimiter(limit, 1),
		maxRetries:  o.MaxRetries,
		baseBackoff: o.BaseBackoff,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        o.Name,
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 5 && counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state change")
				metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
			},
		}),
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// GetJSON fetches url and decodes the body into target.
func (f *Fetcher) GetJSON(ctx context.Context, url string, target any) error {
	start := time.Now()
	body, err := f.breaker.Execute(func() ([]byte, error) {
		return f.get(ctx, url)
	})
	if err == nil {
		err = json.Unmarshal(body, target)
	}
	metrics.RecordProviderRequest(f.name, err, time.Since(start))
	return err
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= f.maxRetries; i++ {
		if i > 0 {
			backoff := f.baseBackoff << uint(i-1)
			logging.Ctx(ctx).Debug().Err(lastErr).
				Str("provider", f.name).
				Int("attempt", i).
				Dur("backoff", backoff).
				Msg("retrying provider request")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := f.do(ctx, url)
		if err == nil {
			return body, nil
		}
		var se *StatusError
		if errors.Is(err, ErrNotFound) || (errors.As(err, &se) && !se.retryable()) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", f.maxRetries, lastErr)
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}
