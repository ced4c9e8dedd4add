package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrInvalidFetchConfig marks a caller-supplied retry budget that violates
// the fetch contract. This is a programming error, not a runtime failure.
var ErrInvalidFetchConfig = errors.New("invalid fetch config")

// FetchConfig is the retry budget for one logical request.
type FetchConfig struct {
	MaxAttempts  int           // must be > 0
	DefaultDelay time.Duration // must be >= 0
}

// Validate enforces the fetch contract on the budget.
func (c FetchConfig) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidFetchConfig, c.MaxAttempts)
	}
	if c.DefaultDelay < 0 {
		return fmt.Errorf("%w: default delay must be non-negative, got %s", ErrInvalidFetchConfig, c.DefaultDelay)
	}
	return nil
}

// Outcome is the classified result of one logical fetch. Body is nil
// unless Category is CategorySuccess: either the full successful body is
// returned or no payload at all.
type Outcome struct {
	Category Category
	Status   int
	Body     []byte
	Attempts int
	URL      string
}

// SleepFunc suspends for d or until ctx is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep blocks for d or until ctx is cancelled. It is the SleepFunc used
// by default everywhere pacing or backoff is needed.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher issues one logical HTTP GET with classification and backoff.
// Every request carries the bearer token; retries are strictly sequential
// and the backoff of one request never blocks unrelated requests.
type Fetcher struct {
	client *http.Client
	token  string
	sleep  SleepFunc
	log    *slog.Logger
}

// NewFetcher creates a Fetcher authenticating with token.
func NewFetcher(token string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		token: token,
		sleep: Sleep,
		log:   slog.Default(),
	}
}

// Fetch performs at most cfg.MaxAttempts attempts of the same logical GET
// and returns the classified outcome of the last attempt. A retryable
// category after exhaustion is an overall failure with no payload; the
// caller decides how to surface non-success categories.
func (f *Fetcher) Fetch(ctx context.Context, url string, cfg FetchConfig) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	outcome := &Outcome{URL: url}

	for attempt := 1; ; attempt++ {
		status, body, delay, err := f.attempt(ctx, url, cfg.DefaultDelay)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Transport-level failure: no status to classify, treat like an
			// unrecognized response and retry on the default delay.
			f.log.Warn("request failed before a response arrived",
				"url", url, "attempt", attempt, "error", err)
			status, delay = 0, cfg.DefaultDelay
		}

		cat := Classify(status)
		outcome.Category = cat
		outcome.Status = status
		outcome.Attempts = attempt
		outcome.Body = nil
		if cat == CategorySuccess {
			outcome.Body = body
		}

		tr := NextState(cat, attempt, cfg.MaxAttempts, delay)
		switch tr.Next {
		case StateSucceeded, StateFailedTerminal, StateFailedExhausted:
			if tr.Next == StateFailedExhausted {
				f.log.Warn("attempts exhausted",
					"url", url, "attempts", attempt, "status", status)
			}
			return outcome, nil
		case StateWaiting:
			f.log.Info("retrying after backoff",
				"url", url, "attempt", attempt, "status", status, "delay", tr.Delay)
			if err := f.sleep(ctx, tr.Delay); err != nil {
				return nil, err
			}
		}
	}
}

// attempt issues a single GET and returns the status, the fully read body
// for 200 responses, and the backoff a retryable response dictated.
func (f *Fetcher) attempt(
	ctx context.Context,
	url string,
	defaultDelay time.Duration,
) (int, []byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	delay := defaultDelay
	if resp.StatusCode == http.StatusTooManyRequests {
		delay = RetryDelay(resp.Header.Get("Retry-After"), defaultDelay)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, delay, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// Partial payloads are never returned.
		return 0, nil, 0, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, delay, nil
}
