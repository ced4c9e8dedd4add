package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/metrics"
)

const (
	headersEndpoint = "jobheaders"
	persecEndpoint  = "persecdata"
)

// RequestError is a non-success outcome of a logical fetch, carrying
// enough context to diagnose without re-running: the status, the requested
// URL, and how many attempts were spent.
type RequestError struct {
	Endpoint string
	URL      string
	Status   int
	Category Category
	Attempts int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: http %d (%s) after %d attempt(s): %s",
		e.Endpoint, e.Status, e.Category, e.Attempts, e.URL)
}

// Client talks to the two read-only endpoints of the records API: the
// full header collection and the per-record tabular payload.
type Client struct {
	baseURL string
	fetcher *Fetcher
	budget  FetchConfig
}

// NewClient creates a Client for the API at baseURL. budget applies to
// every logical request the client issues.
func NewClient(baseURL, token string, budget FetchConfig, timeout time.Duration) (*Client, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: NewFetcher(token, timeout),
		budget:  budget,
	}, nil
}

// JobHeaders downloads the full current header collection.
func (c *Client) JobHeaders(ctx context.Context) ([]domain.HeaderRecord, error) {
	body, err := c.get(ctx, headersEndpoint, c.baseURL+"/"+headersEndpoint)
	if err != nil {
		return nil, err
	}
	return decodeHeaders(body)
}

// PerSecData downloads the tabular payload for one record as text.
func (c *Client) PerSecData(ctx context.Context, recordID string) (string, error) {
	body, err := c.get(ctx, persecEndpoint, c.baseURL+"/"+persecEndpoint+"/"+recordID)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	outcome, err := c.fetcher.Fetch(ctx, url, c.budget)
	if err != nil {
		return nil, err
	}

	metrics.APIRequestsTotal.WithLabelValues(endpoint, outcome.Category.String()).Inc()
	metrics.APIRequestAttempts.WithLabelValues(endpoint).Observe(float64(outcome.Attempts))

	if outcome.Category != CategorySuccess {
		return nil, &RequestError{
			Endpoint: endpoint,
			URL:      outcome.URL,
			Status:   outcome.Status,
			Category: outcome.Category,
			Attempts: outcome.Attempts,
		}
	}
	return outcome.Body, nil
}
