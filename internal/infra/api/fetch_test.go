package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeSleep records requested delays without blocking.
type fakeSleep struct {
	delays []time.Duration
}

func (s *fakeSleep) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestFetcher(token string) (*Fetcher, *fakeSleep) {
	f := NewFetcher(token, 5*time.Second)
	s := &fakeSleep{}
	f.sleep = s.sleep
	return f, s
}

func TestFetchSuccessFirstAttempt(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f, sleeper := newTestFetcher("secret-token")
	outcome, err := f.Fetch(context.Background(), srv.URL, FetchConfig{MaxAttempts: 3, DefaultDelay: time.Minute})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
	if outcome.Category != CategorySuccess {
		t.Errorf("Category = %v, want %v", outcome.Category, CategorySuccess)
	}
	if outcome.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", outcome.Attempts)
	}
	if string(outcome.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", outcome.Body)
	}
	if len(sleeper.delays) != 0 {
		t.Errorf("slept %v, want no sleeps", sleeper.delays)
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f, sleeper := newTestFetcher("t")
	outcome, err := f.Fetch(context.Background(), srv.URL, FetchConfig{MaxAttempts: 3, DefaultDelay: 70 * time.Second})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if outcome.Category != CategorySuccess || outcome.Attempts != 2 {
		t.Errorf("outcome = %+v, want success on attempt 2", outcome)
	}
	if len(sleeper.delays) != 1 || sleeper.delays[0] != 2*time.Second {
		t.Errorf("delays = %v, want [2s] from Retry-After", sleeper.delays)
	}
}

func TestFetchExhaustsOnPersistentRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	defaultDelay := 70 * time.Second
	f, sleeper := newTestFetcher("t")
	outcome, err := f.Fetch(context.Background(), srv.URL, FetchConfig{MaxAttempts: 3, DefaultDelay: defaultDelay})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
	if outcome.Category != CategoryRetryable || outcome.Attempts != 3 {
		t.Errorf("outcome = %+v, want retryable after 3 attempts", outcome)
	}
	if outcome.Body != nil {
		t.Errorf("Body = %v, want nil after exhaustion", outcome.Body)
	}
	// Two waits between three attempts; no wait scheduled after the last.
	if len(sleeper.delays) != 2 {
		t.Fatalf("slept %d times, want 2", len(sleeper.delays))
	}
	for i, d := range sleeper.delays {
		if d != defaultDelay {
			t.Errorf("delay[%d] = %v, want %v", i, d, defaultDelay)
		}
	}
}

func TestFetchTerminalStatusDoesNotRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f, sleeper := newTestFetcher("t")
	outcome, err := f.Fetch(context.Background(), srv.URL, FetchConfig{MaxAttempts: 3, DefaultDelay: time.Minute})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if attempts != 1 {
		t.Errorf("server saw %d attempts, want 1", attempts)
	}
	if outcome.Category != CategoryTerminal || outcome.Status != 404 {
		t.Errorf("outcome = %+v, want terminal 404", outcome)
	}
	if len(sleeper.delays) != 0 {
		t.Errorf("slept %v, want no sleeps", sleeper.delays)
	}
}

func TestFetchInvalidConfig(t *testing.T) {
	f, _ := newTestFetcher("t")

	_, err := f.Fetch(context.Background(), "http://unused", FetchConfig{MaxAttempts: 0, DefaultDelay: time.Second})
	if !errors.Is(err, ErrInvalidFetchConfig) {
		t.Errorf("MaxAttempts=0: error = %v, want ErrInvalidFetchConfig", err)
	}

	_, err = f.Fetch(context.Background(), "http://unused", FetchConfig{MaxAttempts: 3, DefaultDelay: -time.Second})
	if !errors.Is(err, ErrInvalidFetchConfig) {
		t.Errorf("negative delay: error = %v, want ErrInvalidFetchConfig", err)
	}
}

func TestFetchContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, _ := newTestFetcher("t")
	_, err := f.Fetch(ctx, srv.URL, FetchConfig{MaxAttempts: 3, DefaultDelay: time.Minute})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFetchTransportErrorIsRetryable(t *testing.T) {
	// A closed server makes every attempt fail before a response arrives.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f, sleeper := newTestFetcher("t")
	outcome, err := f.Fetch(context.Background(), url, FetchConfig{MaxAttempts: 2, DefaultDelay: 5 * time.Second})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if outcome.Category != CategoryRetryable || outcome.Attempts != 2 {
		t.Errorf("outcome = %+v, want retryable after 2 attempts", outcome)
	}
	if len(sleeper.delays) != 1 || sleeper.delays[0] != 5*time.Second {
		t.Errorf("delays = %v, want [5s]", sleeper.delays)
	}
}
