package api

import (
	"net/http"
	"strconv"
	"time"
)

// Category classifies one HTTP response of a logical fetch.
type Category int

const (
	// CategorySuccess means the body was delivered and retrying stops.
	CategorySuccess Category = iota

	// CategoryRetryable covers rate limiting (429) and unrecognized status
	// codes; the request may be re-issued while attempts remain.
	CategoryRetryable

	// CategoryTerminal covers 400/401/403/404; retrying cannot help.
	CategoryTerminal
)

func (c Category) String() string {
	switch c {
	case CategorySuccess:
		return "success"
	case CategoryRetryable:
		return "retryable"
	case CategoryTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Classify maps an HTTP status code onto a category.
func Classify(status int) Category {
	switch status {
	case http.StatusOK:
		return CategorySuccess
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound:
		return CategoryTerminal
	default:
		return CategoryRetryable
	}
}

// State is one position of the retry loop's state machine.
type State int

const (
	StateAttempting State = iota
	StateWaiting
	StateSucceeded
	StateFailedTerminal
	StateFailedExhausted
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateWaiting:
		return "waiting"
	case StateSucceeded:
		return "succeeded"
	case StateFailedTerminal:
		return "failed-terminal"
	case StateFailedExhausted:
		return "failed-exhausted"
	default:
		return "unknown"
	}
}

// Transition is the outcome of one attempt: the next state and, when the
// next state is StateWaiting, the delay to suspend before re-issuing.
type Transition struct {
	Next  State
	Delay time.Duration
}

// NextState is the pure transition function of the retry loop. attempt is
// 1-based and counts the attempt that just completed with category cat;
// delay is the backoff the response dictated for a retryable outcome. No
// delay is ever scheduled after the final attempt.
func NextState(cat Category, attempt, maxAttempts int, delay time.Duration) Transition {
	switch cat {
	case CategorySuccess:
		return Transition{Next: StateSucceeded}
	case CategoryTerminal:
		return Transition{Next: StateFailedTerminal}
	default:
		if attempt < maxAttempts {
			return Transition{Next: StateWaiting, Delay: delay}
		}
		return Transition{Next: StateFailedExhausted}
	}
}

// RetryDelay computes the backoff dictated by a rate-limited response. The
// Retry-After hint wins when it parses as a non-negative integer number of
// seconds; anything else falls back to defaultDelay.
func RetryDelay(retryAfter string, defaultDelay time.Duration) time.Duration {
	if retryAfter == "" {
		return defaultDelay
	}
	secs, err := strconv.Atoi(retryAfter)
	if err != nil || secs < 0 {
		return defaultDelay
	}
	return time.Duration(secs) * time.Second
}
