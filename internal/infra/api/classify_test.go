package api

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status   int
		expected Category
	}{
		{200, CategorySuccess},
		{400, CategoryTerminal},
		{401, CategoryTerminal},
		{403, CategoryTerminal},
		{404, CategoryTerminal},
		{429, CategoryRetryable},
		{500, CategoryRetryable},
		{503, CategoryRetryable},
		{302, CategoryRetryable},
		{201, CategoryRetryable},
	}

	for _, tt := range tests {
		if got := Classify(tt.status); got != tt.expected {
			t.Errorf("Classify(%d) = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestNextState(t *testing.T) {
	delay := 70 * time.Second

	tests := []struct {
		name     string
		cat      Category
		attempt  int
		max      int
		expected Transition
	}{
		{
			name:     "success stops immediately",
			cat:      CategorySuccess,
			attempt:  1,
			max:      3,
			expected: Transition{Next: StateSucceeded},
		},
		{
			name:     "terminal stops without retry",
			cat:      CategoryTerminal,
			attempt:  1,
			max:      3,
			expected: Transition{Next: StateFailedTerminal},
		},
		{
			name:     "retryable with attempts left waits",
			cat:      CategoryRetryable,
			attempt:  1,
			max:      3,
			expected: Transition{Next: StateWaiting, Delay: delay},
		},
		{
			name:     "retryable on penultimate attempt still waits",
			cat:      CategoryRetryable,
			attempt:  2,
			max:      3,
			expected: Transition{Next: StateWaiting, Delay: delay},
		},
		{
			name:     "retryable on final attempt exhausts with no delay",
			cat:      CategoryRetryable,
			attempt:  3,
			max:      3,
			expected: Transition{Next: StateFailedExhausted},
		},
		{
			name:     "single-attempt budget exhausts immediately",
			cat:      CategoryRetryable,
			attempt:  1,
			max:      1,
			expected: Transition{Next: StateFailedExhausted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextState(tt.cat, tt.attempt, tt.max, delay)
			if got != tt.expected {
				t.Errorf("NextState(%v, %d, %d) = %+v, want %+v",
					tt.cat, tt.attempt, tt.max, got, tt.expected)
			}
		})
	}
}

func TestRetryDelay(t *testing.T) {
	fallback := 70 * time.Second

	tests := []struct {
		name       string
		retryAfter string
		expected   time.Duration
	}{
		{"absent header falls back", "", fallback},
		{"integer seconds win", "15", 15 * time.Second},
		{"zero is honoured", "0", 0},
		{"negative falls back", "-5", fallback},
		{"http-date format falls back", "Fri, 31 Dec 1999 23:59:59 GMT", fallback},
		{"garbage falls back", "soon", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetryDelay(tt.retryAfter, fallback); got != tt.expected {
				t.Errorf("RetryDelay(%q) = %v, want %v", tt.retryAfter, got, tt.expected)
			}
		})
	}
}
