// Package apperrors tests verify the custom error types, their Error()
// messages, Is() matching semantics and the retryability classification,
// including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrNotFound
// ---------------------------------------------------------------------------

func TestErrNotFound_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrNotFound
		expected string
	}{
		{
			name:     "with string ID",
			err:      &ErrNotFound{Resource: "video", ID: "abc"},
			expected: "video with ID abc not found",
		},
		{
			name:     "with int ID",
			err:      &ErrNotFound{Resource: "board", ID: 42},
			expected: "board with ID 42 not found",
		},
		{
			name:     "with nil ID",
			err:      &ErrNotFound{Resource: "channel", ID: nil},
			expected: "channel not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrNotFound_Is(t *testing.T) {
	t.Parallel()
	err := NewNotFoundError("video", "1")

	if !errors.Is(err, &ErrNotFound{Resource: "other", ID: 99}) {
		t.Error("expected errors.Is to match *ErrNotFound regardless of field values")
	}
	if errors.Is(err, &ErrMalformedRecord{}) {
		t.Error("expected errors.Is not to match *ErrMalformedRecord")
	}
}

// ---------------------------------------------------------------------------
// ErrMalformedRecord
// ---------------------------------------------------------------------------

func TestErrMalformedRecord_Error(t *testing.T) {
	t.Parallel()
	err := &ErrMalformedRecord{Field: "source", Index: 2}
	want := "malformed caption record at position 2: missing source"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrMalformedRecord_AsThroughWrapping(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("naming captions: %w", &ErrMalformedRecord{Field: "locale", Index: 0})

	var target *ErrMalformedRecord
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find *ErrMalformedRecord")
	}
	if target.Field != "locale" {
		t.Errorf("Field = %q, want %q", target.Field, "locale")
	}
}

// ---------------------------------------------------------------------------
// ErrNetwork / ErrServerResponse / ErrRetriesExhausted
// ---------------------------------------------------------------------------

func TestErrNetwork_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection reset")
	err := &ErrNetwork{URL: "http://api/x", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if err.Error() != "network error for http://api/x: connection reset" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrServerResponse_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrServerResponse
		expected string
	}{
		{
			name:     "status only",
			err:      &ErrServerResponse{URL: "http://api/x", StatusCode: 403},
			expected: "server error response from http://api/x: status 403",
		},
		{
			name:     "with API code",
			err:      &ErrServerResponse{URL: "http://api/x", StatusCode: 200, Code: "common_404", Message: "no video"},
			expected: "server error response from http://api/x: status 200, code common_404: no video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrRetriesExhausted_Unwrap(t *testing.T) {
	t.Parallel()
	last := &ErrNetwork{URL: "u", Err: errors.New("timeout")}
	err := fmt.Errorf("play info: %w", &ErrRetriesExhausted{Attempts: 3, Last: last})

	if !errors.Is(err, &ErrRetriesExhausted{}) {
		t.Error("expected errors.Is to match *ErrRetriesExhausted")
	}
	if !errors.Is(err, &ErrNetwork{}) {
		t.Error("expected errors.Is to reach the last network error")
	}
}

func TestErrInvalidInput_Error(t *testing.T) {
	t.Parallel()
	err := &ErrInvalidInput{Input: "nope", Expected: "channel board URL"}
	if got := err.Error(); got != `"nope" did not match a channel board URL` {
		t.Errorf("unexpected message %q", got)
	}
}

// ---------------------------------------------------------------------------
// IsRetryable
// ---------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"network", &ErrNetwork{URL: "u", Err: errors.New("eof")}, true},
		{"wrapped network", fmt.Errorf("fetch: %w", &ErrNetwork{URL: "u", Err: errors.New("eof")}), true},
		{"server response", &ErrServerResponse{URL: "u", StatusCode: 403}, false},
		{"not found", NewNotFoundError("video", "1"), false},
		{"malformed record", &ErrMalformedRecord{Field: "type"}, false},
		{"joined server and network", errors.Join(&ErrNetwork{URL: "u", Err: errors.New("x")}, &ErrServerResponse{URL: "u"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
