package sentinel

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: fmt.Errorf("title is required: %w", ErrValidation), want: "VALIDATION_ERROR"},
		{name: "not found", err: fmt.Errorf("reclamation REC-1: %w", ErrNotFound), want: "NOT_FOUND"},
		{name: "invalid transition", err: fmt.Errorf("wrapped: %w", fmt.Errorf("inner: %w", ErrInvalidTransition)), want: "INVALID_TRANSITION"},
		{name: "upstream", err: fmt.Errorf("identity: %w", ErrUpstreamUnavailable), want: "UPSTREAM_UNAVAILABLE"},
		{name: "unknown action", err: ErrUnknownAction, want: "UNKNOWN_ACTION"},
		{name: "anything else", err: errors.New("boom"), want: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}
