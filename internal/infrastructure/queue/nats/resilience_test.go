package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{"context canceled", context.Canceled, false, false},
		{"deadline exceeded", fmt.Errorf("publish: %w", context.DeadlineExceeded), false, false},
		{"no servers", nats.ErrNoServers, true, true},
		{"timeout", nats.ErrTimeout, true, true},
		{"connection closed", fmt.Errorf("publish: %w", nats.ErrConnectionClosed), true, true},
		{"disconnected", nats.ErrDisconnected, true, true},
		{"unknown error", errors.New("subject rejected"), false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class := classifyNATSError(tc.err)
			if class.Retryable != tc.retryable {
				t.Fatalf("Retryable = %v, want %v", class.Retryable, tc.retryable)
			}
			if class.RecordFailure != tc.record {
				t.Fatalf("RecordFailure = %v, want %v", class.RecordFailure, tc.record)
			}
		})
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	if err := wrapTemporaryIfNeeded(nil); err != nil {
		t.Fatalf("nil should stay nil, got %v", err)
	}

	wrapped := wrapTemporaryIfNeeded(nats.ErrTimeout)
	if !domain.IsKind(wrapped, domain.ErrTemporary) {
		t.Fatalf("connection failures should surface as temporary, got %v", wrapped)
	}
	if !errors.Is(wrapped, nats.ErrTimeout) {
		t.Fatalf("cause should be preserved, got %v", wrapped)
	}

	// Already-temporary errors are not re-wrapped.
	if again := wrapTemporaryIfNeeded(wrapped); again != wrapped {
		t.Fatalf("temporary error should pass through unchanged")
	}

	plain := errors.New("subject rejected")
	if got := wrapTemporaryIfNeeded(plain); got != plain {
		t.Fatalf("non-retryable errors pass through, got %v", got)
	}
}
