package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "snapshot not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "snapshot not found" {
		t.Errorf("expected message 'snapshot not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeQueryFailed, "condor_status failed", cause)

	if err.Code != ErrCodeQueryFailed {
		t.Errorf("expected code %s, got %s", ErrCodeQueryFailed, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("timeout")
	ctx := map[string]any{
		"collector": "cm-1.ospool.osg-htc.org",
		"schedd":    "ap1.example.org",
	}

	err := WrapWithContext(ErrCodeTimeout, "schedd query timed out", cause, ctx)

	if err.Code != ErrCodeTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeTimeout, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["collector"] != "cm-1.ospool.osg-htc.org" {
		t.Errorf("expected collector to be cm-1.ospool.osg-htc.org")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodePersistFailed, "failed", errors.New("disk full")),
			expected: "[PERSIST_FAILED] failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	inner := Wrap(ErrCodeTimeout, "query", errors.New("deadline"))
	wrapped := fmt.Errorf("resolve: %w", inner)

	if got := CodeOf(wrapped); got != ErrCodeTimeout {
		t.Errorf("expected %s, got %s", ErrCodeTimeout, got)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty code, got %s", got)
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(ErrCodePersistFailed, "save", Wrap(ErrCodeUnavailable, "redis", errors.New("refused")))

	if !IsCode(err, ErrCodePersistFailed) {
		t.Error("expected outer code to match")
	}
	if !IsCode(err, ErrCodeUnavailable) {
		t.Error("expected nested code to match")
	}
	if IsCode(err, ErrCodeNotFound) {
		t.Error("unexpected match for NOT_FOUND")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("nil error must not match")
	}
}
