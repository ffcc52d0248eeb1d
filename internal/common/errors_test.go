package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorMatchesKind(t *testing.T) {
	err := NewAppError(ErrConflict, "batch is processing", nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatal("AppError should match its kind")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("AppError matched the wrong kind")
	}
}

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError(ErrInternal, "record scan", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause should unwrap")
	}
	if got := err.Error(); got != "record scan: disk full" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestWrapErrorNilPassthrough(t *testing.T) {
	if err := WrapError(ErrInternal, "context", nil); err != nil {
		t.Fatalf("nil cause should stay nil, got %v", err)
	}
	wrapped := WrapError(ErrInternal, "context", fmt.Errorf("boom"))
	if !errors.Is(wrapped, ErrInternal) {
		t.Fatal("wrapped error lost its kind")
	}
}
