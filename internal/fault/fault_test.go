package fault

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var errSentinel = errors.New("operation failed")

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(errSentinel, cause)

	if !errors.Is(err, errSentinel) {
		t.Fatal("sentinel not matchable after Wrap")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not matchable after Wrap")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("message %q missing cause text", err.Error())
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(errSentinel, "stage %d", 3)

	if !errors.Is(err, errSentinel) {
		t.Fatal("sentinel not matchable after Wrapf")
	}
	if err.Error() != "operation failed: stage 3" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestWrapfWithCause(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrapf(errSentinel, "step %d: %w", 2, cause)

	if !errors.Is(err, errSentinel) {
		t.Fatal("sentinel not matchable")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not matchable through %w in format")
	}
}

func TestWrapNested(t *testing.T) {
	inner := errors.New("inner")
	mid := Wrap(errSentinel, inner)
	outer := fmt.Errorf("context: %w", mid)

	if !errors.Is(outer, errSentinel) || !errors.Is(outer, inner) {
		t.Fatal("chain broken after further wrapping")
	}
}
