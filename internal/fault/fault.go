package fault

import "fmt"

// Attaches a cause to a package sentinel error.
//
// Both the sentinel and the cause remain matchable with [errors.Is].
func Wrap(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Attaches a formatted message to a package sentinel error.
//
// The format string supports %w for wrapping a cause alongside the sentinel.
func Wrapf(sentinel error, format string, args ...any) error {
	args = append([]any{sentinel}, args...)
	return fmt.Errorf("%w: "+format, args...)
}
