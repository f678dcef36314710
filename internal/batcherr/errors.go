package batcherr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPartition  = errors.New("invalid partition")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrMissingFile       = errors.New("missing file")
	ErrTaskFailure       = errors.New("task failure")
	ErrToolInvocation    = errors.New("tool invocation failure")
	ErrConfiguration     = errors.New("configuration error")
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker. The marker should be one of the sentinels above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrTaskFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err should abort a whole run rather than a single task.
// Only parameter validation errors qualify.
func Fatal(err error) bool {
	return errors.Is(err, ErrInvalidPartition) || errors.Is(err, ErrConfiguration)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "batch failure"
	}
	return strings.Join(parts, ": ")
}
