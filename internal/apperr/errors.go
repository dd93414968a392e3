// Package apperr defines the error taxonomy shared by the service layer.
// Every failure crossing a service boundary is one of these kinds so that
// HTTP handlers can map causes to status codes without string matching.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindGeneration marks a summarization-gateway failure. Nothing new
	// was persisted when an operation fails with this kind.
	KindGeneration Kind = iota + 1
	// KindStore marks an underlying persistence failure.
	KindStore
	// KindNotFound marks an unresolved child, task, or conversation id.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindGeneration:
		return "generation"
	case KindStore:
		return "store"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error couples a failure kind with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Generation wraps err as a gateway failure.
func Generation(op string, err error) error {
	return &Error{Kind: KindGeneration, Op: op, Err: err}
}

// Store wraps err as a persistence failure.
func Store(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// NotFound reports an unresolved identifier.
func NotFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// KindOf extracts the kind from err, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsGeneration reports whether err carries KindGeneration.
func IsGeneration(err error) bool { return KindOf(err) == KindGeneration }

// IsStore reports whether err carries KindStore.
func IsStore(err error) bool { return KindOf(err) == KindStore }

// IsTimeout reports whether err was ultimately caused by a deadline,
// keeping slow-gateway timeouts distinguishable from other failures.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
