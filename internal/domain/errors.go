package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can tell fatal conditions from the
// ones that only produce a report entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindInputValidation
	KindUnresolved
	KindBatchCollision
	KindIncompleteShipping
	KindPersistenceFailure
)

func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "input_validation"
	case KindUnresolved:
		return "unresolved_sku"
	case KindBatchCollision:
		return "batch_collision"
	case KindIncompleteShipping:
		return "incomplete_shipping"
	case KindPersistenceFailure:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Fatal reports whether an error of this kind aborts the whole run.
func (k Kind) Fatal() bool {
	switch k {
	case KindInputValidation, KindBatchCollision, KindPersistenceFailure:
		return true
	default:
		return false
	}
}

// Error attaches a Kind to an underlying error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and the operation that produced it.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if absent.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Ledger sentinels, matched with errors.Is.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
)
