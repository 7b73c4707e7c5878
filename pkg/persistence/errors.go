package persistence

import (
	"errors"
	"fmt"
)

var (
	ErrInitFailed      = errors.New("persistence init failed")
	ErrSaveFailed      = errors.New("save failed")
	ErrLoadFailed      = errors.New("load failed")
	ErrDeleteFailed    = errors.New("delete failed")
	ErrVersionMismatch = errors.New("save schema version mismatch")
)

// Op names the persistence operation that failed.
type Op string

const (
	OpInit    Op = "init"
	OpSave    Op = "save"
	OpLoad    Op = "load"
	OpDelete  Op = "delete"
	OpInspect Op = "inspect"
)

// Error describes a failed persistence operation.
// It matches both its Kind sentinel and the underlying cause with errors.Is.
type Error struct {
	Op   Op
	Slot string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (slot %q): %v", e.Kind, e.Slot, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newError(op Op, slot string, kind, err error) *Error {
	return &Error{Op: op, Slot: slot, Kind: kind, Err: err}
}
