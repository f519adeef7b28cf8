package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrStorageUnavailable means the store could not be opened or reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConstraintViolation covers foreign key, CHECK, NOT NULL and unique failures.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrQueryFailure is a malformed or otherwise failing statement.
	ErrQueryFailure = errors.New("query failure")
	ErrNotFound     = errors.New("not found")
)

// StorageError carries the failing operation and its category. Both the
// category sentinel and the driver error are reachable through errors.Is/As.
type StorageError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Wrap classifies err and attaches op. Context errors pass through untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return &StorageError{Op: op + ": " + se.Op, Kind: se.Kind, Err: se.Err}
	}
	return &StorageError{Op: op, Kind: Classify(err), Err: err}
}

// Classify maps a driver error onto one of the storage sentinels.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, sql.ErrConnDone):
		return ErrStorageUnavailable
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrConstraint:
			return ErrConstraintViolation
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr,
			sqlite3.ErrReadonly, sqlite3.ErrNotADB, sqlite3.ErrFull, sqlite3.ErrPerm, sqlite3.ErrCorrupt:
			return ErrStorageUnavailable
		default:
			return ErrQueryFailure
		}
	}

	// database/sql does not export its closed-pool error.
	if strings.Contains(err.Error(), "database is closed") {
		return ErrStorageUnavailable
	}
	return ErrQueryFailure
}
