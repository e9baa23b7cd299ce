package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
)

// Kind tells callers what went wrong in the store without exposing the
// driver error.
type Kind int

const (
	// KindQuery is any failure that is not a conflict or an outage.
	KindQuery Kind = iota
	// KindConflict means a row with the same primary key already exists.
	KindConflict
	// KindUnavailable means the store could not be reached in time.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "query"
	}
}

// StorageError wraps every error returned by the store.
type StorageError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is a uniqueness violation from the store.
func IsConflict(err error) bool {
	return kindOf(err) == KindConflict
}

// IsUnavailable reports whether err means the store could not be reached.
func IsUnavailable(err error) bool {
	return kindOf(err) == KindUnavailable
}

func kindOf(err error) Kind {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Kind
	}
	return -1
}

// classify turns a driver error into a *StorageError. Connectivity problems
// are recognised first because drivers wrap them in their own error types.
func classify(op string, d dialect, err error) error {
	if err == nil {
		return nil
	}
	kind := KindQuery
	if isConnectivityError(err) {
		kind = KindUnavailable
	} else if k, ok := d.classify(err); ok {
		kind = k
	}
	return &StorageError{Op: op, Kind: kind, Err: err}
}

func isConnectivityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
