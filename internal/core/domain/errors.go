package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Per-entry errors. These are logged and the entry is skipped.

	// ErrRead indicates a file could not be opened or fully consumed.
	ErrRead = errors.New("read failed")

	// Fatal errors. These abort the running operation.

	// ErrTraversal indicates a directory could not be enumerated.
	ErrTraversal = errors.New("traversal failed")

	// ErrStorageFatal indicates a catalog failure that is not a uniqueness conflict.
	ErrStorageFatal = errors.New("catalog storage failure")

	// Outcome errors. The operation completed but found problems.

	// ErrMismatchesFound indicates an integrity check found drifted or lost files.
	ErrMismatchesFound = errors.New("integrity mismatches found")

	// ErrCoverageGaps indicates a comparison found identities missing from catalog 2.
	ErrCoverageGaps = errors.New("coverage gaps found")
)

// ReadError reports a file whose bytes could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is matches ErrRead.
func (e *ReadError) Is(target error) bool { return target == ErrRead }

// TraversalError reports a directory that could not be enumerated.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("walking %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// Is matches ErrTraversal.
func (e *TraversalError) Is(target error) bool { return target == ErrTraversal }

// StorageError reports a catalog operation that failed for a reason other
// than a uniqueness conflict. It is always fatal.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is matches ErrStorageFatal.
func (e *StorageError) Is(target error) bool { return target == ErrStorageFatal }

// IsFatal reports whether err must abort the running operation.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStorageFatal) || errors.Is(err, ErrTraversal)
}
