package core

// errors.go defines the failure conditions reported by the table store.
//
// Load never fails outright: ErrMissingFile and *ReadError are returned
// alongside an empty table so callers can warn and carry on. Every other
// error rejects the operation before the in-memory table is touched, except
// *WriteError which is raised after the mutation has been applied in memory.

import (
	"errors"
	"fmt"
)

// ErrMissingFile is returned by Load when the dataset file does not exist.
var ErrMissingFile = errors.New("dataset file not found")

// ReadError reports a dataset file that exists but could not be parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read dataset %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failure to persist the table.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write dataset %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ShapeError rejects a record whose field count differs from the header.
type ShapeError struct {
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid record shape: got %d fields, want %d", e.Got, e.Want)
}

// IndexError rejects a row position outside the table.
type IndexError struct {
	Position int
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("row position %d out of range [0, %d)", e.Position, e.Len)
}

// UnknownFieldError rejects a sort or search on a column the table lacks.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}
