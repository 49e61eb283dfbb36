package prc

import "errors"

var (
	// ErrMalformedHeader means the input is shorter than the fixed
	// 78-byte header.
	ErrMalformedHeader = errors.New("malformed PRC header")

	// ErrTruncatedDirectory means the input ends before the record
	// directory the header declares.
	ErrTruncatedDirectory = errors.New("truncated record directory")

	// ErrInvalidOffset means a record's data offset lies at or beyond
	// the end of the file. Recoverable: callers skip the record.
	ErrInvalidOffset = errors.New("record offset beyond end of file")

	// ErrRecordBounds means the computed record range is negative or
	// runs past the end of the file, which happens when directory
	// offsets are not stored in non-decreasing order. Recoverable.
	ErrRecordBounds = errors.New("record bounds out of order")
)
