package grabbieldb

import "errors"

var (
	// ErrNotFound is returned when a row, table or object does not exist
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUploadFailed is returned when object storage did not confirm an upload
	ErrUploadFailed = errors.New("upload failed")
	// ErrDeleteFailed is returned when object storage could not remove an object
	ErrDeleteFailed = errors.New("delete failed")
)
