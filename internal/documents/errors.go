package documents

import "errors"

var (
	// ErrNotFound covers both absent records and records owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput marks malformed upload parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType marks a media type outside the supported set. The
	// check runs before any bytes are persisted.
	ErrUnsupportedType = errors.New("unsupported file type")
)
