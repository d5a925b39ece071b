package cli

import "errors"

var (
	// ErrBinaryOutput means a binary format was requested without --output-file.
	ErrBinaryOutput = errors.New("binary output requires --output-file")
	// ErrInvalidFlag wraps malformed flag values.
	ErrInvalidFlag = errors.New("invalid flag")
)
