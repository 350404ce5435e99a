package apperr

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrParseFailure is returned when a document is not valid structured data.
	ErrParseFailure = zerr.New("parse failure")

	// ErrSchemaViolation is returned when a brand profile is missing required fields.
	ErrSchemaViolation = zerr.New("schema violation")

	// ErrInvalidColor is returned when a color string fails hex validation.
	ErrInvalidColor = zerr.New("invalid color")

	// ErrUnsupportedInputFormat is returned when the input cannot be read as JSON, CSV or TSV.
	ErrUnsupportedInputFormat = zerr.New("unsupported input format")

	// ErrMissingBrandForRebrand is returned when an existing workbook is given without a brand.
	ErrMissingBrandForRebrand = zerr.New("--brand is required when input is an .xlsx file (re-branding mode)")

	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = zerr.New("input file not found")

	// ErrIOFailure is returned for read and write failures at the storage boundary.
	ErrIOFailure = zerr.New("io failure")

	// ErrUsage is returned for invalid flags, arguments and option values.
	ErrUsage = zerr.New("usage error")

	// ErrInputLoad is returned when the input data could not be read into a table.
	ErrInputLoad = zerr.New("failed to load input")
)

// Exit codes of the generation CLI.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitInputLoad   = 2
	ExitOutputWrite = 3
)

// Wrap tags cause with an error kind so callers can match it with errors.Is.
func Wrap(kind, cause error, msg string) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: %w", kind, zerr.Wrap(cause, msg))
}

// WrapWith is Wrap plus one metadata field on the cause.
func WrapWith(kind, cause error, msg, key string, value interface{}) error {
	if cause == nil {
		return fmt.Errorf("%w: %w", kind, zerr.With(zerr.New(msg), key, value))
	}
	return fmt.Errorf("%w: %w", kind, zerr.With(zerr.Wrap(cause, msg), key, value))
}

// ExitCode maps an error returned by the CLI to its exit code. Usage kinds
// win over input kinds, so a missing input file exits 1 even when it is
// also tagged ErrInputLoad.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage), errors.Is(err, ErrInputNotFound), errors.Is(err, ErrMissingBrandForRebrand):
		return ExitUsage
	case errors.Is(err, ErrInputLoad), errors.Is(err, ErrParseFailure), errors.Is(err, ErrUnsupportedInputFormat):
		return ExitInputLoad
	default:
		return ExitOutputWrite
	}
}
