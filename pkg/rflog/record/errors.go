package record

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// MissingHeaderLine means the body contains no lines at all.
	MissingHeaderLine ErrorKind = iota + 1
	// MalformedHeader means the first line does not match the header grammar.
	MalformedHeader
	// BannerMismatch means the header grammar matched but the banner differs from Banner.
	BannerMismatch
	// FieldOutOfRange means a numeric header field is not a valid uint16.
	FieldOutOfRange
	// EmptyLine means an entry line is empty or whitespace only.
	EmptyLine
	// UnknownLogKind means an entry line starts with neither [OUT] nor [ERR].
	UnknownLogKind
	// InvalidTimestamp means an entry timestamp is not a valid time of day.
	InvalidTimestamp
)

// Sentinel errors, one per ErrorKind. A *ParseError matches its kind's
// sentinel with errors.Is.
var (
	ErrMissingHeaderLine = errors.New("missing header line")
	ErrMalformedHeader   = errors.New("malformed header")
	ErrBannerMismatch    = errors.New("banner mismatch")
	ErrFieldOutOfRange   = errors.New("field out of range")
	ErrEmptyLine         = errors.New("empty line")
	ErrUnknownLogKind    = errors.New("unknown log kind")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
)

var kindSentinels = map[ErrorKind]error{
	MissingHeaderLine: ErrMissingHeaderLine,
	MalformedHeader:   ErrMalformedHeader,
	BannerMismatch:    ErrBannerMismatch,
	FieldOutOfRange:   ErrFieldOutOfRange,
	EmptyLine:         ErrEmptyLine,
	UnknownLogKind:    ErrUnknownLogKind,
	InvalidTimestamp:  ErrInvalidTimestamp,
}

// Sentinel returns the sentinel error for the kind, or nil for an unknown kind.
func (k ErrorKind) Sentinel() error {
	return kindSentinels[k]
}

func (k ErrorKind) String() string {
	if err := k.Sentinel(); err != nil {
		return err.Error()
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseError describes why a header or entry line could not be parsed.
type ParseError struct {
	Kind ErrorKind

	// Line is the 1-based physical line number in the file.
	// The header is line 1 and entry index i is line i+2.
	Line int

	// Field names the offending header field or entry component (may be empty).
	Field string

	// Input is the raw line text (may be empty).
	Input string

	// Cause is the underlying error, e.g. a *strconv.NumError (may be nil).
	Cause error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is reports whether target is the sentinel for e.Kind.
func (e *ParseError) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && s == target
}

// Unwrap returns the underlying cause of the error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// KindOf returns the ErrorKind of the first *ParseError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// EntryLineNumber converts a 0-based entry index into a 1-based physical line number.
func EntryLineNumber(index uint) int {
	return int(index) + 2
}
