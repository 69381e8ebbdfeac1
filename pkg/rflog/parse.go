package rflog

import (
	"github.com/riverfall/rflog-go/internal/parser"
	"github.com/riverfall/rflog-go/pkg/rflog/record"
)

// Record types, re-exported so callers only need this package.
type (
	Version    = record.Version
	Header     = record.Header
	Kind       = record.Kind
	TimeOfDay  = record.TimeOfDay
	Entry      = record.Entry
	File       = record.File
	ErrorKind  = record.ErrorKind
	ParseError = record.ParseError
)

// Banner identifies a file as an RFLog file.
const Banner = record.Banner

// Log kinds.
const (
	KindStandard = record.KindStandard
	KindError    = record.KindError
)

// Parse error kinds.
const (
	MissingHeaderLine = record.MissingHeaderLine
	MalformedHeader   = record.MalformedHeader
	BannerMismatch    = record.BannerMismatch
	FieldOutOfRange   = record.FieldOutOfRange
	EmptyLine         = record.EmptyLine
	UnknownLogKind    = record.UnknownLogKind
	InvalidTimestamp  = record.InvalidTimestamp
)

// Sentinel parse errors, matched by a *ParseError of the same kind with errors.Is.
var (
	ErrMissingHeaderLine = record.ErrMissingHeaderLine
	ErrMalformedHeader   = record.ErrMalformedHeader
	ErrBannerMismatch    = record.ErrBannerMismatch
	ErrFieldOutOfRange   = record.ErrFieldOutOfRange
	ErrEmptyLine         = record.ErrEmptyLine
	ErrUnknownLogKind    = record.ErrUnknownLogKind
	ErrInvalidTimestamp  = record.ErrInvalidTimestamp
)

// ParseFile parses a whole RFLog body held in memory.
//
// The first line must be the header. Every following line is parsed as an
// entry, numbered from 0. The first failing line aborts parsing and its
// *ParseError is returned; no partial file is returned.
//
// Example:
//
//	f, err := rflog.ParseFile(body)
//	if err != nil {
//	    var pe *rflog.ParseError
//	    if errors.As(err, &pe) {
//	        log.Printf("line %d: %v", pe.Line, pe.Kind)
//	    }
//	    return err
//	}
//	fmt.Println(f.Header.LauncherVersion)
func ParseFile(body string) (*File, error) {
	return parser.ParseFile(body)
}

// ParseHeader parses an RFLog header line.
func ParseHeader(line string) (Header, error) {
	return parser.ParseHeader(line)
}

// ParseEntry parses a single entry line. index is the 0-based position of
// the line after the header.
//
// Lines that carry a valid marker always parse: text that matches neither
// bracketed grammar becomes a continuation entry.
func ParseEntry(index uint, line string) (Entry, error) {
	return parser.ParseEntry(index, line)
}

// ParseKind converts "out"/"err" or "[OUT]"/"[ERR]" into a Kind.
func ParseKind(s string) (Kind, error) {
	return record.ParseKind(s)
}

// KindOfError returns the ErrorKind of the first *ParseError in err's chain.
func KindOfError(err error) (ErrorKind, bool) {
	return record.KindOf(err)
}
