package parser

import (
	"strings"

	"github.com/riverfall/rflog-go/pkg/rflog/record"
)

// ParseEntry parses one entry line. index is the 0-based position of the
// line in the body, not counting the header.
//
// Lines that match neither bracketed grammar become continuation entries,
// so once the kind marker is recognized the only remaining failure is an
// out-of-range timestamp.
func ParseEntry(index uint, line string) (record.Entry, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return record.Entry{}, newEntryError(record.EmptyLine, index, "", line, nil)
	}

	kind, rest, ok := cutMarker(trimmed)
	if !ok {
		return record.Entry{}, newEntryError(record.UnknownLogKind, index, "", line, nil)
	}

	entry := record.Entry{Line: index, Kind: kind}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		// Bare marker
		return entry, nil
	}

	if match := timestampedPattern.FindStringSubmatch(rest); match != nil {
		tod, err := record.ParseTimeOfDay(match[1])
		if err != nil {
			return record.Entry{}, newEntryError(record.InvalidTimestamp, index, "time", line, err)
		}
		entry.Time = &tod
		entry.Thread = match[2]
		entry.Executor = match[3]
		if payload := strings.TrimSpace(match[4]); payload != "" {
			entry.Payload = []string{payload}
		}
		return entry, nil
	}

	if match := untimestampedPattern.FindStringSubmatch(rest); match != nil {
		entry.Thread = match[1]
		entry.Executor = match[2]
		entry.Payload = []string{match[3]}
		return entry, nil
	}

	// Continuation line
	entry.Payload = []string{rest}
	return entry, nil
}

// cutMarker strips a leading stream marker from s.
func cutMarker(s string) (record.Kind, string, bool) {
	if rest, ok := strings.CutPrefix(s, record.MarkerStandard); ok {
		return record.KindStandard, rest, true
	}
	if rest, ok := strings.CutPrefix(s, record.MarkerError); ok {
		return record.KindError, rest, true
	}
	return 0, "", false
}

func newEntryError(kind record.ErrorKind, index uint, field, input string, cause error) *record.ParseError {
	return &record.ParseError{
		Kind:  kind,
		Line:  record.EntryLineNumber(index),
		Field: field,
		Input: input,
		Cause: cause,
	}
}
