// Package parser implements the RFLog header, entry and file grammars.
package parser

import (
	"strings"

	"github.com/riverfall/rflog-go/pkg/rflog/record"
)

// ParseFile parses a whole RFLog body.
//
// The first line is the header and every following line is an entry,
// numbered from 0. Parsing stops at the first failing line and returns
// its error; no partial file is returned.
func ParseFile(body string) (*record.File, error) {
	lines := SplitLines(body)
	if len(lines) == 0 {
		return nil, &record.ParseError{Kind: record.MissingHeaderLine, Line: headerLine}
	}

	header, err := ParseHeader(lines[0])
	if err != nil {
		return nil, err
	}

	entries := make([]record.Entry, 0, len(lines)-1)
	for i, line := range lines[1:] {
		entry, err := ParseEntry(uint(i), line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return &record.File{Header: header, Entries: entries}, nil
}

// SplitLines splits body on "\n", dropping a trailing "\r" from each line.
// A final line terminator does not produce an extra empty line, and an
// empty body has no lines.
func SplitLines(body string) []string {
	if body == "" {
		return nil
	}

	lines := strings.Split(body, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		// Trim trailing CR for Windows CRLF compatibility
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
