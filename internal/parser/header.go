package parser

import (
	"strconv"

	"github.com/riverfall/rflog-go/pkg/rflog/record"
)

// headerLine is the physical line number of the header.
const headerLine = 1

// ParseHeader parses the first line of an RFLog file.
//
// Returns a *record.ParseError of kind MalformedHeader, BannerMismatch
// or FieldOutOfRange on failure.
func ParseHeader(line string) (record.Header, error) {
	match := headerPattern.FindStringSubmatch(line)
	if match == nil {
		return record.Header{}, &record.ParseError{
			Kind:  record.MalformedHeader,
			Line:  headerLine,
			Input: line,
		}
	}

	if match[1] != record.Banner {
		return record.Header{}, &record.ParseError{
			Kind:  record.BannerMismatch,
			Line:  headerLine,
			Field: strconv.Quote(match[1]),
			Input: line,
		}
	}

	var parts [3]uint16
	for i := range parts {
		n, err := strconv.ParseUint(match[2+i], 10, 16)
		if err != nil {
			return record.Header{}, &record.ParseError{
				Kind:  record.FieldOutOfRange,
				Line:  headerLine,
				Field: headerVersionFields[i],
				Input: line,
				Cause: err,
			}
		}
		parts[i] = uint16(n)
	}

	return record.Header{
		LauncherVersion: record.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]},
		Nickname:        match[5],
		OS:              match[6],
		OSVersion:       match[7],
		GameClient:      match[8],
	}, nil
}
