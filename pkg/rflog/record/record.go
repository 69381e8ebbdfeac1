// Package record defines the structured records produced by parsing an RFLog file.
package record

import (
	"fmt"
	"strconv"
)

// Banner identifies a file as an RFLog file. It must appear verbatim at the
// start of the header line and must not change without a format version bump.
const Banner = "Riverfall Launcher Log Format"

// Version is a launcher version (major.minor.patch).
type Version struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
	Patch uint16 `json:"patch"`
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Header is the first line of an RFLog file.
// All text fields are non-empty when produced by a successful parse.
type Header struct {
	LauncherVersion Version `json:"launcher_version"`
	Nickname        string  `json:"nickname"`
	GameClient      string  `json:"game_client"`
	OS              string  `json:"os"`
	OSVersion       string  `json:"os_version"`
}

// Kind is the output stream an entry was written to.
type Kind int

const (
	// KindStandard marks entries written to standard output ("[OUT]").
	KindStandard Kind = iota
	// KindError marks entries written to standard error ("[ERR]").
	KindError
)

// Stream markers as they appear at the start of an entry line.
const (
	MarkerStandard = "[OUT]"
	MarkerError    = "[ERR]"
)

// String returns "out" or "err".
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "out"
	case KindError:
		return "err"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Marker returns the line prefix for the kind.
func (k Kind) Marker() string {
	if k == KindError {
		return MarkerError
	}
	return MarkerStandard
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindStandard, KindError:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("invalid log kind %d", int(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind converts "out"/"err" (or the bracketed markers) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "out", MarkerStandard:
		return KindStandard, nil
	case "err", MarkerError:
		return KindError, nil
	default:
		return 0, fmt.Errorf("unknown log kind %q", s)
	}
}

// TimeOfDay is a wall-clock time without date or sub-second precision.
type TimeOfDay struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

// ParseTimeOfDay parses "HH:MM:SS" and validates civil-time ranges.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 8 || s[2] != ':' || s[5] != ':' {
		return TimeOfDay{}, fmt.Errorf("expected HH:MM:SS with ASCII digits, got %q", s)
	}

	parts := [3]uint8{}
	limits := [3]uint64{23, 59, 59}
	for i := range parts {
		n, err := strconv.ParseUint(s[i*3:i*3+2], 10, 8)
		if err != nil {
			return TimeOfDay{}, err
		}
		if n > limits[i] {
			return TimeOfDay{}, fmt.Errorf("component %d out of range (max %d)", n, limits[i])
		}
		parts[i] = uint8(n)
	}

	return TimeOfDay{Hour: parts[0], Minute: parts[1], Second: parts[2]}, nil
}

// String returns the time as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Entry is one parsed log line.
type Entry struct {
	// Line is the 0-based index of the line in the body, not counting the header.
	Line uint `json:"line"`

	Kind Kind `json:"kind"`

	// Time is nil when the line carries no timestamp.
	Time *TimeOfDay `json:"time,omitempty"`

	// Thread and Executor are empty for bare-marker and continuation lines.
	Thread   string `json:"thread"`
	Executor string `json:"executor"`

	// Payload holds zero or one lines. It is nil when the line has no payload.
	Payload []string `json:"payload"`
}

// IsContinuation reports whether the entry is raw text that matched neither
// bracketed grammar.
func (e Entry) IsContinuation() bool {
	return e.Time == nil && e.Thread == "" && e.Executor == "" && len(e.Payload) > 0
}

// File is a whole parsed RFLog file.
type File struct {
	Header  Header  `json:"header"`
	Entries []Entry `json:"entries"`
}
