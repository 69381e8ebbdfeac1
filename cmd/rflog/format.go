package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/riverfall/rflog-go/internal/config"
	"github.com/riverfall/rflog-go/pkg/rflog"
)

// headerRecord is the serialized form of a header.
type headerRecord struct {
	Type            string `json:"type" msgpack:"type"`
	Source          string `json:"source,omitempty" msgpack:"source,omitempty"`
	LauncherVersion string `json:"launcher_version" msgpack:"launcher_version"`
	Nickname        string `json:"nickname" msgpack:"nickname"`
	GameClient      string `json:"game_client" msgpack:"game_client"`
	OS              string `json:"os" msgpack:"os"`
	OSVersion       string `json:"os_version" msgpack:"os_version"`
}

// entryRecord is the serialized form of an entry.
type entryRecord struct {
	Type     string   `json:"type" msgpack:"type"`
	Source   string   `json:"source,omitempty" msgpack:"source,omitempty"`
	Line     uint     `json:"line" msgpack:"line"`
	Kind     string   `json:"kind" msgpack:"kind"`
	Time     string   `json:"time,omitempty" msgpack:"time,omitempty"`
	Thread   string   `json:"thread" msgpack:"thread"`
	Executor string   `json:"executor" msgpack:"executor"`
	Payload  []string `json:"payload" msgpack:"payload"`
}

func newHeaderRecord(source string, h rflog.Header) headerRecord {
	return headerRecord{
		Type:            "header",
		Source:          source,
		LauncherVersion: h.LauncherVersion.String(),
		Nickname:        h.Nickname,
		GameClient:      h.GameClient,
		OS:              h.OS,
		OSVersion:       h.OSVersion,
	}
}

func newEntryRecord(source string, e rflog.Entry) entryRecord {
	r := entryRecord{
		Type:     "entry",
		Source:   source,
		Line:     e.Line,
		Kind:     e.Kind.String(),
		Thread:   e.Thread,
		Executor: e.Executor,
		Payload:  e.Payload,
	}
	if e.Time != nil {
		r.Time = e.Time.String()
	}
	if r.Payload == nil {
		r.Payload = []string{}
	}
	return r
}

// Output writes records in one of the configured formats.
type Output struct {
	format string
	out    io.Writer
	mp     *msgpack.Encoder
}

// NewOutput returns an Output for format, which must be one of config.ValidFormats.
func NewOutput(format string, out io.Writer) (*Output, error) {
	if !config.ValidFormats[format] {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	o := &Output{format: format, out: out}
	if format == config.FormatMsgpack {
		o.mp = msgpack.NewEncoder(out)
	}
	return o, nil
}

// Header writes a header record.
func (o *Output) Header(source string, h rflog.Header) error {
	r := newHeaderRecord(source, h)
	switch o.format {
	case config.FormatJSONL:
		return writeJSON(o.out, r)
	case config.FormatMsgpack:
		return o.mp.Encode(r)
	default:
		return writePrettyHeader(o.out, r)
	}
}

// Entry writes an entry record.
func (o *Output) Entry(source string, e rflog.Entry) error {
	r := newEntryRecord(source, e)
	switch o.format {
	case config.FormatJSONL:
		return writeJSON(o.out, r)
	case config.FormatMsgpack:
		return o.mp.Encode(r)
	default:
		return writePrettyEntry(o.out, r)
	}
}

// writeJSON writes v as one JSON Lines record.
func writeJSON(out io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func writePrettyHeader(out io.Writer, r headerRecord) error {
	prefix := ""
	if r.Source != "" {
		prefix = r.Source + ": "
	}
	_, err := fmt.Fprintf(out, "%s== %s | launcher %s | client %s | %s %s\n",
		prefix, escapeControl(r.Nickname), r.LauncherVersion, escapeControl(r.GameClient),
		escapeControl(r.OS), escapeControl(r.OSVersion))
	return err
}

func writePrettyEntry(out io.Writer, r entryRecord) error {
	ts := r.Time
	if ts == "" {
		ts = "--:--:--"
	}
	payload := escapeControl(strings.Join(r.Payload, " "))

	var err error
	if r.Thread == "" && r.Executor == "" {
		_, err = fmt.Fprintf(out, "[%s] %s %s\n", ts, strings.ToUpper(r.Kind), payload)
	} else {
		_, err = fmt.Fprintf(out, "[%s] %s %s/%s: %s\n", ts, strings.ToUpper(r.Kind),
			escapeControl(r.Thread), escapeControl(r.Executor), payload)
	}
	return err
}

// escapeControl escapes control characters so a payload cannot move the
// terminal cursor or inject escape sequences.
func escapeControl(v string) string {
	needsEscape := false
	for _, c := range v {
		if c < 0x20 || c == 0x7F {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return v
	}

	var sb strings.Builder
	for _, c := range v {
		switch {
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c < 0x20 || c == 0x7F:
			sb.WriteString(fmt.Sprintf(`\x%02x`, c))
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
