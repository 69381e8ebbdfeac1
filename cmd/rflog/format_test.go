package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/riverfall/rflog-go/pkg/rflog"
)

var testHeader = rflog.Header{
	LauncherVersion: rflog.Version{Major: 1, Minor: 4, Patch: 2},
	Nickname:        "PlayerOne",
	GameClient:      "live",
	OS:              "Windows",
	OSVersion:       "10.0.19045",
}

func testEntry() rflog.Entry {
	tod := rflog.TimeOfDay{Hour: 12, Minute: 30, Second: 45}
	return rflog.Entry{
		Line:     3,
		Kind:     rflog.KindError,
		Time:     &tod,
		Thread:   "Main",
		Executor: "Loader",
		Payload:  []string{"failed"},
	}
}

func TestValidFormats(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"jsonl", true},
		{"pretty", true},
		{"msgpack", true},
		{"json", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := NewOutput(tt.format, &bytes.Buffer{})
			if (err == nil) != tt.valid {
				t.Errorf("NewOutput(%q) error = %v, valid %v", tt.format, err, tt.valid)
			}
		})
	}
}

func TestOutput_JSONL(t *testing.T) {
	var buf bytes.Buffer
	out, err := NewOutput("jsonl", &buf)
	if err != nil {
		t.Fatal(err)
	}

	if err := out.Header("a.rflog", testHeader); err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if err := out.Entry("a.rflog", testEntry()); err != nil {
		t.Fatalf("Entry() error = %v", err)
	}
	if err := out.Entry("a.rflog", rflog.Entry{Kind: rflog.KindStandard}); err != nil {
		t.Fatalf("Entry() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}

	var h headerRecord
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if h.Type != "header" || h.LauncherVersion != "1.4.2" || h.Source != "a.rflog" {
		t.Errorf("header record = %+v", h)
	}

	var e entryRecord
	if err := json.Unmarshal([]byte(lines[1]), &e); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if e.Type != "entry" || e.Kind != "err" || e.Time != "12:30:45" || e.Line != 3 {
		t.Errorf("entry record = %+v", e)
	}

	// Bare marker: no time key, empty payload array
	if strings.Contains(lines[2], `"time"`) {
		t.Errorf("bare entry should omit time: %s", lines[2])
	}
	if !strings.Contains(lines[2], `"payload":[]`) {
		t.Errorf("bare entry should have empty payload: %s", lines[2])
	}
}

func TestOutput_Msgpack(t *testing.T) {
	var buf bytes.Buffer
	out, err := NewOutput("msgpack", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := out.Header("", testHeader); err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if err := out.Entry("", testEntry()); err != nil {
		t.Fatalf("Entry() error = %v", err)
	}

	dec := msgpack.NewDecoder(&buf)

	var h headerRecord
	if err := dec.Decode(&h); err != nil {
		t.Fatalf("Decode(header) error = %v", err)
	}
	if h.Nickname != "PlayerOne" || h.OSVersion != "10.0.19045" {
		t.Errorf("header record = %+v", h)
	}

	var e entryRecord
	if err := dec.Decode(&e); err != nil {
		t.Fatalf("Decode(entry) error = %v", err)
	}
	if e.Executor != "Loader" || len(e.Payload) != 1 || e.Payload[0] != "failed" {
		t.Errorf("entry record = %+v", e)
	}
}

func TestOutput_Pretty(t *testing.T) {
	tests := []struct {
		name     string
		entry    rflog.Entry
		contains string
	}{
		{
			name:     "timestamped",
			entry:    testEntry(),
			contains: "[12:30:45] ERR Main/Loader: failed",
		},
		{
			name:     "continuation",
			entry:    rflog.Entry{Kind: rflog.KindStandard, Payload: []string{"at Net.Connect()"}},
			contains: "[--:--:--] OUT at Net.Connect()",
		},
		{
			name:     "control characters escaped",
			entry:    rflog.Entry{Kind: rflog.KindStandard, Payload: []string{"evil\x1b[2Jtext\ttab"}},
			contains: `evil\x1b[2Jtext\ttab`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			out, err := NewOutput("pretty", &buf)
			if err != nil {
				t.Fatal(err)
			}
			if err := out.Entry("", tt.entry); err != nil {
				t.Fatalf("Entry() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output = %q, want to contain %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestOutput_PrettyHeader(t *testing.T) {
	var buf bytes.Buffer
	out, err := NewOutput("pretty", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := out.Header("a.rflog", testHeader); err != nil {
		t.Fatalf("Header() error = %v", err)
	}

	want := "a.rflog: == PlayerOne | launcher 1.4.2 | client live | Windows 10.0.19045\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestEscapeControl(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"", ""},
		{"a\nb", `a\nb`},
		{"a\rb", `a\rb`},
		{"\x00\x7f", `\x00\x7f`},
		{"日本語", "日本語"},
	}

	for _, tt := range tests {
		if got := escapeControl(tt.input); got != tt.want {
			t.Errorf("escapeControl(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
