package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/riverfall/rflog-go/internal/config"
	"github.com/riverfall/rflog-go/internal/logfile"
	"github.com/riverfall/rflog-go/internal/logfinder"
	"github.com/riverfall/rflog-go/pkg/rflog"
)

const sampleLog = "Riverfall Launcher Log Format:[1.4.2;PlayerOne;Windows;10.0.19045;live]\n" +
	"[OUT] [12:30:45] [MainThread] [Loader]: Initialized\n" +
	"[ERR] [WorkerThread] [Net] Connection failed\n" +
	"[ERR]    at Net.Connect()\n"

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvFormat, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeTemp(t, "launcher.rflog", []byte(sampleLog))

	out, err := runCLI(t, "", "parse", path)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], `"type":"header"`) {
		t.Errorf("first line is not a header: %s", lines[0])
	}
	if !strings.Contains(lines[3], `"payload":["at Net.Connect()"]`) {
		t.Errorf("continuation line = %s", lines[3])
	}
}

func TestParseCommand_KindsAndPretty(t *testing.T) {
	path := writeTemp(t, "launcher.rflog", []byte(sampleLog))

	out, err := runCLI(t, "", "parse", "--kinds", "err", "--format", "pretty", path)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if strings.Contains(out, "Initialized") {
		t.Errorf("out entry should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "[--:--:--] ERR WorkerThread/Net: Connection failed") {
		t.Errorf("missing err entry:\n%s", out)
	}
}

func TestParseCommand_Zstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	path := writeTemp(t, "launcher.rflog.zst", enc.EncodeAll([]byte(sampleLog), nil))
	enc.Close()

	out, err := runCLI(t, "", "--verbose", "parse", path)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, `"source":"launcher.rflog.zst"`) {
		t.Errorf("output = %s", out)
	}
}

func TestParseCommand_Stdin(t *testing.T) {
	out, err := runCLI(t, sampleLog, "parse", "-")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, `"source":"stdin"`) {
		t.Errorf("output = %s", out)
	}
}

func TestParseCommand_Errors(t *testing.T) {
	good := writeTemp(t, "good.rflog", []byte(sampleLog))
	bad := writeTemp(t, "bad.rflog", []byte(sampleLog+"\n[OUT] after blank\n"))

	_, err := runCLI(t, "", "parse", good, bad)
	if !errors.Is(err, rflog.ErrEmptyLine) {
		t.Fatalf("parse error = %v, want %v", err, rflog.ErrEmptyLine)
	}
	if !strings.Contains(err.Error(), "file 2: line 5") {
		t.Errorf("error = %q, want file and line number", err)
	}
	if strings.Contains(err.Error(), "bad.rflog") {
		t.Errorf("error message should not contain path: %s", err)
	}

	_, err = runCLI(t, "", "parse", "--format", "xml", good)
	if err == nil {
		t.Error("expected error for invalid format")
	}

	_, err = runCLI(t, "", "parse", "--kinds", "warn", good)
	if err == nil {
		t.Error("expected error for invalid kind")
	}

	_, err = runCLI(t, "", "parse", "-")
	if !errors.Is(err, rflog.ErrMissingHeaderLine) {
		t.Errorf("parse of empty stdin error = %v, want %v", err, rflog.ErrMissingHeaderLine)
	}
}

func TestParseCommand_LatestInLogDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "current.rflog"), []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(logfinder.EnvLogDir, dir)

	out, err := runCLI(t, "", "parse")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, `"source":"current.rflog"`) {
		t.Errorf("output = %s", out)
	}
}

func TestParseCommand_ConfigFile(t *testing.T) {
	path := writeTemp(t, "launcher.rflog", []byte(sampleLog))
	cfgPath := writeTemp(t, "rflog.yaml", []byte("format: pretty\nkinds: [out]\n"))

	out, err := runCLI(t, "", "--config", cfgPath, "parse", path)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, "[12:30:45] OUT MainThread/Loader: Initialized") {
		t.Errorf("output = %s", out)
	}
	if strings.Contains(out, "ERR") {
		t.Errorf("err entries should be filtered by config:\n%s", out)
	}
}

func TestHeaderCommand(t *testing.T) {
	path := writeTemp(t, "launcher.rflog", []byte(sampleLog+"garbage after header is not read\n"))

	out, err := runCLI(t, "", "header", "--format", "pretty", path)
	if err != nil {
		t.Fatalf("header error = %v", err)
	}
	if !strings.Contains(out, "== PlayerOne | launcher 1.4.2") {
		t.Errorf("output = %s", out)
	}

	empty := writeTemp(t, "empty.rflog", nil)
	_, err = runCLI(t, "", "header", empty)
	if !errors.Is(err, rflog.ErrMissingHeaderLine) {
		t.Errorf("header error = %v, want %v", err, rflog.ErrMissingHeaderLine)
	}

	wrong := writeTemp(t, "wrong.rflog", []byte("Other Launcher:[1.0.0;a;b;c;d]\n"))
	_, err = runCLI(t, "", "header", wrong)
	if !errors.Is(err, rflog.ErrBannerMismatch) {
		t.Errorf("header error = %v, want %v", err, rflog.ErrBannerMismatch)
	}
}

func TestHeaderCommand_Stdin(t *testing.T) {
	out, err := runCLI(t, sampleLog, "header", "-")
	if err != nil {
		t.Fatalf("header error = %v", err)
	}
	if !strings.Contains(out, `"source":"stdin"`) {
		t.Errorf("output = %s", out)
	}

	long := strings.Repeat("x", logfile.MaxHeaderLineSize+10) + "\n"
	_, err = runCLI(t, long, "header", "-")
	if !errors.Is(err, logfile.ErrFileTooLarge) {
		t.Errorf("header error = %v, want %v", err, logfile.ErrFileTooLarge)
	}
}

func TestTailCommand_BadHeader(t *testing.T) {
	path := writeTemp(t, "launcher.rflog", []byte("not a header\n"))

	_, err := runCLI(t, "", "tail", "--poll", path)
	if !errors.Is(err, rflog.ErrMalformedHeader) {
		t.Errorf("tail error = %v, want %v", err, rflog.ErrMalformedHeader)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, "rflog") {
		t.Error("completion script does not mention rflog")
	}

	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
