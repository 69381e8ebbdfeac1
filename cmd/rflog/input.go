package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/riverfall/rflog-go/internal/config"
	"github.com/riverfall/rflog-go/internal/logfile"
	"github.com/riverfall/rflog-go/internal/logfinder"
	"github.com/riverfall/rflog-go/pkg/rflog"
)

// stdinPath is the file argument that reads from standard input.
const stdinPath = "-"

// outputSettings are the resolved output flags.
type outputSettings struct {
	format string
	kinds  map[rflog.Kind]bool // nil allows all kinds
}

func (s outputSettings) allows(k rflog.Kind) bool {
	return s.kinds == nil || s.kinds[k]
}

// resolveOutput merges output flags with the configuration file.
// Flags win when set.
func (a *app) resolveOutput(format string, kinds []string) (outputSettings, error) {
	if format == "" {
		format = a.cfg.Format
	}
	if !config.ValidFormats[format] {
		return outputSettings{}, fmt.Errorf("invalid format %q (must be jsonl, pretty, or msgpack)", format)
	}

	allowed := a.cfg.KindFilter()
	if len(kinds) > 0 {
		allowed = make([]rflog.Kind, 0, len(kinds))
		for _, name := range kinds {
			k, err := rflog.ParseKind(name)
			if err != nil {
				return outputSettings{}, fmt.Errorf("invalid --kinds value: %w", err)
			}
			allowed = append(allowed, k)
		}
	}

	s := outputSettings{format: format}
	if allowed != nil {
		s.kinds = make(map[rflog.Kind]bool, len(allowed))
		for _, k := range allowed {
			s.kinds[k] = true
		}
	}
	return s, nil
}

// resolvePaths returns args, or the newest log file in the log directory
// when no file was given.
func (a *app) resolvePaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	dir, err := logfinder.FindLogDir(a.cfg.LogDir)
	if err != nil {
		return nil, err
	}
	path, err := logfinder.FindLatestLogFile(dir)
	if err != nil {
		return nil, err
	}
	a.log.Debug("using latest log file", "path", path)
	return []string{path}, nil
}

// readBody reads a whole log body from path, or from stdin for "-".
func readBody(stdin io.Reader, path string, maxSize int64) (string, error) {
	if path != stdinPath {
		return logfile.Read(path, maxSize)
	}

	if maxSize <= 0 {
		maxSize = logfile.DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(stdin, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: more than %d bytes", logfile.ErrFileTooLarge, maxSize)
	}
	return string(data), nil
}

// readHeaderLine reads the first line from path, or from stdin for "-".
func readHeaderLine(stdin io.Reader, path string) (string, bool, error) {
	if path != stdinPath {
		return logfile.ReadHeaderLine(path)
	}

	br := bufio.NewReader(io.LimitReader(stdin, logfile.MaxHeaderLineSize+1))
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, fmt.Errorf("reading stdin: %w", err)
	}
	if err == io.EOF && line == "" {
		return "", false, nil
	}
	if len(line) > logfile.MaxHeaderLineSize {
		return "", false, fmt.Errorf("%w: header line longer than %d bytes", logfile.ErrFileTooLarge, logfile.MaxHeaderLineSize)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), true, nil
}

// sourceName is the name recorded in output records for path.
func sourceName(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return filepath.Base(path)
}
