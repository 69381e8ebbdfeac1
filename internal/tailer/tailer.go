// Package tailer follows a growing log file line by line.
package tailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// Config configures a Tailer.
type Config struct {
	// FromStart reads the file from the beginning instead of its current end.
	FromStart bool

	// Poll uses stat polling instead of filesystem notifications.
	// Needed on network shares and some container filesystems.
	Poll bool

	// MustExist fails immediately when the file does not exist.
	MustExist bool

	// Logger receives diagnostics from the underlying tail implementation.
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used for following RFLog files.
func DefaultConfig() Config {
	return Config{
		FromStart: true,
		MustExist: true,
	}
}

// Tailer delivers complete lines appended to a file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New starts following path. Lines are delivered without their terminator
// (including a Windows "\r"). The tailer stops when ctx is cancelled or
// Stop is called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	tcfg := tail.Config{
		Follow:    true,
		MustExist: cfg.MustExist,
		Poll:      cfg.Poll,
		Logger:    tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tcfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
	if cfg.Logger != nil {
		tcfg.Logger = slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelDebug)
	}

	t, err := tail.TailFile(path, tcfg)
	if err != nil {
		return nil, fmt.Errorf("tailing file: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)

	return tl, nil
}

// Lines returns the channel of complete lines. It is closed when the tailer stops.
func (tl *Tailer) Lines() <-chan string {
	return tl.lines
}

// Errors returns the channel of read errors. It is closed when the tailer stops.
func (tl *Tailer) Errors() <-chan error {
	return tl.errs
}

// Stop stops following and waits for the reader goroutine to exit.
// Safe to call multiple times.
func (tl *Tailer) Stop() error {
	var err error
	tl.once.Do(func() {
		tl.cancel()
		err = tl.t.Stop()
		tl.t.Cleanup()
	})
	<-tl.done
	return err
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case tl.errs <- line.Err:
				case <-ctx.Done():
					return
				default:
					// Drop if the consumer has not read the previous error yet
				}
				continue
			}
			select {
			case tl.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}
