package rflog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/riverfall/rflog-go/internal/logfinder"
	"github.com/riverfall/rflog-go/internal/parser"
	"github.com/riverfall/rflog-go/internal/tailer"
)

// followerErrBuffer is the buffer size for the error channel.
const followerErrBuffer = 16

// Record is one item produced by a Follower: exactly one of Header and
// Entry is set.
type Record struct {
	Header *Header
	Entry  *Entry
}

// Follower follows a log file while the launcher writes it.
type Follower struct {
	cfg  followConfig // immutable after creation
	path string
	log  *slog.Logger

	mu        sync.Mutex
	closed    bool
	cancel    context.CancelFunc
	doneCh    chan struct{}
	following bool
}

// discardLogger is a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewFollower creates a Follower and resolves the file to follow.
func NewFollower(opts ...FollowOption) (*Follower, error) {
	cfg := applyFollowOptions(opts)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	path := cfg.path
	if path == "" {
		dir, err := logfinder.FindLogDir(cfg.logDir)
		if err != nil {
			return nil, &FollowError{Op: FollowOpFind, Err: err}
		}
		path, err = logfinder.FindLatestLogFile(dir)
		if err != nil {
			return nil, &FollowError{Op: FollowOpFind, Err: err}
		}
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Follower{
		cfg:  *cfg,
		path: path,
		log:  log,
	}, nil
}

// FollowWithOptions creates a Follower and starts following.
// The follower stops when ctx is cancelled.
func FollowWithOptions(ctx context.Context, opts ...FollowOption) (<-chan Record, <-chan error, error) {
	f, err := NewFollower(opts...)
	if err != nil {
		return nil, nil, err
	}

	records, errs, err := f.Follow(ctx)
	if err != nil {
		return nil, nil, err
	}

	go func() {
		<-ctx.Done()
		_ = f.Close()
	}()

	return records, errs, nil
}

// Path returns the file being followed.
func (f *Follower) Path() string {
	return f.path
}

// Follow starts following from the beginning of the file and returns the
// record and error channels. Both channels close when ctx is cancelled,
// Close is called, or the header line fails to parse.
//
// Entry parse failures are sent as *ParseError on the error channel and
// following continues with the next line.
//
// Returns ErrFollowerClosed if the follower has been closed.
// Returns ErrAlreadyFollowing if Follow has already been called.
func (f *Follower) Follow(ctx context.Context) (<-chan Record, <-chan error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, nil, ErrFollowerClosed
	}
	if f.following {
		return nil, nil, ErrAlreadyFollowing
	}

	cfg := tailer.DefaultConfig()
	cfg.Poll = f.cfg.poll
	cfg.Logger = f.cfg.logger

	ctx, cancel := context.WithCancel(ctx)
	t, err := tailer.New(ctx, f.path, cfg)
	if err != nil {
		cancel()
		return nil, nil, &FollowError{Op: FollowOpTail, Err: err}
	}
	f.log.Debug("started following", "path", f.path, "poll", cfg.Poll)

	f.following = true
	f.cancel = cancel
	f.doneCh = make(chan struct{})

	recordCh := make(chan Record)
	errCh := make(chan error, followerErrBuffer)

	go f.run(ctx, t, recordCh, errCh)

	return recordCh, errCh, nil
}

// Close stops the follower and releases resources.
// Safe to call multiple times. Blocks until the goroutine has exited.
func (f *Follower) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
	doneCh := f.doneCh
	f.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (f *Follower) run(ctx context.Context, t *tailer.Tailer, recordCh chan<- Record, errCh chan<- error) {
	defer close(f.doneCh)
	defer close(recordCh)
	defer close(errCh)
	defer func() { _ = t.Stop() }()

	headerSeen := false
	var index uint

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			f.sendError(ctx, errCh, &FollowError{Op: FollowOpRead, Err: err})
		case line, ok := <-t.Lines():
			if !ok {
				return
			}

			if !headerSeen {
				h, err := parser.ParseHeader(line)
				if err != nil {
					f.log.Debug("header parse failed", "error", err)
					f.sendError(ctx, errCh, err)
					return
				}
				headerSeen = true
				f.log.Debug("parsed header", "launcher_version", h.LauncherVersion.String(), "game_client", h.GameClient)
				if !send(ctx, recordCh, Record{Header: &h}) {
					return
				}
				continue
			}

			e, err := parser.ParseEntry(index, line)
			index++
			if err != nil {
				f.log.Debug("entry parse failed", "error", err)
				f.sendError(ctx, errCh, err)
				continue
			}
			if !f.cfg.allows(e.Kind) {
				continue
			}
			if !send(ctx, recordCh, Record{Entry: &e}) {
				return
			}
		}
	}
}

func send(ctx context.Context, ch chan<- Record, r Record) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// sendError sends err without blocking during shutdown.
// When the buffer is full the error is dropped and logged.
func (f *Follower) sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
		f.log.Warn("error channel full, dropping error", "error", err)
	}
}
