package rflog

import (
	"errors"
	"fmt"

	"github.com/riverfall/rflog-go/internal/logfinder"
)

// Sentinel errors for the follower.
var (
	// ErrFollowerClosed is returned when Follow is called on a closed Follower.
	ErrFollowerClosed = errors.New("follower closed")

	// ErrAlreadyFollowing is returned when Follow is called twice on the same Follower.
	ErrAlreadyFollowing = errors.New("already following")

	// ErrLogDirNotFound is returned when no log directory could be found.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound

	// ErrNoLogFiles is returned when the log directory holds no log files.
	ErrNoLogFiles = logfinder.ErrNoLogFiles
)

// FollowOp names the follower step that failed.
type FollowOp string

const (
	FollowOpFind FollowOp = "find"
	FollowOpTail FollowOp = "tail"
	FollowOpRead FollowOp = "read"
)

// FollowError is an I/O failure while following a log file.
// Parse failures are reported as *ParseError instead.
type FollowError struct {
	Op  FollowOp
	Err error
}

func (e *FollowError) Error() string {
	return fmt.Sprintf("follow %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *FollowError) Unwrap() error {
	return e.Err
}
