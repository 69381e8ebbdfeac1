package rflog

import (
	"errors"
	"log/slog"
)

// FollowOption configures a Follower using the functional options pattern.
type FollowOption func(*followConfig)

// followConfig holds internal configuration for the follower.
type followConfig struct {
	path   string
	logDir string
	poll   bool
	logger *slog.Logger
	kinds  map[Kind]struct{}
}

// defaultFollowConfig returns a followConfig with defaults.
func defaultFollowConfig() *followConfig {
	return &followConfig{}
}

// applyFollowOptions applies functional options to a followConfig.
func applyFollowOptions(opts []FollowOption) *followConfig {
	cfg := defaultFollowConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *followConfig) validate() error {
	if c.path != "" && c.logDir != "" {
		return errors.New("path and log directory are mutually exclusive")
	}
	if c.kinds != nil && len(c.kinds) == 0 {
		return errors.New("kind filter must include at least one kind")
	}
	return nil
}

// allows reports whether entries of kind k pass the kind filter.
func (c *followConfig) allows(k Kind) bool {
	if c.kinds == nil {
		return true
	}
	_, ok := c.kinds[k]
	return ok
}

// WithPath follows the given file.
// If neither WithPath nor WithLogDir is set, the newest log file in the
// auto-detected log directory is followed.
func WithPath(path string) FollowOption {
	return func(c *followConfig) {
		c.path = path
	}
}

// WithLogDir follows the newest log file in dir.
// Can also be set via the RFLOG_LOGDIR environment variable.
func WithLogDir(dir string) FollowOption {
	return func(c *followConfig) {
		c.logDir = dir
	}
}

// WithPoll uses stat polling instead of filesystem notifications.
// Default: false.
func WithPoll(poll bool) FollowOption {
	return func(c *followConfig) {
		c.poll = poll
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) FollowOption {
	return func(c *followConfig) {
		c.logger = logger
	}
}

// WithKinds only emits entries of the given kinds. The header is always emitted.
// If called multiple times, only the last call takes effect.
func WithKinds(kinds ...Kind) FollowOption {
	return func(c *followConfig) {
		c.kinds = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			c.kinds[k] = struct{}{}
		}
	}
}
