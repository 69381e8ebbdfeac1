package parser

import "regexp"

// Compiled regex patterns for header and entry lines.
var (
	// Matches: "Riverfall Launcher Log Format:[1.4.2;Nick;Windows;10.0.19045;live]"
	// Captures: (1) banner, (2-4) version, (5) nickname, (6) os, (7) os version, (8) game client
	// Unanchored: the first match anywhere in the line is used.
	// Digits are any Unicode decimal digit; non-ASCII ones fail range checks.
	headerPattern = regexp.MustCompile(
		`([^:]+):\[(\p{Nd}+)\.(\p{Nd}+)\.(\p{Nd}+);([^;]+);([^;]+);([^;]+);([^\]]+)\]`,
	)

	// Matches: "[12:30:45] [MainThread] [Loader]: Initialized"
	// Captures: (1) time, (2) thread, (3) executor, (4) payload (may be empty)
	timestampedPattern = regexp.MustCompile(
		`^\[(\p{Nd}{2}:\p{Nd}{2}:\p{Nd}{2})\] \[([^\]]+)\] \[([^\]]+)\]:?\s?(.*)$`,
	)

	// Matches: "[WorkerThread] [Net] Connection failed"
	// Captures: (1) thread, (2) executor, (3) payload (non-empty)
	untimestampedPattern = regexp.MustCompile(
		`^\[([^\]]+)\] \[([^\]]+)\] (.+)$`,
	)
)

// headerVersionFields names the numeric header captures for error reporting.
var headerVersionFields = [3]string{
	"version (major)",
	"version (minor)",
	"version (patch)",
}
