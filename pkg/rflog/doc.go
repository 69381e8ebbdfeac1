// Package rflog parses Riverfall launcher log files ("RFLog").
//
// An RFLog file starts with a header line describing the launcher and its
// environment, followed by one entry per line:
//
//	Riverfall Launcher Log Format:[1.4.2;PlayerOne;Windows;10.0.19045;live]
//	[OUT] [12:30:45] [MainThread] [Loader]: Initialized
//	[ERR] [WorkerThread] [Net] Connection failed
//	[ERR]    at Riverfall.Net.Client.Connect()
//
// # Parsing
//
// [ParseFile] parses a whole body held in memory. [ParseHeader] and
// [ParseEntry] parse single lines and can be used on their own:
//
//	f, err := rflog.ParseFile(body)
//	if err != nil {
//	    return err
//	}
//	for _, e := range f.Entries {
//	    fmt.Println(e.Kind, e.Thread, e.Payload)
//	}
//
// Parsing is fail-fast: the first malformed line aborts the file with a
// *[ParseError] carrying its [ErrorKind] and line number. Errors match the
// per-kind sentinels with errors.Is:
//
//	if errors.Is(err, rflog.ErrUnknownLogKind) { ... }
//
// The parse functions perform no I/O, hold no state and are safe for
// concurrent use.
//
// # Following a live file
//
// [Follower] tails a file that the launcher is still writing and emits
// the header and each entry as it is appended:
//
//	records, errs, err := rflog.FollowWithOptions(ctx, rflog.WithPath(path))
//
// Unlike [ParseFile], a malformed entry does not stop a follower; the
// error is sent on the error channel and following continues.
package rflog
