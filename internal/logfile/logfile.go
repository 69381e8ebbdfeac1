// Package logfile reads RFLog files from disk, transparently decompressing
// zstd archives.
package logfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	// DefaultMaxSize is the default limit for a log body (64MB), applied
	// after decompression.
	DefaultMaxSize = 64 * 1024 * 1024

	// MaxHeaderLineSize is the longest header line ReadHeaderLine accepts (64KB).
	MaxHeaderLineSize = 64 * 1024
)

var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrFileTooLarge is returned when the (decompressed) body exceeds the size limit.
	ErrFileTooLarge = errors.New("log file too large")
)

// zstdMagic is the frame magic number at the start of every zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Read returns the whole body of the log file at path.
// maxSize <= 0 uses DefaultMaxSize.
//
// Error messages never contain path.
func Read(path string, maxSize int64) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	f, info, err := openRegular(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r, closeFn, compressed, err := newReader(f)
	if err != nil {
		return "", err
	}
	defer closeFn()

	if !compressed && info.Size() > maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), maxSize)
	}

	// Read maxSize+1 to detect bodies that exceed the limit
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading log file: %w", sanitizePathError(err))
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, maxSize)
	}

	return string(data), nil
}

// ReadHeaderLine returns the first line of the log file at path without its
// terminator. found is false when the file has no lines at all.
func ReadHeaderLine(path string) (line string, found bool, err error) {
	f, _, err := openRegular(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	r, closeFn, _, err := newReader(f)
	if err != nil {
		return "", false, err
	}
	defer closeFn()

	br := bufio.NewReader(io.LimitReader(r, MaxHeaderLineSize+1))
	line, err = br.ReadString('\n')
	switch {
	case err == io.EOF:
		if line == "" {
			return "", false, nil
		}
		if len(line) > MaxHeaderLineSize {
			return "", false, fmt.Errorf("%w: header line longer than %d bytes", ErrFileTooLarge, MaxHeaderLineSize)
		}
	case err != nil:
		return "", false, fmt.Errorf("reading header line: %w", sanitizePathError(err))
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// IsCompressed reports whether the file at path starts with a zstd frame.
func IsCompressed(path string) (bool, error) {
	f, _, err := openRegular(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, closeFn, compressed, err := newReader(f)
	if err != nil {
		return false, err
	}
	closeFn()
	return compressed, nil
}

// newReader wraps f in a zstd decoder when it starts with the zstd magic number.
func newReader(f *os.File) (io.Reader, func(), bool, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, nil, false, fmt.Errorf("reading log file: %w", sanitizePathError(err))
	}
	if !bytes.Equal(magic, zstdMagic) {
		return br, func() {}, false, nil
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, nil, false, fmt.Errorf("opening zstd stream: %w", err)
	}
	return dec, dec.Close, true, nil
}

// openRegular opens path and verifies it is a regular file, both before and
// after opening, so a path swapped for a symlink or FIFO in between is rejected.
func openRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat log file: %w", sanitizePathError(err))
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", sanitizePathError(err))
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat log file: %w", sanitizePathError(err))
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// sanitizePathError removes the path from *os.PathError.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}
