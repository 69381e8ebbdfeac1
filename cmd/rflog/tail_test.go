package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/riverfall/rflog-go/pkg/rflog"
)

func TestSkipReporter_RateLimit(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s := newSkipReporter(log, rate.NewLimiter(rate.Every(time.Hour), 2))

	for i := 0; i < 5; i++ {
		s.report(errors.New("bad line"))
	}

	if got := strings.Count(buf.String(), "skipping line"); got != 2 {
		t.Errorf("logged %d warnings, want 2:\n%s", got, buf.String())
	}
	if s.suppressed != 3 {
		t.Errorf("suppressed = %d, want 3", s.suppressed)
	}
}

func TestSkipReporter_Drain(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s := newSkipReporter(log, rate.NewLimiter(rate.Every(time.Hour), 1))

	errs := make(chan error, 3)
	errs <- &rflog.ParseError{Kind: rflog.EmptyLine, Line: 4}
	errs <- &rflog.ParseError{Kind: rflog.UnknownLogKind, Line: 5}
	close(errs)

	if err := s.drain(errs); err != nil {
		t.Fatalf("drain() error = %v", err)
	}
	if !strings.Contains(buf.String(), "suppressed skip warnings") {
		t.Errorf("missing suppressed summary:\n%s", buf.String())
	}

	headerErrs := make(chan error, 1)
	headerErrs <- &rflog.ParseError{Kind: rflog.BannerMismatch, Line: 1}
	close(headerErrs)
	if err := s.drain(headerErrs); !errors.Is(err, rflog.ErrBannerMismatch) {
		t.Errorf("drain() error = %v, want %v", err, rflog.ErrBannerMismatch)
	}

	if err := s.drain(nil); err != nil {
		t.Errorf("drain(nil) error = %v", err)
	}
}

func TestIsHeaderError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&rflog.ParseError{Kind: rflog.MalformedHeader}, true},
		{&rflog.ParseError{Kind: rflog.FieldOutOfRange}, true},
		{&rflog.ParseError{Kind: rflog.InvalidTimestamp}, false},
		{&rflog.FollowError{Op: rflog.FollowOpRead, Err: errors.New("io")}, false},
	}

	for _, tt := range tests {
		if got := isHeaderError(tt.err); got != tt.want {
			t.Errorf("isHeaderError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
