package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
	}{
		{"DEBUG", "dbg"},
		{"INFO", "inf"},
		{"WARN", "wrn"},
		{"ERROR", "err"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%s in output:\n%s", tc.msg, out)
		}
	}
}

func TestSlogLogger_With_AddsFields(t *testing.T) {
	log, buf := newTestLogger(t)
	child := log.With("user_id", "42")
	child.Info(context.Background(), "hello")

	if !strings.Contains(buf.String(), "user_id=42") {
		t.Fatalf("expected user_id field in output:\n%s", buf.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	l := New(Options{Level: "error"})
	if l == nil {
		t.Fatal("expected logger")
	}
	// Smoke: must not panic when writing below the threshold.
	l.Info(context.Background(), "suppressed")
}
