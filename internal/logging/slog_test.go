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
	l := slog.New(h)
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_EachLevel(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "entries loaded", "count", 3)
	log.Info(ctx, "subscribed", "since", 7)
	log.Warn(ctx, "resubscribing", "delay", "3s")
	log.Error(ctx, "archive failed", "user_id", "u1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 records, got %d:\n%s", len(lines), buf.String())
	}

	want := [][]string{
		{"level=DEBUG", `msg="entries loaded"`, "count=3"},
		{"level=INFO", "msg=subscribed", "since=7"},
		{"level=WARN", "msg=resubscribing", "delay=3s"},
		{"level=ERROR", `msg="archive failed"`, "user_id=u1"},
	}
	for i, parts := range want {
		for _, p := range parts {
			if !strings.Contains(lines[i], p) {
				t.Errorf("record %d: missing %s in %q", i, p, lines[i])
			}
		}
	}
}

func TestSlogLogger_WithKeepsModule(t *testing.T) {
	log, buf := newTestLogger(t)

	diary := log.With("module", "diary", "user_id", "u1")
	diary.Info(context.Background(), "entry saved", "entry_id", "e1")
	log.Info(context.Background(), "plain")

	out := buf.String()
	for _, s := range []string{"module=diary", "user_id=u1", "entry_id=e1"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
	if strings.Count(out, "module=diary") != 1 {
		t.Fatalf("parent logger must not inherit child attributes:\n%s", out)
	}
}

func TestSlogLogger_TODOContext(t *testing.T) {
	log, buf := newTestLogger(t)

	log.Info(context.TODO(), "ok")
	if !strings.Contains(buf.String(), "msg=ok") {
		t.Fatal("record not written")
	}
}

func TestNew_JSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "warn")
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "entry_id", "e1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info must be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"entry_id":"e1"`) {
		t.Fatalf("expected JSON record, got:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewNop_Discards(t *testing.T) {
	var l Logger = NewNop()
	l.With("k", "v").Error(context.Background(), "nothing")
}
