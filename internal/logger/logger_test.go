package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromOptionsJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := FromOptions(&buf, "json", "info")
	log.Info("decoded", "entries", 2)

	out := buf.String()
	if !strings.Contains(out, `"msg":"decoded"`) || !strings.Contains(out, `"entries":2`) {
		t.Fatalf("unexpected JSON output: %s", out)
	}
}

func TestFromOptionsLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := FromOptions(&buf, "text", "WARN")
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn record, got: %s", buf.String())
	}
}

func TestFromOptionsDefaultsToPretty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := FromOptions(&buf, "", "debug")
	log.Debug("pretty", "key", "value")
	if !strings.Contains(buf.String(), "key=value") || !strings.Contains(buf.String(), "DEBUG") {
		t.Fatalf("expected pretty record, got: %s", buf.String())
	}
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := FromOptions(&buf, "json", "info").With("file", "text.bin")
	log.Info("child")
	if !strings.Contains(buf.String(), `"file":"text.bin"`) {
		t.Fatalf("expected inherited attr, got: %s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.Error("nobody hears this")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), FromOptions(&buf, "json", "info"))
	FromContext(ctx).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestPrettyHandlerAttrsAndGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).
		WithAttrs([]slog.Attr{slog.String("cmd", "inspect")}).
		WithGroup("a").
		WithGroup("b")
	slog.New(h).Info("nested", "key", "val")

	out := buf.String()
	if !strings.Contains(out, "cmd=inspect") {
		t.Fatalf("expected handler attr, got: %s", out)
	}
	if !strings.Contains(out, "a.b.key=val") {
		t.Fatalf("expected grouped key, got: %s", out)
	}
}

func TestPrettyHandlerEmptyGroup(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("WithGroup(\"\") should return the same handler")
	}
}

func TestPrettyRendersBytesAsHex(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Info("header", "magic", []byte{0x01, 0x02, 0xab, 0xff})
	if !strings.Contains(buf.String(), "magic=0102abff") {
		t.Fatalf("expected hex magic, got: %s", buf.String())
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))
	log.Info("test", "plain", "simple", "spaced", "hello world", "latin", "café")

	out := buf.String()
	for _, want := range []string{"plain=simple", `spaced="hello world"`, `latin="café"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"simple", false},
		{"no-special-chars", false},
		{"", true},
		{"has space", true},
		{"has\ttab", true},
		{"nul\x00byte", true},
		{`has"quote`, true},
		{"k=v", true},
		{"ÿ", true},
	}
	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.want {
			t.Errorf("needsQuoting(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
