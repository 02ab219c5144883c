package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(LevelWarn, &out, &errOut)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	if out.Len() != 0 {
		t.Fatalf("expected no stdout output at warn level, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "warn message") {
		t.Fatalf("expected warn message on stderr, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "error message") {
		t.Fatalf("expected error message on stderr, got %q", errOut.String())
	}
}

func TestLevelDebugEmitsEverything(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(LevelDebug, &out, &errOut)

	l.Debug("debug message")
	l.Info("info message")

	if !strings.Contains(out.String(), "debug message") {
		t.Fatalf("expected debug message on stdout, got %q", out.String())
	}
	if !strings.Contains(out.String(), "info message") {
		t.Fatalf("expected info message on stdout, got %q", out.String())
	}
}

func TestDefaultLevel(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	SetDefault(LevelDebug)
	if Default() != LevelDebug {
		t.Fatalf("SetDefault/Default round trip failed")
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelNone:  "none",
		LevelError: "error",
		LevelWarn:  "warn",
		LevelInfo:  "info",
		LevelDebug: "debug",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
