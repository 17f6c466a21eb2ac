package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
		{" error ", LevelError},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelDebug.String() != "DEBUG" || LevelError.String() != "ERROR" {
		t.Errorf("Level.String() mismatch: %s %s", LevelDebug, LevelError)
	}
}

func TestColorTextHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorTextHandler(&buf, nil, false)
	l := slog.New(h)

	l.Info("block uploaded", "id", "ab3k9", "start", 0)

	out := buf.String()
	if !strings.Contains(out, "[INFO] block uploaded") {
		t.Errorf("output missing level/message: %q", out)
	}
	if !strings.Contains(out, "id=ab3k9") || !strings.Contains(out, "start=0") {
		t.Errorf("output missing attrs: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("color codes present with useColor=false: %q", out)
	}
}

func TestColorTextHandler_Enabled(t *testing.T) {
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelWarn)
	h := NewColorTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: lv}, false)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("INFO should be disabled at WARN level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("ERROR should be enabled at WARN level")
	}
}

func TestColorTextHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorTextHandler(&buf, nil, false)
	l := slog.New(h).With("room", "x7f2a")

	l.Info("peer joined")

	if !strings.Contains(buf.String(), "room=x7f2a") {
		t.Errorf("WithAttrs attr missing: %q", buf.String())
	}
}

func TestInitFileOutput(t *testing.T) {
	path := t.TempDir() + "/fileflow.log"
	if err := Init(Config{Level: "DEBUG", Format: "text", Output: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(Config{Level: "INFO", Format: "text", Output: "stdout"})
	})

	Debug("sweeper tick", "removed", 3)
}
