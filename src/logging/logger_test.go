package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelsFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLogLevel("info")

	if !SetLogLevel("warn") {
		t.Fatalf("warn should be a known level")
	}
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestUnknownLevelKeepsCurrent(t *testing.T) {
	defer SetLogLevel("info")
	SetLogLevel("error")
	if SetLogLevel("loud") {
		t.Fatalf("unknown level accepted")
	}
	if GetLogLevel() != LevelError {
		t.Fatalf("level changed to %v", GetLogLevel())
	}
}

func TestPercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	msg := "100% done"
	Errorf(msg)
	if !strings.Contains(buf.String(), "100% done") {
		t.Fatalf("literal percent mangled: %q", buf.String())
	}
}

func TestLevelString(t *testing.T) {
	if got := LevelWarn.String(); got != "WARN" {
		t.Fatalf("LevelWarn = %q", got)
	}
	if got := LogLevel(42).String(); got != "INFO" {
		t.Fatalf("out of range level = %q", got)
	}
}
