package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	if err := InitLogger(path, true); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	defer Close()

	Info("server starting", "addr", ":8080")
	Debug("llm call", "model", "llama3.1")
	Error("tool failed", "tool", "report")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"INFO: server starting addr=:8080",
		"DEBUG: llm call model=llama3.1",
		"ERROR: tool failed tool=report",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q in:\n%s", want, out)
		}
	}
}

func TestLogger_DebugSuppressedWithoutFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	if err := InitLogger(path, false); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	defer Close()

	Debug("should not appear")
	Info("should appear")

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "should not appear") {
		t.Error("debug line written with debug disabled")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("info line missing")
	}
}
