package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadLibrary_BuiltinsOnly(t *testing.T) {
	lib, err := LoadLibrary("")
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	for _, id := range []string{"report", "ocr", "summary", "webpage", "literature", "interactions"} {
		if _, err := lib.Config(id); err != nil {
			t.Errorf("builtin %s missing: %v", id, err)
		}
	}
}

func TestLoadLibrary_Override(t *testing.T) {
	dir := t.TempDir()
	override := `
config:
  temperature: 0.9
  max_tokens: 42
  format: json_object
messages:
  - role: system
    content: "Custom system prompt."
  - role: user
    content: "Input: {{.Payload}}"
`
	if err := os.WriteFile(filepath.Join(dir, "report.yaml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadLibrary(dir)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}

	cfg, err := lib.Config("report")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxTokens != 42 {
		t.Errorf("override not applied, max_tokens = %d", cfg.MaxTokens)
	}

	// Остальные tools остаются встроенными.
	if _, err := lib.Config("summary"); err != nil {
		t.Errorf("summary lost after override: %v", err)
	}
}

func TestLoadLibrary_BadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLibrary(dir); err == nil {
		t.Error("expected error on malformed prompt file")
	}
}

func TestRender_SubstitutesAndAppendsDirective(t *testing.T) {
	lib, err := LoadLibrary("")
	if err != nil {
		t.Fatal(err)
	}

	msgs, err := lib.Render("report", "ro", map[string]string{"Payload": "Hemoglobin 9.1 g/dL"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	system := msgs[0].Content[0].Text
	if !strings.Contains(system, "Romanian") {
		t.Errorf("system message missing language directive: %q", system)
	}
	user := msgs[1].Content[0].Text
	if !strings.Contains(user, "Hemoglobin 9.1 g/dL") {
		t.Errorf("payload not substituted: %q", user)
	}
}

func TestRender_UnsupportedLanguage(t *testing.T) {
	lib, _ := LoadLibrary("")
	if _, err := lib.Render("report", "xx", nil); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestRender_UnknownTool(t *testing.T) {
	lib, _ := LoadLibrary("")
	if _, err := lib.Render("nope", "en", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestSupportedLanguage(t *testing.T) {
	for _, code := range []string{"en", "ro", "fr", "de", "es", "it"} {
		if !SupportedLanguage(code) {
			t.Errorf("%s should be supported", code)
		}
	}
	if SupportedLanguage("xx") {
		t.Error("xx should not be supported")
	}
}
