package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Endpoint != "http://localhost:11434/v1" {
		t.Errorf("endpoint = %q", cfg.LLM.Endpoint)
	}
	if cfg.LLM.DefaultTextModel != "llama3.1" || cfg.LLM.DefaultVisionModel != "llava" {
		t.Errorf("default models = %q / %q", cfg.LLM.DefaultTextModel, cfg.LLM.DefaultVisionModel)
	}
	if cfg.Cookie.TTLDays != 30 {
		t.Errorf("cookie ttl = %d", cfg.Cookie.TTLDays)
	}
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "secret-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  endpoint: "https://api.example.com/v1"
  api_key: "${TEST_LLM_KEY}"
  chat_timeout: 120s
server:
  addr: ":9090"
limits:
  max_payload_chars: 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLM.APIKey != "secret-from-env" {
		t.Errorf("env not expanded: %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Endpoint != "https://api.example.com/v1" {
		t.Errorf("endpoint = %q", cfg.LLM.Endpoint)
	}
	if cfg.LLM.ChatTimeout != 120*time.Second {
		t.Errorf("chat_timeout = %v", cfg.LLM.ChatTimeout)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Limits.MaxPayloadChars != 500 {
		t.Errorf("max_payload_chars = %d", cfg.Limits.MaxPayloadChars)
	}

	// Незаданные секции добираются дефолтами.
	if cfg.LLM.DefaultTextModel != "llama3.1" {
		t.Errorf("default model not filled: %q", cfg.LLM.DefaultTextModel)
	}
	if cfg.Image.MaxWidth != 1000 || cfg.Image.MaxHeight != 1000 {
		t.Errorf("image box not filled: %dx%d", cfg.Image.MaxWidth, cfg.Image.MaxHeight)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error on malformed yaml")
	}
}

func TestValidate_BadModelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  model_filter: \"([\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error on invalid model_filter regex")
	}
}

func TestValidate_BadQuality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("image:\n  quality: 150\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error on out-of-range jpeg quality")
	}
}

func TestCookieTTL(t *testing.T) {
	cfg := Defaults()
	if cfg.CookieTTL() != 30*24*time.Hour {
		t.Errorf("CookieTTL = %v", cfg.CookieTTL())
	}
}
