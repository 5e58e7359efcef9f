package tools

import "testing"

func TestByID(t *testing.T) {
	for _, tool := range All {
		got, ok := ByID(tool.ID)
		if !ok || got.ID != tool.ID {
			t.Errorf("ByID(%q) failed", tool.ID)
		}
	}
	if _, ok := ByID("nope"); ok {
		t.Error("ByID should fail for unknown tool")
	}
}

func TestRegistryConsistency(t *testing.T) {
	seen := make(map[string]bool)
	for _, tool := range All {
		if seen[tool.ID] {
			t.Errorf("duplicate tool id %q", tool.ID)
		}
		seen[tool.ID] = true

		if len(tool.Schema) == 0 {
			t.Errorf("tool %q has empty schema", tool.ID)
		}
		if tool.DefaultLanguage == "" {
			t.Errorf("tool %q has no default language", tool.ID)
		}
		if tool.Vision && tool.Input != InputImage {
			t.Errorf("tool %q is vision but does not take an image", tool.ID)
		}
	}
}
