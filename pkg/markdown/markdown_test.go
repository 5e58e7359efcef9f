package markdown

import (
	"strings"
	"testing"
)

func TestToHTML_BasicMarkdown(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "emphasis", source: "normal **bold** text", want: "<strong>bold</strong>"},
		{name: "list", source: "- first\n- second", want: "<li>first</li>"},
		{name: "heading", source: "## Findings", want: "Findings"},
		{name: "plain text survives", source: "no markup here", want: "no markup here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(ToHTML(tt.source))
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected output to contain %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToHTML_StripsActiveContent(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		forbid  string
	}{
		{name: "script tag", source: "text <script>alert(1)</script>", forbid: "<script"},
		{name: "event handler", source: `<img src="x" onerror="alert(1)">`, forbid: "onerror"},
		{name: "javascript url", source: "[click](javascript:alert(1))", forbid: "javascript:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(ToHTML(tt.source))
			if strings.Contains(got, tt.forbid) {
				t.Errorf("sanitized output must not contain %q, got %q", tt.forbid, got)
			}
		})
	}
}
