package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Lab Results Explained</title>
  <style>body { color: red; }</style>
  <script>trackVisitor();</script>
</head>
<body>
  <nav>Home | About</nav>
  <h1>Understanding CBC</h1>
  <p>A complete blood count measures   several components.</p>
  <footer>Copyright</footer>
</body>
</html>`

func newFetcher() *Fetcher {
	return NewFetcher(1<<20, 5*time.Second)
}

func TestFetch_ExtractsVisibleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	page, err := newFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Title != "Lab Results Explained" {
		t.Errorf("expected title, got %q", page.Title)
	}
	if !strings.Contains(page.Text, "Understanding CBC") {
		t.Errorf("expected heading text, got %q", page.Text)
	}
	if !strings.Contains(page.Text, "measures several components") {
		t.Errorf("whitespace runs must collapse, got %q", page.Text)
	}
	for _, forbidden := range []string{"trackVisitor", "color: red", "Home | About", "Copyright"} {
		if strings.Contains(page.Text, forbidden) {
			t.Errorf("invisible content %q leaked into text", forbidden)
		}
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	tests := []string{"", "not a url", "ftp://example.com/x", "/relative/path"}

	for _, rawURL := range tests {
		if _, err := newFetcher().Fetch(context.Background(), rawURL); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Fetch(%q): expected ErrInvalidURL, got %v", rawURL, err)
		}
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newFetcher().Fetch(context.Background(), srv.URL); !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetch_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("x", 4096) + "</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(1024, 5*time.Second)
	if _, err := f.Fetch(context.Background(), srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFetch_RejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	if _, err := newFetcher().Fetch(context.Background(), srv.URL); !errors.Is(err, ErrNotHTML) {
		t.Fatalf("expected ErrNotHTML, got %v", err)
	}
}
