// Package scrape скачивает веб-страницу и извлекает из неё видимый текст.
//
// Используется tool-ом webpage: пользователь даёт URL, мы забираем
// страницу, вычищаем разметку и скармливаем текст модели. Скрипты,
// стили и навигация отбрасываются, пробелы схлопываются.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxRedirects = 3

var whitespaceRe = regexp.MustCompile(`\s+`)

// Типизированные ошибки скрейпа. Все терминальны для запроса.
var (
	ErrInvalidURL = errors.New("invalid url")
	ErrFetch      = errors.New("page fetch failed")
	ErrTooLarge   = errors.New("page exceeds size limit")
	ErrNotHTML    = errors.New("page is not html")
)

// Page — результат извлечения.
type Page struct {
	Title string
	Text  string
}

// Fetcher скачивает и разбирает страницы.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher создаёт Fetcher с лимитом размера страницы и таймаутом.
func NewFetcher(maxBytes int64, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

// Fetch скачивает страницу по URL и возвращает заголовок + видимый текст.
//
// Принимаются только абсолютные http/https URL. Ответ читается не
// дальше лимита: страница, не уложившаяся в него, отклоняется целиком.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "lekar-ai/1.0 (+medical assistant)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype != "" && !strings.Contains(ctype, "html") {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, ctype)
	}

	// Читаем на один байт больше лимита, чтобы отличить "ровно лимит"
	// от "не влезло"
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}

	return extract(body)
}

// extract разбирает HTML и собирает видимый текст.
func extract(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotHTML, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	// Убираем невидимый и навигационный контент
	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	scope := doc.Find("body")
	if scope.Length() == 0 {
		scope = doc.Selection
	}
	text := whitespaceRe.ReplaceAllString(scope.Text(), " ")
	text = strings.TrimSpace(text)

	return &Page{Title: title, Text: text}, nil
}
