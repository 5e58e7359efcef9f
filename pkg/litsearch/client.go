// Package litsearch предоставляет клиент для literature-search API
// (NCBI E-utilities: esearch + esummary, JSON режим).
//
// Это полноценный SDK, а не "тупой" HTTP клиент: инкапсулирует
// двухшаговый протокол E-utilities (поиск идентификаторов, затем
// выборка метаданных), rate limiting и классификацию ошибок.
// NCBI требует не больше 3 запросов в секунду без ключа — лимитер
// обязателен, иначе сервис банит по IP.
package litsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ilkoid/lekar-ai/pkg/config"
)

// ErrorType представляет тип ошибки при работе с literature API.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrTimeout
	ErrNetwork
	ErrRateLimit
	ErrBadResponse
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	case ErrBadResponse:
		return "bad_response"
	default:
		return "unknown"
	}
}

// HumanMessage возвращает человекочитаемое сообщение для типа ошибки.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrTimeout:
		return "the literature service did not respond in time"
	case ErrNetwork:
		return "the literature service is unreachable"
	case ErrRateLimit:
		return "too many literature requests, try again shortly"
	case ErrBadResponse:
		return "the literature service returned an unreadable reply"
	default:
		return "unknown literature service error"
	}
}

// APIError — классифицированная ошибка клиента.
type APIError struct {
	Type ErrorType
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Citation — одна найденная публикация.
type Citation struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Journal string   `json:"journal"`
	Year    string   `json:"year"`
	URL     string   `json:"url"`
}

// HTTPClient интерфейс для выполнения HTTP запросов.
// Позволяет мокировать HTTP клиент в тестах; стандартный *http.Client
// реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент literature-search API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
	maxResults int
}

// NewFromConfig создаёт клиент из конфигурации.
func NewFromConfig(cfg config.LiteratureConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		maxResults: cfg.MaxResults,
	}
}

// NewWithHTTPClient создаёт клиент с произвольным HTTPClient (тесты).
func NewWithHTTPClient(baseURL string, hc HTTPClient, maxResults int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxResults: maxResults,
	}
}

// Search выполняет поиск публикаций по списку ключевых слов.
//
// Двухшаговый протокол:
//  1. esearch: ключевые слова → список идентификаторов
//  2. esummary: идентификаторы → метаданные публикаций
//
// Пустой результат поиска — не ошибка: возвращается пустой срез.
func (c *Client) Search(ctx context.Context, keywords []string) ([]Citation, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	term := strings.Join(keywords, " AND ")

	ids, err := c.search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Citation{}, nil
	}

	return c.summaries(ctx, ids)
}

// esearchResponse — нужная нам часть ответа esearch.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *Client) search(ctx context.Context, term string) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", fmt.Sprintf("%d", c.maxResults))

	body, err := c.get(ctx, "/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var parsed esearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &APIError{Type: ErrBadResponse, Err: err}
	}
	return parsed.ESearchResult.IDList, nil
}

// esummaryDoc — метаданные одной публикации в ответе esummary.
type esummaryDoc struct {
	Title           string `json:"title"`
	FullJournalName string `json:"fulljournalname"`
	PubDate         string `json:"pubdate"`
	Authors         []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (c *Client) summaries(ctx context.Context, ids []string) ([]Citation, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")

	body, err := c.get(ctx, "/esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	// Ответ esummary кладёт документы в result под ключами-uid,
	// рядом со служебным полем "uids" — разбираем в два приёма.
	var envelope struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &APIError{Type: ErrBadResponse, Err: err}
	}

	citations := make([]Citation, 0, len(ids))
	for _, id := range ids {
		rawDoc, ok := envelope.Result[id]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(rawDoc, &doc); err != nil {
			continue // Битый документ пропускаем, не роняя весь ответ
		}

		authors := make([]string, 0, len(doc.Authors))
		for _, a := range doc.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}

		citations = append(citations, Citation{
			Title:   doc.Title,
			Authors: authors,
			Journal: doc.FullJournalName,
			Year:    firstToken(doc.PubDate),
			URL:     "https://pubmed.ncbi.nlm.nih.gov/" + id + "/",
		})
	}

	return citations, nil
}

// get выполняет rate-limited GET и классифицирует сбои.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Type: ErrTimeout, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &APIError{Type: ErrUnknown, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &APIError{Type: ErrTimeout, Err: err}
		}
		return nil, &APIError{Type: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &APIError{Type: ErrRateLimit, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{Type: ErrNetwork, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Type: ErrNetwork, Err: err}
	}
	return body, nil
}

// firstToken возвращает первый токен строки ("2023 Jan 5" → "2023").
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
