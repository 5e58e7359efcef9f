// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Работает и с Ollama, и с любым другим сервисом, отдающим
// /chat/completions и /models. Соблюдает контракт llm.Provider:
// никаких ретраев, любая ошибка терминальна для запроса и
// классифицируется в транспортную таксономию pkg/llm.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ilkoid/lekar-ai/pkg/config"
	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// maxRedirects — лимит переходов по redirect для обоих типов вызовов.
const maxRedirects = 3

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
type Client struct {
	api           *openai.Client
	chatTimeout   time.Duration // Долгий, для генерации
	modelsTimeout time.Duration // Короткий, для метаданных
}

// NewClient создает клиент на основе LLM секции конфигурации.
//
// Пустой APIKey допустим: локальные эндпоинты (Ollama) авторизацию
// не проверяют, заголовок Authorization всё равно уходит.
func NewClient(cfg config.LLMConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = cfg.Endpoint
	}
	apiCfg.HTTPClient = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &Client{
		api:           openai.NewClientWithConfig(apiCfg),
		chatTimeout:   cfg.ChatTimeout,
		modelsTimeout: cfg.ModelsTimeout,
	}
}

// Chat выполняет запрос к /chat/completions и возвращает сырой текст ответа.
//
// Алгоритм:
//  1. Конвертирует внутренние сообщения в формат OpenAI SDK
//  2. Вызывает API с таймаутом генерации
//  3. Возвращает content первого choice
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	startTime := time.Now()

	utils.Debug("LLM request started",
		"model", req.Model,
		"messages_count", len(req.Messages))

	// 1. Конвертируем наши сообщения в формат OpenAI SDK
	openaiMsgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		openaiMsgs[i] = mapToOpenAI(m)
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    openaiMsgs,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.Format == "json_object" {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	// 2. Вызываем API с таймаутом генерации
	callCtx, cancel := context.WithTimeout(ctx, c.chatTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, apiReq)
	if err != nil {
		classified := classify(err)
		utils.Error("LLM API request failed",
			"error", classified,
			"model", req.Model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return "", classified
	}

	if len(resp.Choices) == 0 {
		return "", &llm.InvalidResponseFormat{Detail: "no choices in response"}
	}

	content := resp.Choices[0].Message.Content

	utils.Info("LLM response received",
		"model", req.Model,
		"content_length", len(content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return content, nil
}

// ListModels возвращает идентификаторы моделей с эндпоинта /models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.modelsTimeout)
	defer cancel()

	list, err := c.api.ListModels(callCtx)
	if err != nil {
		return nil, classify(err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
// Здесь происходит магия Vision: если есть image части, создаем MultiContent.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role: m.Role,
	}

	// Одна текстовая часть — отправляем просто текст
	if len(m.Content) == 1 && m.Content[0].Type == llm.TypeText {
		msg.Content = m.Content[0].Text
		return msg
	}

	// Мультимодальное сообщение (Vision запрос)
	parts := make([]openai.ChatMessagePart, 0, len(m.Content))
	for _, p := range m.Content {
		switch p.Type {
		case llm.TypeText:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		case llm.TypeImage:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    p.ImageURL, // base64 data-uri или http ссылка
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
	}

	msg.MultiContent = parts
	return msg
}

// classify раскладывает ошибку SDK в транспортную таксономию.
//
// Порядок проверок важен: APIError несёт HTTP статус, ошибки
// декодирования JSON означают сломанное тело при успешном статусе,
// всё остальное — сетевой сбой (включая таймауты).
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode > 0 && apiErr.HTTPStatusCode/100 != 2 {
			return &llm.HTTPError{Status: apiErr.HTTPStatusCode}
		}
		return &llm.InvalidResponseFormat{Detail: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode > 0 {
			return &llm.HTTPError{Status: reqErr.HTTPStatusCode}
		}
		return &llm.ConnectionError{Err: err}
	}

	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &synErr) || errors.As(err, &typeErr) {
		return &llm.InvalidResponseFormat{Detail: "body is not valid JSON"}
	}

	return &llm.ConnectionError{Err: err}
}
