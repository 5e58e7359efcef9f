package server

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ilkoid/lekar-ai/internal/tools"
	"github.com/ilkoid/lekar-ai/pkg/extract"
	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/prompt"
	"github.com/ilkoid/lekar-ai/pkg/utils"
)

// toolHandler — один общий конвейер для всех инструментов:
// сбор входа → разрешение предпочтений → промпт → LLM → извлечение →
// пост-шаг (literature) → презентация.
func (s *Server) toolHandler(tool tools.Tool) echo.HandlerFunc {
	return func(c echo.Context) error {
		started := time.Now()

		input, err := s.collectInput(c, tool)
		if err != nil {
			return s.present(c, tool, nil, err)
		}

		model := s.resolveModel(c, tool)
		language := s.resolveLanguage(c, tool)

		result, err := s.run(c, tool, input, model, language)
		utils.Info("tool request",
			"tool", tool.ID,
			"model", model,
			"language", language,
			"ok", err == nil,
			"duration_ms", time.Since(started).Milliseconds())

		return s.present(c, tool, result, err)
	}
}

// run выполняет LLM-часть конвейера и возвращает валидированный результат.
func (s *Server) run(c echo.Context, tool tools.Tool, input *toolInput, model, language string) (extract.Result, error) {
	data := map[string]string{
		"Payload": input.Text,
		"Title":   input.Title,
	}
	msgs, err := s.prompts.Render(tool.ID, language, data)
	if err != nil {
		return nil, err
	}
	if input.Image != nil {
		msgs = attachImage(msgs, input.Image)
	}

	pc, err := s.prompts.Config(tool.ID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.Chat(c.Request().Context(), llm.ChatRequest{
		Model:       model,
		Temperature: pc.Temperature,
		MaxTokens:   pc.MaxTokens,
		Format:      pc.Format,
		Messages:    msgs,
	})
	if err != nil {
		return nil, err
	}

	result, err := extract.ExtractValidate(raw, tool.Schema)
	if err != nil {
		return nil, err
	}

	if tool.ID == "literature" {
		citations, err := s.literature.Search(c.Request().Context(), stringItems(result["keywords"]))
		if err != nil {
			return nil, err
		}
		result["citations"] = citations
	}
	return result, nil
}

// attachImage добавляет картинку к последнему user-сообщению.
func attachImage(msgs []llm.Message, jpeg []byte) []llm.Message {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			msgs[i] = llm.Vision(llm.RoleUser, msgs[i].Content[0].Text, dataURL)
			return msgs
		}
	}
	return append(msgs, llm.Vision(llm.RoleUser, "", dataURL))
}

// resolveModel: параметр запроса → cookie → дефолт конфига; значение вне
// реестра молча заменяется жёстким дефолтом. Результат переустанавливает
// cookie предпочтения.
func (s *Server) resolveModel(c echo.Context, tool tools.Tool) string {
	def := s.cfg.LLM.DefaultTextModel
	if tool.Vision {
		def = s.cfg.LLM.DefaultVisionModel
	}

	model := s.registry.Resolve(param(c, "model"), cookieValue(c, tool.ID+"-model"), def)
	s.setPreference(c, tool.ID+"-model", model)
	return model
}

// resolveLanguage: та же лестница приоритетов, что и у модели —
// сначала выбирается значение (параметр → cookie → дефолт), потом
// выбранное проверяется. Неизвестный код молча заменяется дефолтом
// инструмента, а не следующей ступенькой лестницы.
func (s *Server) resolveLanguage(c echo.Context, tool tools.Tool) string {
	language := tool.DefaultLanguage
	switch {
	case param(c, "language") != "":
		language = param(c, "language")
	case cookieValue(c, tool.ID+"-language") != "":
		language = cookieValue(c, tool.ID+"-language")
	}

	if !prompt.SupportedLanguage(language) {
		language = tool.DefaultLanguage
	}
	s.setPreference(c, tool.ID+"-language", language)
	return language
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (s *Server) setPreference(c echo.Context, name, value string) {
	c.SetCookie(&http.Cookie{
		Name:    name,
		Value:   value,
		Path:    "/",
		Expires: time.Now().Add(s.cfg.CookieTTL()),
	})
}

// stringItems приводит валидированное array-поле к []string.
func stringItems(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
