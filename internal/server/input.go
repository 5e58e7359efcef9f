package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/ilkoid/lekar-ai/internal/tools"
	"github.com/ilkoid/lekar-ai/pkg/imageproc"
)

// toolInput — собранный и проверенный вход одного запроса.
type toolInput struct {
	Text  string // Текст для промпта
	Image []byte // Подготовленный JPEG для vision-запроса
	Title string // Заголовок страницы (webpage)
}

// param читает значение из формы, затем из query.
// GET-варианты tools кладут вход в query string.
func param(c echo.Context, name string) string {
	if v := c.FormValue(name); v != "" {
		return v
	}
	return c.QueryParam(name)
}

// collectInput проверяет и нормализует вход инструмента.
// Любая проблема — ValidationError, до единого сетевого вызова.
func (s *Server) collectInput(c echo.Context, tool tools.Tool) (*toolInput, error) {
	switch tool.Input {
	case tools.InputText:
		return s.collectText(c, tool)
	case tools.InputImage:
		return s.collectImage(c, tool)
	case tools.InputURL:
		return s.collectURL(c, tool)
	}
	return nil, validationf("unsupported input kind")
}

func (s *Server) collectText(c echo.Context, tool tools.Tool) (*toolInput, error) {
	text := strings.TrimSpace(param(c, tool.Field))

	// Текстовый файл как альтернатива вставленному тексту.
	if text == "" {
		if data, err := s.readUpload(c, "file", "text/plain"); err == nil {
			text = strings.TrimSpace(string(data))
		}
	}

	if text == "" {
		return nil, validationf(fmt.Sprintf("field %q is empty", tool.Field))
	}
	// Лимит в символах: байтовый len штрафовал бы не-ASCII текст.
	if utf8.RuneCountInString(text) > s.cfg.Limits.MaxPayloadChars {
		return nil, validationf(fmt.Sprintf("input exceeds %d characters", s.cfg.Limits.MaxPayloadChars))
	}
	return &toolInput{Text: text}, nil
}

func (s *Server) collectImage(c echo.Context, tool tools.Tool) (*toolInput, error) {
	data, err := s.readUpload(c, tool.Field, s.cfg.Limits.AllowedImages...)
	if err != nil {
		return nil, err
	}

	prepared, err := imageproc.Prepare(data, s.cfg.Image)
	if err != nil {
		return nil, validationf("uploaded file is not a decodable image")
	}
	return &toolInput{Image: prepared}, nil
}

func (s *Server) collectURL(c echo.Context, tool tools.Tool) (*toolInput, error) {
	rawURL := strings.TrimSpace(param(c, tool.Field))
	if rawURL == "" {
		return nil, validationf(fmt.Sprintf("field %q is empty", tool.Field))
	}

	page, err := s.fetcher.Fetch(c.Request().Context(), rawURL)
	if err != nil {
		return nil, err
	}

	text := page.Text
	if runes := []rune(text); len(runes) > s.cfg.Limits.MaxPayloadChars {
		text = string(runes[:s.cfg.Limits.MaxPayloadChars])
	}
	return &toolInput{Text: text, Title: page.Title}, nil
}

// readUpload достаёт multipart-файл, проверяя размер и MIME тип.
func (s *Server) readUpload(c echo.Context, field string, allowed ...string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, validationf(fmt.Sprintf("file field %q is missing", field))
	}
	if fh.Size > s.cfg.Limits.MaxUploadBytes {
		return nil, validationf(fmt.Sprintf("file exceeds %d bytes", s.cfg.Limits.MaxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, validationf("uploaded file cannot be read")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.Limits.MaxUploadBytes+1))
	if err != nil {
		return nil, validationf("uploaded file cannot be read")
	}
	if int64(len(data)) > s.cfg.Limits.MaxUploadBytes {
		return nil, validationf(fmt.Sprintf("file exceeds %d bytes", s.cfg.Limits.MaxUploadBytes))
	}

	// Заголовку Content-Type из формы веры нет, тип определяется по байтам.
	detected := http.DetectContentType(data)
	for _, mime := range allowed {
		if strings.HasPrefix(detected, mime) {
			return data, nil
		}
	}
	return nil, validationf(fmt.Sprintf("file type %q is not allowed", detected))
}
