// HTTP слой сервиса: echo, middleware, маршруты.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ilkoid/lekar-ai/internal/tools"
	"github.com/ilkoid/lekar-ai/pkg/config"
	"github.com/ilkoid/lekar-ai/pkg/litsearch"
	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/models"
	"github.com/ilkoid/lekar-ai/pkg/prompt"
	"github.com/ilkoid/lekar-ai/pkg/scrape"
	"github.com/ilkoid/lekar-ai/pkg/utils"
)

// Таймаут скачивания страницы для webpage.
const scrapeTimeout = 30 * time.Second

// Server связывает все компоненты конвейера под одним echo.
type Server struct {
	cfg        *config.AppConfig
	provider   llm.Provider
	registry   *models.Registry
	prompts    *prompt.Library
	fetcher    *scrape.Fetcher
	literature *litsearch.Client
	echo       *echo.Echo
}

// New собирает сервер. Провайдер и реестр моделей приходят снаружи,
// чтобы main мог прогреть реестр до старта.
func New(cfg *config.AppConfig, provider llm.Provider, registry *models.Registry, prompts *prompt.Library) *Server {
	s := &Server{
		cfg:        cfg,
		provider:   provider,
		registry:   registry,
		prompts:    prompts,
		fetcher:    scrape.NewFetcher(cfg.Limits.MaxScrapeBytes, scrapeTimeout),
		literature: litsearch.NewFromConfig(cfg.Literature),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			utils.Info("request",
				"id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds())
			return nil
		},
	}))

	for _, t := range tools.All {
		e.POST("/"+t.ID, s.toolHandler(t))
		if t.AllowGET {
			e.GET("/"+t.ID, s.toolHandler(t))
		}
	}
	e.GET("/models", s.modelsHandler)
	e.GET("/health", healthHandler)

	s.echo = e
	return s
}

// Start блокирует до остановки сервера.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Server.Addr)
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo отдаёт внутренний echo (тесты).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) modelsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"models": s.registry.List()})
}

func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorHandler — ошибки, дошедшие до echo (404, panic из Recover).
// Наружу уходит только статус и общая фраза, никаких внутренностей.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
	} else {
		utils.Error("unhandled error", "error", err.Error())
	}

	if jerr := c.JSON(status, map[string]string{"error": msg}); jerr != nil {
		utils.Error("error response failed", "error", jerr.Error())
	}
}
