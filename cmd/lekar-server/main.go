// lekar-server — HTTP сервис медицинских инструментов.
//
// Использование:
//
//	lekar-server -config config.yaml [-log lekar.log]
//
// Без файла конфигурации поднимается на дефолтах (локальный Ollama).
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/ilkoid/lekar-ai/internal/server"
	"github.com/ilkoid/lekar-ai/pkg/config"
	"github.com/ilkoid/lekar-ai/pkg/llm/openai"
	"github.com/ilkoid/lekar-ai/pkg/models"
	"github.com/ilkoid/lekar-ai/pkg/prompt"
	"github.com/ilkoid/lekar-ai/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "путь к YAML конфигурации")
	logPath := flag.String("log", "", "файл лога (пусто — только stderr)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := utils.InitLogger(*logPath, cfg.App.Debug); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer utils.Close()

	prompts, err := prompt.LoadLibrary(cfg.App.PromptsDir)
	if err != nil {
		utils.Error("prompt library", "error", err.Error())
		os.Exit(1)
	}

	provider := openai.NewClient(cfg.LLM)

	// Прогрев реестра моделей. Недоступный эндпоинт не мешает старту:
	// остаёмся на дефолтах, Resolve подставит их молча.
	registry := models.NewRegistry(cfg.LLM.DefaultTextModel, cfg.LLM.DefaultVisionModel)
	warmupCtx, cancel := context.WithTimeout(context.Background(), cfg.LLM.ModelsTimeout)
	if err := registry.Refresh(warmupCtx, provider, cfg.LLM.ModelFilter); err != nil {
		utils.Warn("model registry warm-up failed, serving defaults only", "error", err.Error())
	}
	cancel()

	srv := server.New(cfg, provider, registry, prompts)

	ctx, stop := utils.SetupGracefulShutdownWithContext()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.Info("server starting", "addr", cfg.Server.Addr, "endpoint", cfg.LLM.Endpoint)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("server", "error", err.Error())
			os.Exit(1)
		}
	case <-ctx.Done():
		utils.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Error("shutdown", "error", err.Error())
			os.Exit(1)
		}
	}

	utils.Info("server stopped")
}
