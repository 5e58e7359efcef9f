// llm-ping — утилита для проверки доступности chat-completions эндпоинта.
//
// Использование:
//
//	llm-ping [config.yaml]
//
// Проверяет две вещи: отвечает ли эндпоинт на /models и отвечает ли
// дефолтная текстовая модель на минимальный запрос.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ilkoid/lekar-ai/pkg/config"
	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/llm/openai"
)

// --- Стили ---
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	itemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

func main() {
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Println(failStyle.Render("✗ config: ") + err.Error())
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render("llm-ping"))
	fmt.Println(dimStyle.Render("endpoint: " + cfg.LLM.Endpoint))
	fmt.Println()

	client := openai.NewClient(cfg.LLM)
	ctx := context.Background()

	if !pingModels(ctx, client) {
		os.Exit(1)
	}
	if !pingChat(ctx, client, cfg.LLM.DefaultTextModel) {
		os.Exit(1)
	}
}

// pingModels запрашивает список моделей и печатает его.
func pingModels(ctx context.Context, client *openai.Client) bool {
	started := time.Now()
	ids, err := client.ListModels(ctx)
	if err != nil {
		fmt.Println(failStyle.Render("✗ /models: ") + err.Error())
		return false
	}

	fmt.Printf("%s %d models in %dms\n",
		okStyle.Render("✓ /models:"), len(ids), time.Since(started).Milliseconds())
	for _, id := range ids {
		fmt.Println("  " + itemStyle.Render(id))
	}
	return true
}

// pingChat шлёт минимальный запрос дефолтной модели.
func pingChat(ctx context.Context, client *openai.Client, model string) bool {
	started := time.Now()
	reply, err := client.Chat(ctx, llm.ChatRequest{
		Model:     model,
		MaxTokens: 8,
		Messages:  []llm.Message{llm.Text(llm.RoleUser, "Reply with the single word: pong")},
	})
	if err != nil {
		fmt.Println(failStyle.Render("✗ chat: ") + err.Error())
		return false
	}

	fmt.Printf("%s model %s answered in %dms\n",
		okStyle.Render("✓ chat:"), model, time.Since(started).Milliseconds())
	fmt.Println("  " + dimStyle.Render(reply))
	return true
}
