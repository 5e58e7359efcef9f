package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/utils"
)

// Директивы языка ответа. Добавляются отдельной строкой к system-сообщению,
// чтобы не плодить файлы промптов по числу языков.
var languageDirectives = map[string]string{
	"en": "Write the summary and all free-text fields in English.",
	"ro": "Write the summary and all free-text fields in Romanian.",
	"fr": "Write the summary and all free-text fields in French.",
	"de": "Write the summary and all free-text fields in German.",
	"es": "Write the summary and all free-text fields in Spanish.",
	"it": "Write the summary and all free-text fields in Italian.",
}

// SupportedLanguage сообщает, известен ли код языка.
func SupportedLanguage(code string) bool {
	_, ok := languageDirectives[code]
	return ok
}

// Library хранит промпты по идентификатору tool. Файлы из prompts_dir
// перекрывают встроенные дефолты пофайлово.
type Library struct {
	prompts map[string]*PromptFile
}

// LoadLibrary собирает библиотеку: встроенные промпты плюс переопределения
// из dir (<tool>.yaml). Пустой dir означает «только встроенные».
func LoadLibrary(dir string) (*Library, error) {
	lib := &Library{prompts: make(map[string]*PromptFile, len(builtins))}
	for id, pf := range builtins {
		lib.prompts[id] = pf
	}

	if dir == "" {
		return lib, nil
	}

	for id := range builtins {
		path := filepath.Join(dir, id+".yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading prompt file %s: %w", path, err)
		}

		var pf PromptFile
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parsing prompt file %s: %w", path, err)
		}
		if len(pf.Messages) == 0 {
			return nil, fmt.Errorf("prompt file %s has no messages", path)
		}

		lib.prompts[id] = &pf
		utils.Debug("prompt override loaded", "tool", id, "path", path)
	}

	return lib, nil
}

// Config возвращает параметры генерации для tool.
func (l *Library) Config(toolID string) (PromptConfig, error) {
	pf, ok := l.prompts[toolID]
	if !ok {
		return PromptConfig{}, fmt.Errorf("unknown tool %q", toolID)
	}
	return pf.Config, nil
}

// Render подставляет data в шаблоны сообщений и добавляет директиву
// языка к первому system-сообщению. Неизвестный язык — ошибка вызывающего,
// проверять надо раньше.
func (l *Library) Render(toolID, language string, data any) ([]llm.Message, error) {
	pf, ok := l.prompts[toolID]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", toolID)
	}

	directive, ok := languageDirectives[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", language)
	}

	out := make([]llm.Message, 0, len(pf.Messages))
	directiveDone := false
	for i, msg := range pf.Messages {
		tmpl, err := template.New(fmt.Sprintf("%s.%d", toolID, i)).Parse(msg.Content)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt template for %s: %w", toolID, err)
		}

		var sb strings.Builder
		if err := tmpl.Execute(&sb, data); err != nil {
			return nil, fmt.Errorf("rendering prompt for %s: %w", toolID, err)
		}

		text := sb.String()
		if !directiveDone && msg.Role == "system" {
			text = text + "\n" + directive
			directiveDone = true
		}
		out = append(out, llm.Text(msg.Role, text))
	}
	if !directiveDone && len(out) > 0 {
		// Промпт без system-сообщения: директива уходит первой user-строкой.
		out[0].Content[0].Text = directive + "\n" + out[0].Content[0].Text
	}

	return out, nil
}
