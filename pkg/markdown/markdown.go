// Package markdown рендерит markdown-текст модели в безопасный HTML фрагмент.
//
// Модели любят возвращать прозу с markdown-разметкой (списки, жирный
// текст). Для HTML презентера рендерим её goldmark-ом и прогоняем через
// bluemonday UGC политику: скрипты, обработчики событий и прочий
// активный контент вычищаются.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	md     = goldmark.New()
	policy = bluemonday.UGCPolicy()
)

// ToHTML конвертирует markdown в санитизированный HTML фрагмент.
//
// При ошибке рендера возвращается экранированный исходный текст:
// презентер всегда получает что-то показываемое.
func ToHTML(source string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
