package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/ilkoid/lekar-ai/internal/tools"
	"github.com/ilkoid/lekar-ai/pkg/extract"
	"github.com/ilkoid/lekar-ai/pkg/litsearch"
	"github.com/ilkoid/lekar-ai/pkg/markdown"
	"github.com/ilkoid/lekar-ai/pkg/utils"
)

// present отдаёт результат либо как HTML-страницу, либо как JSON.
// Наличие поля submit в форме означает браузерную отправку; его
// отсутствие — программный вызов. Конвенция сохранена как есть,
// внешние интеграции от неё зависят.
func (s *Server) present(c echo.Context, tool tools.Tool, result extract.Result, err error) error {
	if err != nil {
		utils.Error("tool failed", "tool", tool.ID, "error", err.Error())
	}

	if param(c, "submit") != "" {
		return s.presentHTML(c, tool, result, err)
	}
	return presentJSON(c, result, err)
}

func presentJSON(c echo.Context, result extract.Result, err error) error {
	c.Response().Header().Set("Access-Control-Allow-Origin", "*")
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": publicMessage(err)})
	}
	return c.JSON(http.StatusOK, result)
}

// resultRow — одно поле результата для HTML-шаблона.
type resultRow struct {
	Name string
	HTML template.HTML // Заполнено для прозаических полей
	Text string        // Всё остальное
}

type resultPage struct {
	Title     string
	Error     string
	Rows      []resultRow
	Citations []litsearch.Citation
}

func (s *Server) presentHTML(c echo.Context, tool tools.Tool, result extract.Result, err error) error {
	page := resultPage{Title: tool.Title}

	status := http.StatusOK
	if err != nil {
		page.Error = publicMessage(err)
		status = statusFor(err)
	} else {
		page.Rows = resultRows(result)
		if cs, ok := result["citations"].([]litsearch.Citation); ok {
			page.Citations = cs
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return pageTemplate.Execute(c.Response(), page)
}

// Прозаические поля рендерятся как Markdown, остальные — как текст.
var proseFields = map[string]bool{
	"summary":     true,
	"explanation": true,
	"text":        true,
}

func resultRows(result extract.Result) []resultRow {
	names := make([]string, 0, len(result))
	for name := range result {
		if name == "citations" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]resultRow, 0, len(names))
	for _, name := range names {
		row := resultRow{Name: name}
		if s, ok := result[name].(string); ok && proseFields[name] {
			row.HTML = markdown.ToHTML(s)
		} else {
			row.Text = plainValue(result[name])
		}
		rows = append(rows, row)
	}
	return rows
}

func plainValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case []any:
		out := ""
		for i, item := range x {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprint(item)
		}
		return out
	}
	return fmt.Sprint(v)
}

var pageTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
.error { background: #fee; border: 1px solid #c33; color: #900; padding: 0.7rem 1rem; border-radius: 4px; }
dt { font-weight: bold; margin-top: 0.8rem; text-transform: capitalize; }
dd { margin: 0.2rem 0 0 0; }
.citation { margin: 0.6rem 0; }
.citation .meta { color: #555; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Error}}
<div class="error">{{.Error}}</div>
{{else}}
<dl>
{{range .Rows}}
<dt>{{.Name}}</dt>
<dd>{{if .HTML}}{{.HTML}}{{else}}{{.Text}}{{end}}</dd>
{{end}}
</dl>
{{range .Citations}}
<div class="citation">
<a href="{{.URL}}">{{.Title}}</a>
<div class="meta">{{range $i, $a := .Authors}}{{if $i}}, {{end}}{{$a}}{{end}} &middot; {{.Journal}}, {{.Year}}</div>
</div>
{{end}}
{{end}}
</body>
</html>
`))
