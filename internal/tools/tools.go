// Декларативное описание шести инструментов сервиса.
//
// Хендлеры в internal/server не знают о конкретных инструментах:
// всё поведение (схема ответа, вид входа, язык по умолчанию,
// разрешён ли GET) задаётся здесь таблицей.
package tools

import "github.com/ilkoid/lekar-ai/pkg/extract"

// InputKind — какой вход принимает инструмент.
type InputKind int

const (
	// InputText — текст из поля формы или текстового файла.
	InputText InputKind = iota
	// InputImage — загруженное изображение (multipart).
	InputImage
	// InputURL — адрес веб-страницы.
	InputURL
)

// Tool описывает один инструмент целиком.
type Tool struct {
	// ID — идентификатор в URL, промпт-библиотеке и именах cookie.
	ID string
	// Title для HTML-страницы результата.
	Title string
	// Input — вид входных данных.
	Input InputKind
	// Field — имя поля формы с основным входом.
	Field string
	// Schema валидирует JSON из ответа модели.
	Schema extract.Schema
	// DefaultLanguage — язык ответа, если нет ни параметра, ни cookie.
	DefaultLanguage string
	// Vision — требуется мультимодальная модель.
	Vision bool
	// AllowGET — инструмент доступен и по GET (вход помещается в query).
	AllowGET bool
}

// All — реестр инструментов в порядке показа.
var All = []Tool{
	{
		ID:    "report",
		Field: "report",
		Title: "Report analysis",
		Input: InputText,
		Schema: extract.Schema{
			"pathologic": extract.YesNo(),
			"severity":   extract.Range(0, 10),
			"summary":    extract.Text(),
			"keywords":   extract.StringList(1, 3),
		},
		DefaultLanguage: "ro",
	},
	{
		ID:    "ocr",
		Field: "file",
		Title: "Document OCR",
		Input: InputImage,
		Schema: extract.Schema{
			"text":       extract.Text(),
			"legible":    extract.YesNo(),
			"confidence": extract.Range(0, 100),
		},
		DefaultLanguage: "en",
		Vision:          true,
	},
	{
		ID:    "summary",
		Field: "content",
		Title: "Document summary",
		Input: InputText,
		Schema: extract.Schema{
			"summary":  extract.Text(),
			"keywords": extract.StringList(1, 5),
		},
		DefaultLanguage: "en",
	},
	{
		ID:    "webpage",
		Field: "url",
		Title: "Webpage evaluation",
		Input: InputURL,
		Schema: extract.Schema{
			"summary":   extract.Text(),
			"relevance": extract.Range(0, 10),
			"keywords":  extract.StringList(1, 5),
		},
		DefaultLanguage: "en",
		AllowGET:        true,
	},
	{
		ID:    "literature",
		Field: "question",
		Title: "Literature search",
		Input: InputText,
		Schema: extract.Schema{
			"keywords": extract.StringList(1, 5),
		},
		DefaultLanguage: "en",
		AllowGET:        true,
	},
	{
		ID:    "interactions",
		Field: "drugs",
		Title: "Drug interactions",
		Input: InputText,
		Schema: extract.Schema{
			"interaction": extract.YesNo(),
			"severity":    extract.Range(0, 10),
			"explanation": extract.Text(),
		},
		DefaultLanguage: "ro",
	},
}

// ByID ищет инструмент по идентификатору.
func ByID(id string) (Tool, bool) {
	for _, t := range All {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}
