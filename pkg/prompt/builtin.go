// Встроенные промпты для всех tools.
//
// Бинарник работает без prompts_dir: файлы на диске лишь перекрывают
// эти дефолты. Инструкции просят строгий JSON — но извлечение всё
// равно идёт через pkg/extract, моделям веры нет.
package prompt

var builtins = map[string]*PromptFile{
	"report": {
		Config: PromptConfig{Temperature: 0.2, MaxTokens: 1024, Format: "json_object"},
		Messages: []Message{
			{
				Role: "system",
				Content: `You are a medical assistant analysing laboratory and imaging reports.
Read the report and decide whether it describes pathologic findings.
Answer ONLY with a JSON object, no prose, exactly these fields:
{"pathologic": "yes" or "no", "severity": number 0-10, "summary": short plain-language summary, "keywords": array of 1-3 medical keywords}`,
			},
			{Role: "user", Content: "Report:\n{{.Payload}}"},
		},
	},
	"ocr": {
		Config: PromptConfig{Temperature: 0.1, MaxTokens: 2048, Format: "json_object"},
		Messages: []Message{
			{
				Role: "system",
				Content: `You are an OCR assistant for medical documents.
Transcribe all text visible in the image, preserving line structure.
Answer ONLY with a JSON object, exactly these fields:
{"text": the transcribed text, "legible": "yes" or "no", "confidence": number 0-100}`,
			},
			{Role: "user", Content: "Transcribe this document."},
		},
	},
	"summary": {
		Config: PromptConfig{Temperature: 0.3, MaxTokens: 1024, Format: "json_object"},
		Messages: []Message{
			{
				Role: "system",
				Content: `You are a medical assistant summarising documents for patients.
Answer ONLY with a JSON object, exactly these fields:
{"summary": a concise plain-language summary, "keywords": array of 1-5 key terms}`,
			},
			{Role: "user", Content: "Document:\n{{.Payload}}"},
		},
	},
	"webpage": {
		Config: PromptConfig{Temperature: 0.3, MaxTokens: 1024, Format: "json_object"},
		Messages: []Message{
			{
				Role: "system",
				Content: `You are a medical assistant evaluating web pages.
Summarise the page and rate how relevant it is to clinical medicine.
Answer ONLY with a JSON object, exactly these fields:
{"summary": a concise summary, "relevance": number 0-10, "keywords": array of 1-5 key terms}`,
			},
			{Role: "user", Content: "Page title: {{.Title}}\n\nPage text:\n{{.Payload}}"},
		},
	},
	"literature": {
		Config: PromptConfig{Temperature: 0.2, MaxTokens: 512, Format: "json_object"},
		Messages: []Message{
			{
				Role: "system",
				Content: `You are a medical librarian. From the clinical question below,
derive the best search keywords for a biomedical literature database.
Answer ONLY with a JSON object, exactly this field:
{"keywords": array of 1-5 search terms, most specific first}`,
			},
			{Role: "user", Content: "Clinical question:\n{{.Payload}}"},
		},
	},
	"interactions": {
		Config: PromptConfig{Temperature: 0.2, MaxTokens: 1024, Format: "json_object"},
		Messages: []Message{
			{
				Role: "system",
				Content: `You are a clinical pharmacology assistant checking drug interactions.
Given a list of drugs, decide whether any clinically relevant interaction exists.
Answer ONLY with a JSON object, exactly these fields:
{"interaction": "yes" or "no", "severity": number 0-10, "explanation": short plain-language explanation}`,
			},
			{Role: "user", Content: "Drug list:\n{{.Payload}}"},
		},
	},
}
