// Извлечение JSON объекта из сырого ответа модели.
//
// LLM редко возвращает чистый JSON: вокруг бывает пояснительный текст,
// markdown-обёртка, а сам объект — с типовыми ошибками форматирования
// (висячие запятые, неквотированные ключи, одинарные кавычки).
// Parse пробует упорядоченную цепочку стратегий, первая успешная
// побеждает.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// ```json ... ``` или безымянный ``` ... ```
	fenceRe = regexp.MustCompile("(?s)```(?:[Jj][Ss][Oo][Nn])?\\s*(.*?)```")

	// Висячая запятая перед } или ]
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	// Неквотированный ключ: { или , за которыми идёт голый идентификатор и :
	bareKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

	// Пробельные серии (после остальных ремонтов строки уже двойные,
	// схлопывание внутри значений безопасно для наших схем)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Parse извлекает первый JSON объект из сырого текста ответа модели.
//
// Упорядоченные попытки, первая успешная побеждает:
//  1. Весь текст (trimmed) как JSON
//  2. Содержимое fenced code block (```json или безымянный)
//  3. Первый top-level {...} через brace matching (с учётом строк,
//     не наивный regex по нескольким объектам)
//  4. Ремонт типовых ошибок + повторный парс каждого кандидата
//
// Если всё провалилось — MalformedResponse с первыми 200 символами
// исходного текста для диагностики.
func Parse(raw string) (map[string]any, error) {
	candidates := collectCandidates(raw)

	// Попытки 1-3: кандидаты как есть
	for _, cand := range candidates {
		if obj, ok := decodeObject(cand); ok {
			return obj, nil
		}
	}

	// Попытка 4: ремонт + повторный парс
	for _, cand := range candidates {
		if obj, ok := decodeObject(Repair(cand)); ok {
			return obj, nil
		}
	}

	return nil, &MalformedResponse{Snippet: snippet(raw)}
}

// collectCandidates собирает кандидатов в порядке приоритета спецификации.
func collectCandidates(raw string) []string {
	var candidates []string

	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		candidates = append(candidates, trimmed)
	}

	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		if fenced := strings.TrimSpace(m[1]); fenced != "" {
			candidates = append(candidates, fenced)
		}
	}

	if braced := matchBraces(raw); braced != "" {
		candidates = append(candidates, braced)
	}

	return candidates
}

// decodeObject пытается разобрать строку как JSON объект.
// Массивы и скаляры не принимаются: контракт — ровно один объект.
func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// matchBraces находит первый top-level {...} через подсчёт скобок.
//
// Скобки внутри строковых литералов не считаются: трекается состояние
// "внутри строки" и экранирование. Наивный regex /\{.*\}/s здесь
// пере- или недо-матчит вложенные объекты.
func matchBraces(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Незакрытый объект: отдаём хвост, вдруг ремонт спасёт
	return s[start:]
}

// Repair применяет best-effort ремонт типовых ошибок JSON от моделей.
//
// Последовательность фиксирована:
//  1. Висячие запятые перед } и ]
//  2. Кавычки вокруг голых ключей
//  3. Одинарные кавычки → двойные
//  4. Схлопывание пробельных серий
func Repair(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = convertSingleQuotes(s)
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	return s
}

// convertSingleQuotes переводит одинарно-квотированные строки в двойные.
//
// Идём посимвольно, а не regex-ом: апостроф внутри уже двойных кавычек
// ("patient's") трогать нельзя. Внутри одинарной строки экранируем
// встретившиеся двойные кавычки.
func convertSingleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inDouble := false
	inSingle := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			b.WriteByte(c)
			escaped = true
		case inDouble:
			if c == '"' {
				inDouble = false
			}
			b.WriteByte(c)
		case inSingle:
			switch c {
			case '\'':
				b.WriteByte('"')
				inSingle = false
			case '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(c)
			}
		case c == '"':
			inDouble = true
			b.WriteByte(c)
		case c == '\'':
			inSingle = true
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
