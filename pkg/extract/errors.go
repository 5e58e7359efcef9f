// Типизированные ошибки извлечения и валидации.
//
// Каждая ошибка несёт конкретную причину: вызывающая сторона всегда
// знает, что именно не так — общего "validation failed" здесь нет.
package extract

import "fmt"

// snippetLen — сколько символов сырого ответа сохраняем для диагностики.
const snippetLen = 200

// MalformedResponse — во всём ответе модели не нашлось разбираемого
// JSON объекта даже после ремонта.
type MalformedResponse struct {
	Snippet string // Первые 200 символов сырого ответа
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed response, no JSON object found: %q", e.Snippet)
}

// MissingField — обязательное поле схемы отсутствует в объекте.
type MissingField struct {
	Name string
}

func (e *MissingField) Error() string {
	return fmt.Sprintf("missing required field %q", e.Name)
}

// InvalidFieldType — тип значения не совпадает с типом из схемы.
type InvalidFieldType struct {
	Name string
}

func (e *InvalidFieldType) Error() string {
	return fmt.Sprintf("field %q has wrong type", e.Name)
}

// InvalidFieldValue — значение не входит в множество допустимых
// (enum-поле с literal вне списка, пустая строка в массиве).
type InvalidFieldValue struct {
	Name string
}

func (e *InvalidFieldValue) Error() string {
	return fmt.Sprintf("field %q has invalid value", e.Name)
}

// OutOfRange — числовое значение вне объявленного инклюзивного диапазона.
type OutOfRange struct {
	Name string
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("field %q is out of range", e.Name)
}

// InsufficientItems — массив короче объявленного минимума.
type InsufficientItems struct {
	Name string
}

func (e *InsufficientItems) Error() string {
	return fmt.Sprintf("field %q has too few items", e.Name)
}

// snippet обрезает сырой текст до диагностической длины.
// Лимит считается в символах, а не байтах: байтовый срез резал бы
// многобайтовую руну посередине.
func snippet(raw string) string {
	runes := []rune(raw)
	if len(runes) > snippetLen {
		return string(runes[:snippetLen])
	}
	return raw
}
