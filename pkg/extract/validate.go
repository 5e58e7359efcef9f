// Валидация разобранного объекта против схемы.
package extract

import "sort"

// Validate проверяет объект против схемы и возвращает валидированный
// Result или конкретную ошибку.
//
// Правила:
//   - каждое поле схемы обязано присутствовать (MissingField)
//   - runtime тип обязан совпадать с типом схемы (InvalidFieldType)
//   - enum значение обязано входить в список (InvalidFieldValue)
//   - число обязано лежать в инклюзивном диапазоне (OutOfRange)
//   - массив: только непустые строки; длиннее MaxItems — усечение
//     keep-first, короче MinItems — InsufficientItems
//
// Поля вне схемы отбрасываются: результат содержит ровно то, что
// описано. Поля проверяются в отсортированном порядке, поэтому при
// нескольких нарушениях ошибка детерминирована.
//
// Функция чистая и идемпотентная: повторная валидация её собственного
// результата (после JSON round-trip) даёт идентичный Result.
func Validate(obj map[string]any, schema Schema) (Result, error) {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(Result, len(schema))

	for _, name := range names {
		spec := schema[name]

		value, present := obj[name]
		if !present {
			return nil, &MissingField{Name: name}
		}

		validated, err := validateField(name, value, spec)
		if err != nil {
			return nil, err
		}
		result[name] = validated
	}

	return result, nil
}

// ExtractValidate — извлечение и валидация одним вызовом.
// Основной вход для handlers.
func ExtractValidate(raw string, schema Schema) (Result, error) {
	obj, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Validate(obj, schema)
}

// validateField проверяет одно значение против спецификации поля.
func validateField(name string, value any, spec FieldSpec) (any, error) {
	switch spec.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, &InvalidFieldType{Name: name}
		}
		return s, nil

	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, &InvalidFieldType{Name: name}
		}
		for _, allowed := range spec.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, &InvalidFieldValue{Name: name}

	case TypeNumber:
		// encoding/json декодирует любое число в float64
		n, ok := value.(float64)
		if !ok {
			return nil, &InvalidFieldType{Name: name}
		}
		if n < spec.Min || n > spec.Max {
			return nil, &OutOfRange{Name: name}
		}
		return n, nil

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return nil, &InvalidFieldType{Name: name}
		}

		strs := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, &InvalidFieldType{Name: name}
			}
			if s == "" {
				return nil, &InvalidFieldValue{Name: name}
			}
			strs = append(strs, s)
		}

		if len(strs) < spec.MinItems {
			return nil, &InsufficientItems{Name: name}
		}
		// Keep-first: лишние элементы отбрасываются, не ошибка
		if spec.MaxItems > 0 && len(strs) > spec.MaxItems {
			strs = strs[:spec.MaxItems]
		}

		// Возвращаем []any, чтобы Result переживал JSON round-trip
		// без изменения runtime типов (идемпотентность)
		out := make([]any, len(strs))
		for i, s := range strs {
			out[i] = s
		}
		return out, nil

	default:
		return nil, &InvalidFieldType{Name: name}
	}
}
