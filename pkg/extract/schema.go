// Декларативная схема ожидаемого результата.
//
// Каждый tool описывает форму своего результата одной Schema вместо
// дублирования ручных проверок. Валидатор в validate.go гарантирует,
// что прошедший Result удовлетворяет схеме полностью — дальше по
// пайплайну защитные проверки не нужны.
package extract

// FieldType — тип поля результата.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeArray  FieldType = "array" // Массив непустых строк
	TypeEnum   FieldType = "enum"  // Строка из фиксированного списка
)

// FieldSpec — описание одного обязательного поля.
type FieldSpec struct {
	Type FieldType

	// Для TypeEnum: допустимые literal значения
	Enum []string

	// Для TypeNumber: инклюзивный диапазон
	Min float64
	Max float64

	// Для TypeArray: границы длины. Массив длиннее MaxItems усекается
	// по keep-first политике, короче MinItems — ошибка.
	MinItems int
	MaxItems int
}

// Schema — отображение имя поля → спецификация.
// Все поля схемы обязательны.
type Schema map[string]FieldSpec

// Result — валидированный результат: гарантированно удовлетворяет
// схеме, по которой был получен.
type Result map[string]any

// YesNo — самый частый enum в схемах tools.
func YesNo() FieldSpec {
	return FieldSpec{Type: TypeEnum, Enum: []string{"yes", "no"}}
}

// Range — числовое поле с инклюзивным диапазоном.
func Range(min, max float64) FieldSpec {
	return FieldSpec{Type: TypeNumber, Min: min, Max: max}
}

// Text — строковое поле без ограничений.
func Text() FieldSpec {
	return FieldSpec{Type: TypeString}
}

// StringList — массив непустых строк с границами длины.
func StringList(minItems, maxItems int) FieldSpec {
	return FieldSpec{Type: TypeArray, MinItems: minItems, MaxItems: maxItems}
}
