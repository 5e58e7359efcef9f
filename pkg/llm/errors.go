// Классификация ошибок транспортного уровня.
//
// Любой сбой при обращении к эндпоинту попадает в одну из трёх категорий:
//   - ConnectionError: сетевой сбой (DNS, connect, timeout)
//   - HTTPError: эндпоинт ответил не-200 статусом
//   - InvalidResponseFormat: 200, но тело нельзя разобрать
//
// Ретраев нет — для вызывающей стороны любая из них терминальна.
package llm

import "fmt"

// ConnectionError — транспортный сбой до получения HTTP ответа.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPError — эндпоинт ответил статусом, отличным от 2xx.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error %d: %s", e.Status, ExplainStatus(e.Status))
}

// InvalidResponseFormat — успешный статус, но тело не является валидным
// ответом chat-completions API.
type InvalidResponseFormat struct {
	Detail string
}

func (e *InvalidResponseFormat) Error() string {
	return fmt.Sprintf("invalid response format: %s", e.Detail)
}

// statusExplanations — фиксированная таблица пояснений для типовых статусов.
// Сообщения показываются пользователю, поэтому без технических деталей.
var statusExplanations = map[int]string{
	400: "the endpoint rejected the request as malformed",
	401: "authentication failed, check the API key",
	403: "access to this model or endpoint is forbidden",
	404: "the endpoint path or model was not found",
	408: "the endpoint timed out processing the request",
	413: "the request payload is too large for the endpoint",
	429: "the endpoint is rate limiting requests, try again later",
	500: "the endpoint reported an internal error",
	502: "the endpoint gateway is unavailable",
	503: "the endpoint is overloaded or down for maintenance",
	504: "the endpoint gateway timed out",
}

// ExplainStatus возвращает человекочитаемое пояснение HTTP статуса.
func ExplainStatus(status int) string {
	if msg, ok := statusExplanations[status]; ok {
		return msg
	}
	return fmt.Sprintf("the endpoint returned an unexpected status %d", status)
}
