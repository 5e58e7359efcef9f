package server

import (
	"errors"
	"net/http"

	"github.com/ilkoid/lekar-ai/pkg/extract"
	"github.com/ilkoid/lekar-ai/pkg/llm"
	"github.com/ilkoid/lekar-ai/pkg/scrape"
)

// ValidationError — ошибка пользовательского ввода. Отдаётся сразу,
// до любого сетевого вызова.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationf(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// statusFor переводит ошибку конвейера в HTTP статус.
// Ошибки ввода — 400, всё что сломалось дальше по цепочке — 502.
func statusFor(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) || errors.Is(err, scrape.ErrInvalidURL) {
		return http.StatusBadRequest
	}

	var (
		connErr   *llm.ConnectionError
		httpErr   *llm.HTTPError
		formatErr *llm.InvalidResponseFormat
	)
	if errors.As(err, &connErr) || errors.As(err, &httpErr) || errors.As(err, &formatErr) {
		return http.StatusBadGateway
	}

	var (
		malformed    *extract.MalformedResponse
		missing      *extract.MissingField
		badType      *extract.InvalidFieldType
		badValue     *extract.InvalidFieldValue
		outOfRange   *extract.OutOfRange
		insufficient *extract.InsufficientItems
	)
	if errors.As(err, &malformed) || errors.As(err, &missing) ||
		errors.As(err, &badType) || errors.As(err, &badValue) ||
		errors.As(err, &outOfRange) || errors.As(err, &insufficient) {
		return http.StatusBadGateway
	}

	if errors.Is(err, scrape.ErrFetch) || errors.Is(err, scrape.ErrTooLarge) ||
		errors.Is(err, scrape.ErrNotHTML) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// publicMessage — текст ошибки для пользователя. Ошибки конвейера
// безопасны по построению (без путей и stack traces); всё неизвестное
// прячется за общей фразой.
func publicMessage(err error) string {
	if statusFor(err) != http.StatusInternalServerError {
		return err.Error()
	}
	return "internal error"
}
