// Интерфейс Провайдера, через который работает всё приложение.

package llm

import "context"

// Provider — контракт для любого OpenAI-совместимого сервиса.
type Provider interface {
	// Chat отправляет запрос и возвращает сырой текстовый ответ модели.
	// Ответ может содержать пояснительный текст вокруг JSON — извлечением
	// занимается pkg/extract, не провайдер.
	Chat(ctx context.Context, req ChatRequest) (string, error)

	// ListModels возвращает идентификаторы моделей, доступных на эндпоинте.
	ListModels(ctx context.Context) ([]string, error)
}
