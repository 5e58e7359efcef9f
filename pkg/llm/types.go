// Базовые типы — универсальный язык общения с chat-completion моделями.
package llm

// ChatRequest — унифицированный запрос к любой модели.
type ChatRequest struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Format      string    // "json_object" или пустая строка
	Messages    []Message // Упорядоченная история чата
}

// Message — одно сообщение.
type Message struct {
	Role    string        // "system", "user", "assistant"
	Content []ContentPart // Мультимодальное содержимое
}

// ContentPart — часть сообщения (текст или картинка).
type ContentPart struct {
	Type     string // "text" или "image_url"
	Text     string // Заполнено, если Type == "text"
	ImageURL string // Заполнено, если Type == "image_url" (base64 data-uri или http ссылка)
}

// Константы для удобства.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	TypeText  = "text"
	TypeImage = "image_url"
)

// Text — шорткат для создания текстового сообщения.
func Text(role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentPart{{Type: TypeText, Text: text}},
	}
}

// Vision — шорткат для создания сообщения с текстом и картинкой.
func Vision(role, text, imageURL string) Message {
	return Message{
		Role: role,
		Content: []ContentPart{
			{Type: TypeText, Text: text},
			{Type: TypeImage, ImageURL: imageURL},
		},
	}
}
