// Package config загружает конфигурацию сервиса из YAML файла.
//
// Файл читается один раз при старте, ${VAR} подставляются из окружения.
// Если файл отсутствует — работаем на безопасных дефолтах (локальный
// эндпоинт, пустой ключ, именованная дефолтная модель). Никаких
// глобальных переменных: структура передаётся явно в каждый компонент.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
type AppConfig struct {
	LLM        LLMConfig        `yaml:"llm"`
	Server     ServerConfig     `yaml:"server"`
	Limits     LimitsConfig     `yaml:"limits"`
	Image      ImageConfig      `yaml:"image"`
	Literature LiteratureConfig `yaml:"literature"`
	Cookie     CookieConfig     `yaml:"cookie"`
	App        AppSpecific      `yaml:"app"`
}

// LLMConfig — настройки chat-completions эндпоинта.
type LLMConfig struct {
	Endpoint           string        `yaml:"endpoint"`             // Базовый URL, например http://localhost:11434/v1
	APIKey             string        `yaml:"api_key"`              // Поддерживает ${VAR}; может быть пустым
	DefaultTextModel   string        `yaml:"default_text_model"`   // Жёсткий дефолт для текстовых tools
	DefaultVisionModel string        `yaml:"default_vision_model"` // Жёсткий дефолт для OCR
	ModelFilter        string        `yaml:"model_filter"`         // Regex для фильтрации списка /models
	ChatTimeout        time.Duration `yaml:"chat_timeout"`         // Долгий таймаут для генерации
	ModelsTimeout      time.Duration `yaml:"models_timeout"`       // Короткий таймаут для метаданных
}

// ServerConfig — настройки HTTP сервера.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Например ":8080"
}

// LimitsConfig — лимиты пользовательского ввода.
// Проверяются до любого сетевого вызова.
type LimitsConfig struct {
	MaxPayloadChars int      `yaml:"max_payload_chars"` // Макс. длина вставленного текста
	MaxUploadBytes  int64    `yaml:"max_upload_bytes"`  // Макс. размер загружаемого файла
	AllowedImages   []string `yaml:"allowed_images"`    // MIME типы картинок для OCR
	MaxScrapeBytes  int64    `yaml:"max_scrape_bytes"`  // Кап на размер скачиваемой страницы
}

// ImageConfig — настройки препроцессинга изображений для OCR.
type ImageConfig struct {
	MaxWidth  int  `yaml:"max_width"`  // Ограничивающий прямоугольник
	MaxHeight int  `yaml:"max_height"`
	Quality   int  `yaml:"quality"`  // Качество JPEG при кодировании
	Binarize  bool `yaml:"binarize"` // Включить Otsu бинаризацию + дилатацию
}

// LiteratureConfig — настройки клиента literature-search API.
type LiteratureConfig struct {
	BaseURL    string        `yaml:"base_url"`
	RateLimit  int           `yaml:"rate_limit"`  // Запросов в секунду
	BurstLimit int           `yaml:"burst_limit"` // Burst для rate limiter
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"max_results"`
}

// CookieConfig — настройки preference cookies.
type CookieConfig struct {
	TTLDays int `yaml:"ttl_days"` // Срок жизни <tool>-model / <tool>-language
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug      bool   `yaml:"debug"`
	PromptsDir string `yaml:"prompts_dir"` // Директория с YAML промптами; пустая — встроенные
}

// Defaults возвращает конфигурацию с безопасными дефолтами.
// Используется напрямую, когда файл конфигурации отсутствует.
func Defaults() *AppConfig {
	return &AppConfig{
		LLM: LLMConfig{
			Endpoint:           "http://localhost:11434/v1",
			APIKey:             "",
			DefaultTextModel:   "llama3.1",
			DefaultVisionModel: "llava",
			ChatTimeout:        300 * time.Second,
			ModelsTimeout:      30 * time.Second,
		},
		Server: ServerConfig{Addr: ":8080"},
		Limits: LimitsConfig{
			MaxPayloadChars: 100_000,
			MaxUploadBytes:  10 << 20,
			AllowedImages:   []string{"image/jpeg", "image/png"},
			MaxScrapeBytes:  2 << 20,
		},
		Image: ImageConfig{
			MaxWidth:  1000,
			MaxHeight: 1000,
			Quality:   85,
			Binarize:  true,
		},
		Literature: LiteratureConfig{
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			RateLimit:  3,
			BurstLimit: 1,
			Timeout:    30 * time.Second,
			MaxResults: 10,
		},
		Cookie: CookieConfig{TTLDays: 30},
	}
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую
// структуру. Отсутствующий файл — не ошибка: возвращаются дефолты.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		return Defaults(), nil
	}

	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Начинаем с дефолтов, YAML перекрывает только заданные поля
	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(contentWithEnv), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	cfg.fillDefaults()

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// fillDefaults добивает нулевые поля дефолтами после unmarshal.
// YAML с пустой секцией не должен обнулять обязательные значения.
func (c *AppConfig) fillDefaults() {
	def := Defaults()

	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = def.LLM.Endpoint
	}
	if c.LLM.DefaultTextModel == "" {
		c.LLM.DefaultTextModel = def.LLM.DefaultTextModel
	}
	if c.LLM.DefaultVisionModel == "" {
		c.LLM.DefaultVisionModel = def.LLM.DefaultVisionModel
	}
	if c.LLM.ChatTimeout == 0 {
		c.LLM.ChatTimeout = def.LLM.ChatTimeout
	}
	if c.LLM.ModelsTimeout == 0 {
		c.LLM.ModelsTimeout = def.LLM.ModelsTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Limits.MaxPayloadChars == 0 {
		c.Limits.MaxPayloadChars = def.Limits.MaxPayloadChars
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = def.Limits.MaxUploadBytes
	}
	if len(c.Limits.AllowedImages) == 0 {
		c.Limits.AllowedImages = def.Limits.AllowedImages
	}
	if c.Limits.MaxScrapeBytes == 0 {
		c.Limits.MaxScrapeBytes = def.Limits.MaxScrapeBytes
	}
	if c.Image.MaxWidth == 0 {
		c.Image.MaxWidth = def.Image.MaxWidth
	}
	if c.Image.MaxHeight == 0 {
		c.Image.MaxHeight = def.Image.MaxHeight
	}
	if c.Image.Quality == 0 {
		c.Image.Quality = def.Image.Quality
	}
	if c.Literature.BaseURL == "" {
		c.Literature.BaseURL = def.Literature.BaseURL
	}
	if c.Literature.RateLimit == 0 {
		c.Literature.RateLimit = def.Literature.RateLimit
	}
	if c.Literature.BurstLimit == 0 {
		c.Literature.BurstLimit = def.Literature.BurstLimit
	}
	if c.Literature.Timeout == 0 {
		c.Literature.Timeout = def.Literature.Timeout
	}
	if c.Literature.MaxResults == 0 {
		c.Literature.MaxResults = def.Literature.MaxResults
	}
	if c.Cookie.TTLDays == 0 {
		c.Cookie.TTLDays = def.Cookie.TTLDays
	}
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if c.LLM.DefaultTextModel == "" {
		return fmt.Errorf("llm.default_text_model is required")
	}
	if c.LLM.ModelFilter != "" {
		if _, err := regexp.Compile(c.LLM.ModelFilter); err != nil {
			return fmt.Errorf("llm.model_filter is not a valid regex: %w", err)
		}
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be in 1..100, got %d", c.Image.Quality)
	}
	return nil
}

// CookieTTL возвращает срок жизни preference cookie как Duration.
func (c *AppConfig) CookieTTL() time.Duration {
	return time.Duration(c.Cookie.TTLDays) * 24 * time.Hour
}
