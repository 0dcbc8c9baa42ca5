package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Значения по умолчанию.
const (
	DefaultDebounceWindow    = 3 * time.Second
	DefaultMaxPendingPerUser = 5
	DefaultMaxDocumentBytes  = 10 << 20 // 10 MiB
	DefaultSummaryChunkRunes = 1024
	DefaultCleanupCron       = "0 * * * *" // раз в час
	DefaultRetentionAge      = 24 * time.Hour
)

// DefaultSummaryPreamble — контекст для суммаризатора.
// Прошивается в каждый запрос перед текстом документа.
const DefaultSummaryPreamble = "As an expert oil market trader, summarize the following document. " +
	"Focus on key trading insights, market trends, and actionable information. " +
	"If possible, mention any sources or references found in the document.\n\n"

// Config — конфигурация сервиса Briefly.
//
// Все значения читаются из переменных окружения;
// .env файл подхватывается автоматически (для локальной разработки).
type Config struct {
	// BotToken — токен Telegram Bot API (обязательно).
	BotToken string

	// ListenAddr — адрес HTTP-сервера (webhook + admin API + metrics).
	ListenAddr string

	// DBURL — DSN Postgres для истории digests. Пусто — история отключена.
	DBURL string

	// RabbitURL — URL RabbitMQ. Пусто — работа без очередей (webhook-only).
	RabbitURL string

	// DataDir — каталог временного хранилища документов.
	DataDir string

	// DebounceWindow — quiet period: сколько ждать после последнего
	// документа, прежде чем захватить batch.
	DebounceWindow time.Duration

	// MaxPendingPerUser — максимум документов в pending-списке пользователя.
	MaxPendingPerUser int

	// MaxDocumentBytes — максимальный размер одного документа.
	MaxDocumentBytes int64

	// SummaryChunkRunes — максимальная длина одного куска текста
	// для суммаризатора. Более длинные тексты режутся на куски.
	SummaryChunkRunes int

	// SummaryPreamble — контекстный преамбул для суммаризатора.
	SummaryPreamble string

	// ExtractorURL — адрес сервиса извлечения текста.
	ExtractorURL string

	// SummarizerURL — адрес сервиса суммаризации.
	SummarizerURL string

	// TTSURL — адрес сервиса синтеза речи.
	TTSURL string

	// CleanupCron — cron-выражение для сборки осиротевших временных файлов.
	CleanupCron string

	// RetentionAge — возраст, после которого временный файл считается
	// осиротевшим и удаляется janitor'ом.
	RetentionAge time.Duration
}

// Load читает конфигурацию из окружения.
//
// Порядок: .env файл (если есть) → переменные окружения → defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:          os.Getenv("BOT_TOKEN"),
		ListenAddr:        getString("LISTEN_ADDR", ":8080"),
		DBURL:             os.Getenv("DB_URL"),
		RabbitURL:         os.Getenv("RABBITMQ_URL"),
		DataDir:           getString("DATA_DIR", "./tmp"),
		DebounceWindow:    getDuration("DEBOUNCE_WINDOW", DefaultDebounceWindow),
		MaxPendingPerUser: getInt("MAX_PENDING_PER_USER", DefaultMaxPendingPerUser),
		MaxDocumentBytes:  getInt64("MAX_DOCUMENT_BYTES", DefaultMaxDocumentBytes),
		SummaryChunkRunes: getInt("SUMMARY_CHUNK", DefaultSummaryChunkRunes),
		SummaryPreamble:   getString("SUMMARY_PREAMBLE", DefaultSummaryPreamble),
		ExtractorURL:      os.Getenv("EXTRACTOR_URL"),
		SummarizerURL:     os.Getenv("SUMMARIZER_URL"),
		TTSURL:            os.Getenv("TTS_URL"),
		CleanupCron:       getString("CLEANUP_CRON", DefaultCleanupCron),
		RetentionAge:      getDuration("RETENTION_AGE", DefaultRetentionAge),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	if cfg.ExtractorURL == "" {
		return nil, errors.New("EXTRACTOR_URL is required")
	}
	if cfg.SummarizerURL == "" {
		return nil, errors.New("SUMMARIZER_URL is required")
	}
	if cfg.TTSURL == "" {
		return nil, errors.New("TTS_URL is required")
	}
	if cfg.DebounceWindow <= 0 {
		return nil, fmt.Errorf("DEBOUNCE_WINDOW must be positive, got %s", cfg.DebounceWindow)
	}
	if cfg.MaxPendingPerUser <= 0 {
		return nil, fmt.Errorf("MAX_PENDING_PER_USER must be positive, got %d", cfg.MaxPendingPerUser)
	}

	return cfg, nil
}

// getString читает строку с default значением.
func getString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getInt читает int с default значением. Некорректное значение игнорируется.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// getInt64 читает int64 с default значением.
func getInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

// getDuration читает time.Duration ("3s", "500ms") с default значением.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
