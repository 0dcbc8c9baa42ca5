package gate

import (
	"fmt"
	"strings"

	"github.com/shaiso/Briefly/internal/domain"
)

// Default configuration values.
const (
	defaultMaxPending = 5
	defaultMaxBytes   = 10 << 20 // 10 MiB

	acceptedMimeType  = "application/pdf"
	acceptedExtension = ".pdf"
)

// Gate проверяет входящие submissions до скачивания содержимого.
//
// Gate — чистая валидация: никакого I/O и никаких побочных эффектов.
// Скачивание файла и создание Document происходят в вызывающем коде
// только после успешного Check.
type Gate struct {
	maxPending int
	maxBytes   int64
}

// Config — конфигурация Gate.
type Config struct {
	// MaxPendingPerUser — максимум документов в pending-списке (default: 5).
	MaxPendingPerUser int

	// MaxDocumentBytes — максимальный размер документа (default: 10 MiB).
	MaxDocumentBytes int64
}

// New создаёт Gate.
func New(cfg Config) *Gate {
	maxPending := cfg.MaxPendingPerUser
	if maxPending <= 0 {
		maxPending = defaultMaxPending
	}

	maxBytes := cfg.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	return &Gate{
		maxPending: maxPending,
		maxBytes:   maxBytes,
	}
}

// Check валидирует submission против текущей длины pending-списка.
//
// Порядок проверок: тип → размер → заполненность очереди.
// Возвращает nil (принято) или одну из sentinel-ошибок пакета.
func (g *Gate) Check(meta domain.SubmissionMeta, pendingCount int) error {
	if !isAcceptedType(meta) {
		return fmt.Errorf("%w: %q (%s)", ErrUnsupportedType, meta.FileName, meta.MimeType)
	}

	if meta.SizeBytes > g.maxBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, meta.SizeBytes, g.maxBytes)
	}

	if pendingCount >= g.maxPending {
		return fmt.Errorf("%w: %d pending documents (max %d)", ErrQueueFull, pendingCount, g.maxPending)
	}

	return nil
}

// MaxPending возвращает лимит pending-документов на пользователя.
func (g *Gate) MaxPending() int {
	return g.maxPending
}

// isAcceptedType проверяет MIME-тип с fallback на расширение файла.
// Telegram-клиенты не всегда проставляют MIME корректно.
func isAcceptedType(meta domain.SubmissionMeta) bool {
	if meta.MimeType == acceptedMimeType {
		return true
	}
	if meta.MimeType == "" {
		return strings.HasSuffix(strings.ToLower(meta.FileName), acceptedExtension)
	}
	return false
}
