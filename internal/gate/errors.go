package gate

import "errors"

// Ошибки admission. Возвращаются синхронно отправителю,
// состояние сессии при отказе не меняется.
var (
	// ErrUnsupportedType — документ не является PDF.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrTooLarge — документ превышает максимальный размер.
	ErrTooLarge = errors.New("document too large")

	// ErrQueueFull — pending-список пользователя уже полон.
	ErrQueueFull = errors.New("user queue is full")
)
