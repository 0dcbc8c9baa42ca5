package telegram

import "errors"

// Ошибки Bot API клиента.
var (
	// ErrAPIFailure — Bot API вернул ok=false или не-2xx ответ.
	ErrAPIFailure = errors.New("telegram api failure")

	// ErrFileUnavailable — файл недоступен для скачивания.
	ErrFileUnavailable = errors.New("file unavailable")
)
