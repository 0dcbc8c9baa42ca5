package batcher

import "errors"

// Ошибки batcher'а.
var (
	// ErrStopped — batcher остановлен, новые документы не принимаются.
	ErrStopped = errors.New("batcher stopped")

	// ErrSessionFull — pending-список сессии уже на лимите.
	// Дублирует проверку Capacity Gate внутри критической секции сессии:
	// между Check и Add мог успеть другой документ того же пользователя.
	ErrSessionFull = errors.New("session pending list is full")
)
