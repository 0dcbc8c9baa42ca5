package domain

// DigestStatus — статус обработки digest.
//
// Жизненный цикл:
//
//	PROCESSING → SUCCEEDED
//	           ↘ FAILED
//
// PENDING-статуса нет намеренно: digest появляется только в момент
// захвата batch'а, накопление документов — состояние сессии, не digest'а.
type DigestStatus string

const (
	// DigestStatusProcessing — batch захвачен, pipeline выполняется.
	DigestStatusProcessing DigestStatus = "PROCESSING"

	// DigestStatusSucceeded — голосовое summary отправлено пользователю.
	DigestStatusSucceeded DigestStatus = "SUCCEEDED"

	// DigestStatusFailed — ни по одному документу не удалось получить summary.
	DigestStatusFailed DigestStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s DigestStatus) IsTerminal() bool {
	switch s {
	case DigestStatusSucceeded, DigestStatusFailed:
		return true
	default:
		return false
	}
}

// SessionPhase — фаза сессии пользователя.
//
// Жизненный цикл:
//
//	IDLE → ACCUMULATING (первый документ) → ACCUMULATING (self-loop, сброс таймера)
//	     → PROCESSING (таймер сработал) → IDLE (batch обработан)
//
// Новое ACCUMULATING может начаться, пока предыдущий PROCESSING
// ещё выполняется — сессия не однопоточна end-to-end.
type SessionPhase string

const (
	// SessionIdle — нет pending-документов и нет активной обработки.
	SessionIdle SessionPhase = "IDLE"

	// SessionAccumulating — документы копятся, debounce-таймер взведён.
	SessionAccumulating SessionPhase = "ACCUMULATING"

	// SessionProcessing — захваченный batch обрабатывается.
	SessionProcessing SessionPhase = "PROCESSING"
)
