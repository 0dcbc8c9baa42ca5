package domain

import (
	"time"

	"github.com/google/uuid"
)

// Digest — запись об обработке одного захваченного batch'а.
//
// Digest создаётся когда debounce-таймер пользователя сработал
// и batch передан в pipeline. Один Digest соответствует ровно
// одному захваченному batch'у — повторной обработки не бывает.
//
// Digest — аудиторная запись: сам pending-список живёт только
// в памяти и не переживает рестарт процесса.
type Digest struct {
	// ID — уникальный идентификатор digest.
	ID uuid.UUID `json:"id"`

	// UserID — пользователь, для которого собран batch.
	UserID int64 `json:"user_id"`

	// ChatID — чат, в который отправлен результат.
	ChatID int64 `json:"chat_id"`

	// Status — текущий статус обработки.
	Status DigestStatus `json:"status"`

	// DocumentCount — количество документов в захваченном batch'е.
	DocumentCount int `json:"document_count"`

	// SummaryCount — количество документов, по которым получилось summary.
	// Может быть меньше DocumentCount: извлечение текста и суммаризация
	// падают per-item, не прерывая batch.
	SummaryCount int `json:"summary_count"`

	// SummaryText — итоговый объединённый текст summary.
	SummaryText string `json:"summary_text,omitempty"`

	// Error — текст ошибки, если digest завершился с FAILED.
	Error string `json:"error,omitempty"`

	// StartedAt — время начала обработки batch'а.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения обработки.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}

// NewDigest создаёт Digest для захваченного batch'а.
func NewDigest(userID, chatID int64, documentCount int) *Digest {
	now := time.Now()
	return &Digest{
		ID:            uuid.New(),
		UserID:        userID,
		ChatID:        chatID,
		Status:        DigestStatusProcessing,
		DocumentCount: documentCount,
		StartedAt:     &now,
		CreatedAt:     now,
	}
}

// Duration возвращает продолжительность обработки.
// Возвращает 0, если digest ещё не завершён.
func (d *Digest) Duration() time.Duration {
	if d.StartedAt == nil || d.FinishedAt == nil {
		return 0
	}
	return d.FinishedAt.Sub(*d.StartedAt)
}

// IsFinished возвращает true, если обработка завершена.
func (d *Digest) IsFinished() bool {
	return d.Status.IsTerminal()
}

// MarkSucceeded переводит digest в статус SUCCEEDED.
func (d *Digest) MarkSucceeded(summaryText string, summaryCount int) {
	now := time.Now()
	d.Status = DigestStatusSucceeded
	d.SummaryText = summaryText
	d.SummaryCount = summaryCount
	d.FinishedAt = &now
}

// MarkFailed переводит digest в статус FAILED с ошибкой.
func (d *Digest) MarkFailed(err string) {
	now := time.Now()
	d.Status = DigestStatusFailed
	d.Error = err
	d.FinishedAt = &now
}
