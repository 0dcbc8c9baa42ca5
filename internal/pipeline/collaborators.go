package pipeline

import (
	"context"

	"github.com/shaiso/Briefly/internal/domain"
)

// Extractor извлекает текст из сохранённого документа.
//
// Ошибки I/O и нечитаемые документы возвращаются как error
// (обёрнутый services.ErrExtractionFailed), не паникой.
// Пустой текст без ошибки — валидный результат (документ без текстового слоя).
type Extractor interface {
	Extract(ctx context.Context, storedPath string) (string, error)
}

// Summarizer строит condensed summary одного куска текста.
//
// Нарезку длинного текста на куски выполняет pipeline; Summarizer
// получает куски не длиннее сконфигурированного лимита. preamble
// прошивается в каждый запрос перед текстом.
type Summarizer interface {
	Summarize(ctx context.Context, text, preamble string) (string, error)
}

// Synthesizer синтезирует речь из текста.
//
// Возвращает путь к временному аудиофайлу. Освобождение файла —
// обязанность вызывающего (pipeline удаляет его после доставки).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (audioPath string, err error)
}

// Notifier доставляет результат пользователю.
//
// Доставка — at-most-once: ошибка логируется и не ретраится
// на уровне pipeline.
type Notifier interface {
	// NotifySuccess отправляет голосовое summary в чат.
	NotifySuccess(ctx context.Context, chatID int64, audioPath string) error

	// NotifyFailure отправляет текстовое уведомление об ошибке.
	NotifyFailure(ctx context.Context, chatID int64, reason string) error
}

// Releaser освобождает временный файл документа.
type Releaser interface {
	Remove(path string) error
}

// History — аудиторная запись digests (опционально, БД может отсутствовать).
type History interface {
	Create(ctx context.Context, digest *domain.Digest) error
	Update(ctx context.Context, digest *domain.Digest) error
}

// Events — публикация событий о завершённых digests (опционально).
type Events interface {
	PublishDigestCompleted(ctx context.Context, digest *domain.Digest) error
}
