package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/domain"
	"github.com/shaiso/Briefly/internal/telemetry"
)

// Default configuration values.
const (
	defaultChunkRunes = 1024

	// summaryHeader — заголовок per-document summary в итоговом тексте.
	summaryHeader = "Oil Market Trader Summary:\n"

	// failureReason — текст уведомления, когда ни одно summary не получилось.
	failureReason = "Could not extract text from the documents."

	// synthFailureReason — текст уведомления при ошибке синтеза речи.
	synthFailureReason = "Could not prepare the voice summary, please try again later."
)

// Pipeline — обработчик захваченных batches.
//
// Stateless относительно сессий: всё состояние batch'а локально
// для одного вызова Process. Несколько Process могут выполняться
// конкурентно для разных batches (в том числе одного пользователя).
type Pipeline struct {
	extractor   Extractor
	summarizer  Summarizer
	synthesizer Synthesizer
	notifier    Notifier
	store       Releaser

	// Опциональные зависимости: nil — возможность отключена.
	history History
	events  Events

	chunkRunes int
	preamble   string
	logger     *slog.Logger
}

// Config — конфигурация Pipeline.
type Config struct {
	// Collaborators (обязательны).
	Extractor   Extractor
	Summarizer  Summarizer
	Synthesizer Synthesizer
	Notifier    Notifier

	// Store — хранилище временных файлов документов (обязательно).
	Store Releaser

	// History — запись digests в БД (опционально).
	History History

	// Events — публикация digest.completed (опционально).
	Events Events

	// ChunkRunes — максимальная длина куска текста для суммаризатора
	// (default: 1024).
	ChunkRunes int

	// Preamble — контекстный преамбул суммаризации.
	Preamble string

	// Logger
	Logger *slog.Logger
}

// New создаёт Pipeline.
func New(cfg Config) *Pipeline {
	chunkRunes := cfg.ChunkRunes
	if chunkRunes <= 0 {
		chunkRunes = defaultChunkRunes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		extractor:   cfg.Extractor,
		summarizer:  cfg.Summarizer,
		synthesizer: cfg.Synthesizer,
		notifier:    cfg.Notifier,
		store:       cfg.Store,
		history:     cfg.History,
		events:      cfg.Events,
		chunkRunes:  chunkRunes,
		preamble:    cfg.Preamble,
		logger:      logger,
	}
}

// itemResult — результат обработки одного документа.
//
// Явный тип вместо исключений: политика "ошибка одного документа
// не прерывает batch" видна по месту использования.
type itemResult struct {
	doc     domain.Document
	summary string
	err     error
}

// Process обрабатывает один захваченный batch.
//
// Вызывается batcher'ом в отдельной горутине. Каждый batch проходит
// pipeline ровно один раз; наружу ошибки не возвращаются — все исходы
// отражаются в digest-записи, метриках и уведомлении пользователю.
func (p *Pipeline) Process(ctx context.Context, batch batcher.Batch) {
	digest := domain.NewDigest(batch.UserID, batch.ChatID, len(batch.Documents))
	logger := telemetry.WithDigestID(telemetry.WithUserID(p.logger, batch.UserID), digest.ID.String())

	logger.Info("processing batch", "documents", len(batch.Documents))
	telemetry.DigestDocuments.Observe(float64(len(batch.Documents)))

	p.recordCreate(ctx, digest, logger)

	// Этапы a–c: извлечение и суммаризация, per-item, в порядке поступления.
	results := p.summarizeAll(ctx, batch.Documents, logger)

	// Этап d: безусловное освобождение временных файлов — ровно один раз
	// на документ, независимо от исхода a–c.
	p.releaseAll(batch.Documents, logger)

	// Этапы e/f: доставка результата.
	summaries := make([]string, 0, len(results))
	for _, res := range results {
		if res.err == nil && res.summary != "" {
			summaries = append(summaries, res.summary)
		}
	}

	if len(summaries) == 0 {
		digest.MarkFailed(failureReason)
		if err := p.notifier.NotifyFailure(ctx, batch.ChatID, failureReason); err != nil {
			logger.Warn("failed to deliver failure notification", "error", err)
		}
	} else {
		combined := strings.Join(summaries, "\n")
		p.deliver(ctx, digest, combined, len(summaries), logger)
	}

	p.finish(ctx, digest, logger)
}

// summarizeAll выполняет этапы a–c: текст → summary для каждого документа.
func (p *Pipeline) summarizeAll(ctx context.Context, docs []domain.Document, logger *slog.Logger) []itemResult {
	results := make([]itemResult, 0, len(docs))

	for _, doc := range docs {
		results = append(results, p.summarizeItem(ctx, doc, logger))
	}

	return results
}

// summarizeItem обрабатывает один документ. Ошибка — per-item, не фатальна.
func (p *Pipeline) summarizeItem(ctx context.Context, doc domain.Document, logger *slog.Logger) itemResult {
	text, err := p.extractor.Extract(ctx, doc.StoredPath)
	if err != nil {
		logger.Warn("extraction failed, skipping document",
			"file", doc.OriginalName,
			"error", err,
		)
		return itemResult{doc: doc, err: err}
	}

	if strings.TrimSpace(text) == "" {
		logger.Debug("document has no extractable text", "file", doc.OriginalName)
		return itemResult{doc: doc}
	}

	summary, err := p.summarizeText(ctx, text)
	if err != nil {
		logger.Warn("summarization failed, skipping document",
			"file", doc.OriginalName,
			"error", err,
		)
		return itemResult{doc: doc, err: err}
	}

	return itemResult{doc: doc, summary: summaryHeader + summary}
}

// summarizeText суммаризирует текст, нарезая его на куски при необходимости.
// Summary кусков конкатенируются в исходном порядке.
func (p *Pipeline) summarizeText(ctx context.Context, text string) (string, error) {
	chunks := splitChunks(text, p.chunkRunes)

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := p.summarizer.Summarize(ctx, chunk, p.preamble)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, " "), nil
}

// releaseAll освобождает временные файлы всех документов batch'а.
// Ошибки освобождения логируются и никогда не влияют на исход batch'а.
func (p *Pipeline) releaseAll(docs []domain.Document, logger *slog.Logger) {
	for _, doc := range docs {
		if err := p.store.Remove(doc.StoredPath); err != nil {
			logger.Warn("failed to release document storage",
				"path", doc.StoredPath,
				"error", err,
			)
		}
	}
}

// deliver выполняет этап e: синтез, отправка, освобождение аудио.
func (p *Pipeline) deliver(ctx context.Context, digest *domain.Digest, combined string, summaryCount int, logger *slog.Logger) {
	audioPath, err := p.synthesizer.Synthesize(ctx, combined)
	if err != nil {
		logger.Error("speech synthesis failed", "error", err)
		digest.MarkFailed("speech synthesis failed")
		if nerr := p.notifier.NotifyFailure(ctx, digest.ChatID, synthFailureReason); nerr != nil {
			logger.Warn("failed to deliver failure notification", "error", nerr)
		}
		return
	}

	// Освобождение аудио гарантировано на любом пути после синтеза.
	defer func() {
		if rerr := p.store.Remove(audioPath); rerr != nil {
			logger.Warn("failed to release audio resource", "path", audioPath, "error", rerr)
		}
	}()

	// Доставка at-most-once: ошибка логируется, не ретраится.
	if err := p.notifier.NotifySuccess(ctx, digest.ChatID, audioPath); err != nil {
		logger.Warn("failed to deliver voice summary", "error", err)
	}

	digest.MarkSucceeded(combined, summaryCount)
}

// finish фиксирует итог digest'а: БД, события, метрики.
func (p *Pipeline) finish(ctx context.Context, digest *domain.Digest, logger *slog.Logger) {
	p.recordUpdate(ctx, digest, logger)

	if p.events != nil {
		if err := p.events.PublishDigestCompleted(ctx, digest); err != nil {
			logger.Warn("failed to publish digest.completed", "error", err)
		}
	}

	telemetry.DigestsProcessed.WithLabelValues(string(digest.Status)).Inc()
	telemetry.DigestDuration.Observe(digest.Duration().Seconds())

	logger.Info("batch processed",
		"status", digest.Status,
		"documents", digest.DocumentCount,
		"summaries", digest.SummaryCount,
		"duration", digest.Duration(),
	)
}

// recordCreate создаёт digest-запись в БД (best-effort).
func (p *Pipeline) recordCreate(ctx context.Context, digest *domain.Digest, logger *slog.Logger) {
	if p.history == nil {
		return
	}
	if err := p.history.Create(ctx, digest); err != nil {
		logger.Warn("failed to record digest", "error", err)
	}
}

// recordUpdate обновляет digest-запись в БД (best-effort).
func (p *Pipeline) recordUpdate(ctx context.Context, digest *domain.Digest, logger *slog.Logger) {
	if p.history == nil {
		return
	}
	if err := p.history.Update(ctx, digest); err != nil {
		logger.Warn("failed to update digest record", "error", err)
	}
}
