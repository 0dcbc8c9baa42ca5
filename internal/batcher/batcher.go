package batcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Briefly/internal/domain"
	"github.com/shaiso/Briefly/internal/telemetry"
)

// Default configuration values.
const (
	defaultWindow = 3 * time.Second
)

// Batch — захваченный pending-список одной сессии.
//
// После захвата batch неизменяем и принадлежит Processor'у.
// Документы, пришедшие позже, попадают в новый batch.
type Batch struct {
	// UserID — пользователь, для которого собран batch.
	UserID int64

	// ChatID — чат для отправки результата.
	ChatID int64

	// Documents — документы в порядке поступления.
	Documents []domain.Document
}

// Processor обрабатывает захваченный batch.
//
// Реализация: pipeline.Pipeline. Вызывается в отдельной горутине,
// не блокирует приём новых документов ни для кого, включая
// пользователя этого же batch'а.
type Processor interface {
	Process(ctx context.Context, batch Batch)
}

// Batcher — process-wide хранилище сессий + debounce-планировщик.
//
// Единственное глобальное изменяемое состояние системы.
// Мутации одной сессии сериализованы её собственным мьютексом,
// мьютекс Batcher'а защищает только саму map сессий.
type Batcher struct {
	window    time.Duration
	processor Processor
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[int64]*session

	// maxPending — лимит pending-документов (0 — без лимита).
	maxPending int

	// Lifecycle
	wg        sync.WaitGroup
	stopped   bool
	stoppedMu sync.RWMutex
}

// Config — конфигурация Batcher.
type Config struct {
	// Window — quiet period debounce-таймера (default: 3s).
	Window time.Duration

	// Processor — получатель захваченных batches (обязательно).
	Processor Processor

	// MaxPending — жёсткий лимит pending-документов на сессию.
	// 0 — полагаться только на Capacity Gate.
	MaxPending int

	// Logger
	Logger *slog.Logger
}

// New создаёт Batcher.
func New(cfg Config) *Batcher {
	window := cfg.Window
	if window <= 0 {
		window = defaultWindow
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Batcher{
		window:     window,
		processor:  cfg.Processor,
		maxPending: cfg.MaxPending,
		logger:     logger,
		sessions:   make(map[int64]*session),
	}
}

// Add принимает документ в сессию пользователя и перевзводит таймер.
//
// Append и перевзвод — одна критическая секция per-user: конкурентные
// Add одного пользователя строго упорядочены, разных — независимы.
func (b *Batcher) Add(ctx context.Context, doc domain.Document) error {
	if b.IsStopped() {
		return ErrStopped
	}

	sess := b.getOrCreate(doc.UserID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if b.maxPending > 0 && len(sess.pending) >= b.maxPending {
		return ErrSessionFull
	}

	sess.chatID = doc.ChatID
	sess.pending = append(sess.pending, doc)
	gen := sess.arm(b.window, func(g uint64) { b.fire(sess, g) })

	telemetry.DocumentsAdmitted.Inc()

	b.logger.Debug("document added to session",
		"user_id", doc.UserID,
		"file", doc.OriginalName,
		"pending", len(sess.pending),
		"generation", gen,
	)

	return nil
}

// PendingCount возвращает текущую длину pending-списка пользователя.
// Для несуществующей сессии — 0.
func (b *Batcher) PendingCount(userID int64) int {
	b.mu.RLock()
	sess, ok := b.sessions[userID]
	b.mu.RUnlock()

	if !ok {
		return 0
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.pending)
}

// Session возвращает снимок сессии пользователя.
func (b *Batcher) Session(userID int64) (Snapshot, bool) {
	b.mu.RLock()
	sess, ok := b.sessions[userID]
	b.mu.RUnlock()

	if !ok {
		return Snapshot{}, false
	}
	return sess.snapshot(), true
}

// Sessions возвращает снимки всех сессий.
func (b *Batcher) Sessions() []Snapshot {
	b.mu.RLock()
	all := make([]*session, 0, len(b.sessions))
	for _, sess := range b.sessions {
		all = append(all, sess)
	}
	b.mu.RUnlock()

	snaps := make([]Snapshot, len(all))
	for i, sess := range all {
		snaps[i] = sess.snapshot()
	}
	return snaps
}

// IsStopped проверяет, остановлен ли Batcher.
func (b *Batcher) IsStopped() bool {
	b.stoppedMu.RLock()
	defer b.stoppedMu.RUnlock()
	return b.stopped
}

// Stop останавливает приём, захватывает недокопленные batches
// и дожидается завершения всех in-flight обработок.
func (b *Batcher) Stop() {
	b.stoppedMu.Lock()
	if b.stopped {
		b.stoppedMu.Unlock()
		return
	}
	b.stopped = true
	b.stoppedMu.Unlock()

	b.logger.Info("stopping batcher...")

	// Принудительно захватываем остатки: quiet period при shutdown не ждём.
	b.mu.RLock()
	all := make([]*session, 0, len(b.sessions))
	for _, sess := range b.sessions {
		all = append(all, sess)
	}
	b.mu.RUnlock()

	for _, sess := range all {
		sess.mu.Lock()
		if sess.timer != nil {
			sess.timer.Stop()
			sess.timer = nil
		}
		sess.generation++ // инвалидируем возможный in-flight fire
		batch := sess.pending
		sess.pending = nil
		if len(batch) > 0 {
			b.dispatch(sess, batch)
		}
		sess.mu.Unlock()
	}

	b.wg.Wait()
	b.logger.Info("batcher stopped")
}

// getOrCreate возвращает сессию пользователя, лениво создавая её.
func (b *Batcher) getOrCreate(userID int64) *session {
	b.mu.RLock()
	sess, ok := b.sessions[userID]
	b.mu.RUnlock()
	if ok {
		return sess
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if sess, ok = b.sessions[userID]; ok {
		return sess
	}

	sess = &session{userID: userID}
	b.sessions[userID] = sess

	b.logger.Debug("session created", "user_id", userID)
	return sess
}

// fire — callback debounce-таймера.
//
// Сверяет поколение, атомарно захватывает pending-список и отдаёт его
// в обработку. Устаревший fire (таймер успели перевзвести) — no-op.
func (b *Batcher) fire(sess *session, gen uint64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	batch := sess.capture(gen)
	if batch == nil {
		b.logger.Debug("stale timer fire ignored",
			"user_id", sess.userID,
			"generation", gen,
		)
		return
	}

	if len(batch) == 0 {
		// Возможно только при гонке, которой сериализация не допускает.
		// Не ошибка: просто нечего обрабатывать.
		telemetry.EmptyTimerFires.Inc()
		return
	}

	b.dispatch(sess, batch)
}

// dispatch запускает обработку захваченного batch'а. Вызывается под sess.mu.
func (b *Batcher) dispatch(sess *session, batch []domain.Document) {
	sess.processing++

	captured := Batch{
		UserID:    sess.userID,
		ChatID:    sess.chatID,
		Documents: batch,
	}

	b.logger.Info("batch captured",
		"user_id", captured.UserID,
		"documents", len(captured.Documents),
	)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			sess.mu.Lock()
			sess.processing--
			sess.mu.Unlock()
		}()

		b.processor.Process(context.Background(), captured)
	}()
}
