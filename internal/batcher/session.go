package batcher

import (
	"sync"
	"time"

	"github.com/shaiso/Briefly/internal/domain"
)

// session — состояние накопления одного пользователя.
//
// Создаётся лениво при первом документе и живёт до конца процесса
// (после обработки batch'а очищается до пустой, но не удаляется).
//
// Все поля защищены mu. Критическая секция append/перевзвод/захват
// сериализована per-session: сессии разных пользователей не контендят.
type session struct {
	mu sync.Mutex

	// userID — владелец сессии.
	userID int64

	// chatID — чат последнего принятого документа.
	// Результат batch'а отправляется сюда.
	chatID int64

	// pending — принятые документы в порядке поступления.
	// Порядок семантически значим: summary объединяются в этом же порядке.
	pending []domain.Document

	// timer — активный debounce-таймер. Всегда не более одного живого.
	timer *time.Timer

	// generation — поколение таймера. Каждый перевзвод инкрементирует;
	// сработавший callback с устаревшим поколением — no-op.
	generation uint64

	// processing — количество batch'ей этой сессии в обработке.
	// Счётчик, а не флаг: новый batch может легитимно стартовать,
	// пока предыдущий ещё обрабатывается.
	processing int
}

// arm перевзводит debounce-таймер и возвращает новое поколение.
// Вызывается под mu.
func (s *session) arm(window time.Duration, fire func(gen uint64)) uint64 {
	if s.timer != nil {
		// Остановка может не успеть (fire уже стартовал) — это не ошибка:
		// generation-проверка в fire превратит устаревший вызов в no-op.
		s.timer.Stop()
	}

	s.generation++
	gen := s.generation
	s.timer = time.AfterFunc(window, func() { fire(gen) })
	return gen
}

// capture атомарно забирает pending-список, если поколение актуально.
// Возвращает nil, если fire устарел или копить нечего. Вызывается под mu.
func (s *session) capture(gen uint64) []domain.Document {
	if gen != s.generation {
		return nil
	}

	s.timer = nil

	batch := s.pending
	s.pending = nil
	return batch
}

// Snapshot — снимок состояния сессии для admin API.
type Snapshot struct {
	// UserID — владелец сессии.
	UserID int64 `json:"user_id"`

	// Phase — текущая фаза накопления.
	Phase domain.SessionPhase `json:"phase"`

	// PendingCount — количество документов в pending-списке.
	PendingCount int `json:"pending_count"`

	// Processing — true, если хотя бы один batch сессии обрабатывается.
	Processing bool `json:"processing"`

	// OldestPendingAt — время приёма самого старого pending-документа.
	OldestPendingAt *time.Time `json:"oldest_pending_at,omitempty"`
}

// snapshot делает снимок под mu.
func (s *session) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		UserID:       s.userID,
		Phase:        domain.SessionIdle,
		PendingCount: len(s.pending),
		Processing:   s.processing > 0,
	}

	if len(s.pending) > 0 {
		snap.Phase = domain.SessionAccumulating
		t := s.pending[0].ReceivedAt
		snap.OldestPendingAt = &t
	} else if s.processing > 0 {
		snap.Phase = domain.SessionProcessing
	}

	return snap
}
