package api

import (
	"log/slog"

	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/gate"
	"github.com/shaiso/Briefly/internal/mq"
	"github.com/shaiso/Briefly/internal/repo"
	"github.com/shaiso/Briefly/internal/storage"
	"github.com/shaiso/Briefly/internal/telegram"
)

// Handler — главный обработчик API с зависимостями.
//
// digestRepo и publisher опциональны (nil — соответствующая
// интеграция выключена).
type Handler struct {
	gate       *gate.Gate
	batcher    *batcher.Batcher
	tg         *telegram.Client
	store      *storage.Store
	digestRepo *repo.DigestRepo
	publisher  *mq.Publisher
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Gate       *gate.Gate
	Batcher    *batcher.Batcher
	Telegram   *telegram.Client
	Store      *storage.Store
	DigestRepo *repo.DigestRepo
	Publisher  *mq.Publisher
	Logger     *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		gate:       cfg.Gate,
		batcher:    cfg.Batcher,
		tg:         cfg.Telegram,
		store:      cfg.Store,
		digestRepo: cfg.DigestRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
	}
}
