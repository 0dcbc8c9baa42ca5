package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (стандартные 5 полей).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Janitor периодически подчищает осиротевшие файлы хранилища.
//
// Расписание задаётся cron-выражением; между срабатываниями Janitor
// спит до следующего due-времени.
type Janitor struct {
	store        *Store
	schedule     cron.Schedule
	retentionAge time.Duration
	logger       *slog.Logger
}

// JanitorConfig — конфигурация Janitor.
type JanitorConfig struct {
	// Store — хранилище для подчистки (обязательно).
	Store *Store

	// CronExpr — cron-расписание срабатываний (например, "0 * * * *").
	CronExpr string

	// RetentionAge — возраст, после которого файл считается осиротевшим.
	RetentionAge time.Duration

	// Logger
	Logger *slog.Logger
}

// NewJanitor создаёт Janitor, валидируя cron-выражение.
func NewJanitor(cfg JanitorConfig) (*Janitor, error) {
	schedule, err := cronParser.Parse(cfg.CronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse cleanup cron %q: %w", cfg.CronExpr, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Janitor{
		store:        cfg.Store,
		schedule:     schedule,
		retentionAge: cfg.RetentionAge,
		logger:       logger,
	}, nil
}

// Run крутит цикл подчистки до отмены context.
func (j *Janitor) Run(ctx context.Context) {
	j.logger.Info("janitor started", "retention_age", j.retentionAge)

	for {
		next := j.schedule.Next(time.Now())

		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-time.After(time.Until(next)):
			j.sweep()
		}
	}
}

// sweep выполняет одну подчистку.
func (j *Janitor) sweep() {
	removed, err := j.store.Sweep(j.retentionAge)
	if err != nil {
		j.logger.Error("storage sweep failed", "error", err)
		return
	}

	if removed > 0 {
		j.logger.Info("swept orphaned files", "removed", removed)
	}
}
