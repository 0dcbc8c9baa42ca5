// Briefly Bot — Telegram-бот голосовых дайджестов PDF-документов.
//
// Сервис:
//   - Принимает документы через Telegram webhook
//   - Копит документы пользователя в debounce-сессии
//   - После quiet period извлекает текст, суммаризирует и синтезирует речь
//   - Отвечает голосовым сообщением в тот же чат
//
// Postgres (история дайджестов) и RabbitMQ (события) опциональны:
// без них сервис деградирует до webhook-only режима.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Briefly/internal/api"
	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/config"
	"github.com/shaiso/Briefly/internal/domain"
	"github.com/shaiso/Briefly/internal/gate"
	"github.com/shaiso/Briefly/internal/mq"
	"github.com/shaiso/Briefly/internal/pipeline"
	"github.com/shaiso/Briefly/internal/repo"
	"github.com/shaiso/Briefly/internal/services"
	"github.com/shaiso/Briefly/internal/storage"
	"github.com/shaiso/Briefly/internal/telegram"
	"github.com/shaiso/Briefly/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting briefly-bot")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Временное хранилище документов
	store, err := storage.New(cfg.DataDir, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	// Postgres (опционально)
	var digestRepo *repo.DigestRepo
	if cfg.DBURL != "" {
		pool, err := repo.NewPool(ctx, cfg.DBURL)
		if err != nil {
			logger.Warn("database not available, digest history disabled", "error", err)
		} else {
			defer pool.Close()
			digestRepo = repo.NewDigestRepo(pool)
			logger.Info("database connected")
		}
	}

	// RabbitMQ (опционально)
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	if cfg.RabbitURL != "" {
		mqConn, err = mq.NewConnection(cfg.RabbitURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, running in webhook-only mode", "error", err)
		} else {
			defer mqConn.Close()
			logger.Info("RabbitMQ connected")

			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}

			publisher = mq.NewPublisher(mqConn, logger)
		}
	}

	// Collaborator-клиенты
	clientCfg := services.ClientConfig{Logger: logger}
	extractor := services.NewExtractorClient(cfg.ExtractorURL, clientCfg)
	summarizer := services.NewSummarizerClient(cfg.SummarizerURL, clientCfg)
	tts := services.NewTTSClient(cfg.TTSURL, store, clientCfg)

	// Telegram
	tgClient := telegram.New(telegram.Config{
		Token:  cfg.BotToken,
		Logger: logger,
	})
	notifier := telegram.NewNotifier(tgClient, logger)

	// Pipeline обработки batches
	pipelineCfg := pipeline.Config{
		Extractor:   extractor,
		Summarizer:  summarizer,
		Synthesizer: tts,
		Notifier:    notifier,
		Store:       store,
		ChunkRunes:  cfg.SummaryChunkRunes,
		Preamble:    cfg.SummaryPreamble,
		Logger:      logger,
	}
	// Интерфейсные поля присваиваем только при живой зависимости:
	// typed-nil в интерфейсе обошёл бы nil-проверки pipeline.
	if digestRepo != nil {
		pipelineCfg.History = digestRepo
	}
	if publisher != nil {
		pipelineCfg.Events = publisher
	}
	proc := pipeline.New(pipelineCfg)

	// Debounce-batcher
	b := batcher.New(batcher.Config{
		Window:     cfg.DebounceWindow,
		Processor:  proc,
		MaxPending: cfg.MaxPendingPerUser,
		Logger:     logger,
	})

	// Capacity gate
	g := gate.New(gate.Config{
		MaxPendingPerUser: cfg.MaxPendingPerUser,
		MaxDocumentBytes:  cfg.MaxDocumentBytes,
	})

	// Janitor осиротевших временных файлов
	janitor, err := storage.NewJanitor(storage.JanitorConfig{
		Store:        store,
		CronExpr:     cfg.CleanupCron,
		RetentionAge: cfg.RetentionAge,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("invalid cleanup schedule", "error", err)
		os.Exit(1)
	}
	go janitor.Run(ctx)

	// Intake из очереди documents.incoming: при живом MQ webhook публикует
	// document.received, а в сессию документ ставит этот consumer.
	if mqConn != nil {
		consumer := mq.NewConsumer(mqConn, logger, mq.ConsumerConfig{
			Queue:   string(mq.QueueDocumentsIncoming),
			Handler: documentHandler(b, store, logger),
		})
		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("document consumer stopped", "error", err)
			}
		}()
	}

	// API handler
	handler := api.NewHandler(api.Config{
		Gate:       g,
		Batcher:    b,
		Telegram:   tgClient,
		Store:      store,
		DigestRepo: digestRepo,
		Publisher:  publisher,
		Logger:     logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем webhook и API маршруты
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("shutting down")

	// Сначала закрываем вход (webhook), затем дожидаемся in-flight batches.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	b.Stop()
	logger.Info("briefly-bot stopped")
}

// documentHandler обрабатывает document.received из очереди:
// поднимает payload в domain.Document и ставит в сессию.
func documentHandler(b *batcher.Batcher, store *storage.Store, logger *slog.Logger) mq.Handler {
	return func(ctx context.Context, msg *mq.Delivery) error {
		payload, err := mq.ParsePayload[mq.DocumentReceivedPayload](&msg.Message)
		if err != nil {
			return err
		}

		doc := domain.Document{
			UserID:       payload.UserID,
			ChatID:       payload.ChatID,
			StoredPath:   payload.StoredPath,
			OriginalName: payload.OriginalName,
			SizeBytes:    payload.SizeBytes,
			ReceivedAt:   payload.ReceivedAt,
		}

		err = b.Add(ctx, doc)
		if errors.Is(err, batcher.ErrSessionFull) {
			// Requeue в полную сессию зациклился бы: дропаем документ,
			// файл освобождаем. Пользователь пришлёт заново.
			logger.Warn("session full, dropping queued document",
				"user_id", doc.UserID,
				"file", doc.OriginalName,
			)
			if rmErr := store.Remove(doc.StoredPath); rmErr != nil {
				logger.Warn("failed to remove dropped document", "path", doc.StoredPath, "error", rmErr)
			}
			return nil
		}

		// ErrStopped и прочее — nack с requeue: документ заберёт другой инстанс.
		return err
	}
}
