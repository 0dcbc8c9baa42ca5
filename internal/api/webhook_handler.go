package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/domain"
	"github.com/shaiso/Briefly/internal/gate"
	"github.com/shaiso/Briefly/internal/telegram"
	"github.com/shaiso/Briefly/internal/telemetry"
)

// Тексты ответов пользователю.
const (
	msgStart = "Hi! Send me PDF documents and I will reply with a voice summary. " +
		"Documents sent together are summarized as one digest."
	msgUnsupportedType = "Please send PDF documents only."
	msgTooLarge        = "This document is too large, I cannot process it."
	msgQueueFull       = "You already have the maximum number of documents queued. Please wait for the current digest."
	msgRestarting      = "The service is restarting, please resend your documents in a minute."
	msgDownloadFailed  = "Could not download your document, please try sending it again."
)

// Webhook обрабатывает обновления Telegram.
// POST /webhook
//
// Всегда отвечает 200 на валидный JSON: не-2xx заставляет Telegram
// бесконечно ретраить одно и то же обновление.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		BadRequest(w, "invalid update body")
		return
	}

	msg := update.Message
	switch {
	case msg == nil:
		// Не-message обновления (edited_message и т.п.) не обрабатываем.

	case msg.Document != nil:
		h.handleDocument(r, msg)

	case msg.Text == "/start":
		h.sendReply(r, msg.Chat.ID, msgStart)
	}

	Success(w, WebhookResponse{OK: true})
}

// handleDocument проводит документ через gate и ставит в сессию.
func (h *Handler) handleDocument(r *http.Request, msg *telegram.Message) {
	ctx := r.Context()
	chatID := msg.Chat.ID

	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
	}

	doc := msg.Document
	meta := domain.SubmissionMeta{
		MimeType:  doc.MimeType,
		FileName:  doc.FileName,
		SizeBytes: doc.FileSize,
	}

	if err := h.gate.Check(meta, h.batcher.PendingCount(userID)); err != nil {
		h.reject(r, chatID, userID, err)
		return
	}

	file, err := h.tg.GetFile(ctx, doc.FileID)
	if err != nil {
		h.logger.Error("get file failed", "user_id", userID, "file_id", doc.FileID, "error", err)
		h.sendReply(r, chatID, msgDownloadFailed)
		return
	}

	body, err := h.tg.Download(ctx, file.FilePath)
	if err != nil {
		h.logger.Error("download failed", "user_id", userID, "file_path", file.FilePath, "error", err)
		h.sendReply(r, chatID, msgDownloadFailed)
		return
	}
	defer body.Close()

	storedPath, err := h.store.Save(body, doc.FileName)
	if err != nil {
		h.logger.Error("save document failed", "user_id", userID, "error", err)
		h.sendReply(r, chatID, msgDownloadFailed)
		return
	}

	domainDoc := domain.Document{
		UserID:       userID,
		ChatID:       chatID,
		StoredPath:   storedPath,
		OriginalName: doc.FileName,
		SizeBytes:    doc.FileSize,
		ReceivedAt:   time.Now(),
	}

	// MQ подключён — intake через очередь documents.incoming: документ
	// поставит в сессию consumer (этого или другого инстанса).
	// Прямой Add — fallback при недоступной публикации и webhook-only режим.
	if h.publisher != nil {
		err := h.publisher.PublishDocumentReceived(ctx, domainDoc)
		if err == nil {
			return
		}
		h.logger.Warn("publish document.received failed, adding directly", "user_id", userID, "error", err)
	}

	if err := h.batcher.Add(ctx, domainDoc); err != nil {
		// Документ не попал в сессию — файл больше никому не нужен.
		if rmErr := h.store.Remove(storedPath); rmErr != nil {
			h.logger.Warn("failed to remove rejected document", "path", storedPath, "error", rmErr)
		}
		h.reject(r, chatID, userID, err)
		return
	}
}

// reject переводит ошибку gate/batcher в ответ пользователю и метрику.
func (h *Handler) reject(r *http.Request, chatID, userID int64, err error) {
	var reason, reply string

	switch {
	case errors.Is(err, gate.ErrUnsupportedType):
		reason, reply = "unsupported_type", msgUnsupportedType
	case errors.Is(err, gate.ErrTooLarge):
		reason, reply = "too_large", msgTooLarge
	case errors.Is(err, gate.ErrQueueFull), errors.Is(err, batcher.ErrSessionFull):
		reason, reply = "queue_full", msgQueueFull
	case errors.Is(err, batcher.ErrStopped):
		reason, reply = "stopped", msgRestarting
	default:
		reason, reply = "other", msgDownloadFailed
	}

	telemetry.DocumentsRejected.WithLabelValues(reason).Inc()

	h.logger.Info("document rejected",
		"user_id", userID,
		"reason", reason,
		"error", err,
	)

	h.sendReply(r, chatID, reply)
}

// sendReply отправляет текст в чат, ошибку только логирует.
func (h *Handler) sendReply(r *http.Request, chatID int64, text string) {
	if err := h.tg.SendMessage(r.Context(), chatID, text); err != nil {
		h.logger.Warn("send reply failed", "chat_id", chatID, "error", err)
	}
}
