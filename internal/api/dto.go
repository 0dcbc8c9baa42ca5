package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/domain"
)

// Digest DTOs

// DigestResponse — ответ с digest.
type DigestResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        int64      `json:"user_id"`
	ChatID        int64      `json:"chat_id"`
	Status        string     `json:"status"`
	DocumentCount int        `json:"document_count"`
	SummaryCount  int        `json:"summary_count"`
	SummaryText   string     `json:"summary_text,omitempty"`
	Error         string     `json:"error,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// DigestFromDomain конвертирует domain.Digest в DigestResponse.
func DigestFromDomain(d domain.Digest) DigestResponse {
	return DigestResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		ChatID:        d.ChatID,
		Status:        string(d.Status),
		DocumentCount: d.DocumentCount,
		SummaryCount:  d.SummaryCount,
		SummaryText:   d.SummaryText,
		Error:         d.Error,
		StartedAt:     d.StartedAt,
		FinishedAt:    d.FinishedAt,
		CreatedAt:     d.CreatedAt,
	}
}

// Session DTOs

// SessionResponse — ответ с состоянием сессии пользователя.
type SessionResponse struct {
	UserID          int64      `json:"user_id"`
	Phase           string     `json:"phase"`
	PendingCount    int        `json:"pending_count"`
	Processing      bool       `json:"processing"`
	OldestPendingAt *time.Time `json:"oldest_pending_at,omitempty"`
}

// SessionFromSnapshot конвертирует batcher.Snapshot в SessionResponse.
func SessionFromSnapshot(s batcher.Snapshot) SessionResponse {
	return SessionResponse{
		UserID:          s.UserID,
		Phase:           string(s.Phase),
		PendingCount:    s.PendingCount,
		Processing:      s.Processing,
		OldestPendingAt: s.OldestPendingAt,
	}
}

// Webhook DTOs

// WebhookResponse — ответ вебхука для Telegram.
type WebhookResponse struct {
	OK bool `json:"ok"`
}
