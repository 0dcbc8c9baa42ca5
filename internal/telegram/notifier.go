package telegram

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier доставляет результаты дайджеста пользователю.
//
// Успех — голосовое сообщение, неудача — текст с причиной.
type Notifier struct {
	client *Client
	logger *slog.Logger
}

// NewNotifier создаёт новый Notifier.
func NewNotifier(client *Client, logger *slog.Logger) *Notifier {
	return &Notifier{
		client: client,
		logger: logger,
	}
}

// NotifySuccess отправляет голосовую сводку в чат.
func (n *Notifier) NotifySuccess(ctx context.Context, chatID int64, audioPath string) error {
	if err := n.client.SendVoice(ctx, chatID, audioPath); err != nil {
		return fmt.Errorf("send voice: %w", err)
	}

	n.logger.Debug("voice summary delivered", "chat_id", chatID)
	return nil
}

// NotifyFailure отправляет сообщение о неудаче.
func (n *Notifier) NotifyFailure(ctx context.Context, chatID int64, reason string) error {
	if err := n.client.SendMessage(ctx, chatID, reason); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
