package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Briefly/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeDocumentReceived MessageType = "document.received"
	MessageTypeDigestCompleted  MessageType = "digest.completed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// DocumentReceivedPayload — payload для сообщения о принятом документе.
type DocumentReceivedPayload struct {
	UserID       int64     `json:"user_id"`
	ChatID       int64     `json:"chat_id"`
	StoredPath   string    `json:"stored_path"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	ReceivedAt   time.Time `json:"received_at"`
}

// DigestCompletedPayload — payload для сообщения о завершённом дайджесте.
type DigestCompletedPayload struct {
	DigestID      uuid.UUID `json:"digest_id"`
	UserID        int64     `json:"user_id"`
	ChatID        int64     `json:"chat_id"`
	Status        string    `json:"status"` // SUCCEEDED или FAILED
	DocumentCount int       `json:"document_count"`
	SummaryCount  int       `json:"summary_count"`
	Error         string    `json:"error,omitempty"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishDocumentReceived публикует событие о принятом документе.
// Потребитель: альтернативный intake (см. cmd/briefly-bot).
func (p *Publisher) PublishDocumentReceived(ctx context.Context, doc domain.Document) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeDocumentReceived,
		Payload: DocumentReceivedPayload{
			UserID:       doc.UserID,
			ChatID:       doc.ChatID,
			StoredPath:   doc.StoredPath,
			OriginalName: doc.OriginalName,
			SizeBytes:    doc.SizeBytes,
			ReceivedAt:   doc.ReceivedAt,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeDocuments, RoutingKeyReceived, msg)
}

// PublishDigestCompleted публикует событие о завершённом дайджесте.
// Потребители: внешние системы (аналитика, алерты).
func (p *Publisher) PublishDigestCompleted(ctx context.Context, d *domain.Digest) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeDigestCompleted,
		Payload: DigestCompletedPayload{
			DigestID:      d.ID,
			UserID:        d.UserID,
			ChatID:        d.ChatID,
			Status:        string(d.Status),
			DocumentCount: d.DocumentCount,
			SummaryCount:  d.SummaryCount,
			Error:         d.Error,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeDigests, RoutingKeyCompleted, msg)
}
