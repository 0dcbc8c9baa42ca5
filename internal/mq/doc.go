// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - document.received — документ принят и сохранён
//   - digest.completed  — дайджест обработан (успех или неудача)
//
// Exchanges:
//   - briefly.documents — события документов
//   - briefly.digests   — события дайджестов
//   - briefly.dlq       — dead letter queue
package mq
