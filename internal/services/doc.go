// Package services — HTTP-клиенты внешних collaborator-сервисов.
//
// # Обзор
//
// Извлечение текста, суммаризация и синтез речи — чистые функции без
// разделяемого состояния, делегированные внешним сервисам. Пакет
// содержит их клиентов:
//
//   - ExtractorClient  — POST документа → извлечённый текст
//   - SummarizerClient — POST текста с преамбулой → condensed summary
//   - TTSClient        — POST текста → аудиофайл во временном хранилище
//
// # Retry
//
// Политика timeout/retry живёт здесь, на стороне collaborator'а:
// pipeline не накладывает общий дедлайн на обработку batch'а.
// Все клиенты используют ограниченный in-process retry
// с exponential backoff для инфраструктурных ошибок и HTTP 5xx.
//
// # Ошибки
//
// Клиенты не паникуют на I/O: любая невозможность получить результат
// возвращается обёрнутой sentinel-ошибкой пакета (ErrExtractionFailed,
// ErrSummarizationFailed, ErrSynthesisFailed). Pipeline интерпретирует
// их как per-item сбой и продолжает batch.
package services
