// Package telemetry — наблюдаемость Briefly.
//
// Содержит:
//   - logging.go — настройка структурированного логирования (log/slog)
//     и helpers для прокидывания логгера через context
//   - metrics.go — prometheus-метрики (admission, digests, таймеры)
//
// Логгер настраивается переменными окружения LOG_LEVEL и LOG_FORMAT.
// Метрики экспортируются promhttp-handler'ом в main.
package telemetry
