// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (gate, batcher, telegram, storage, repo)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - webhook_handler.go — приём обновлений Telegram
//   - digest_handler.go  — обработчики для /digests
//   - session_handler.go — обработчики для /sessions
//
// Вебхук — единственная точка входа документов; /api/v1 — admin/read-only
// endpoints для истории дайджестов и живых сессий.
package api
