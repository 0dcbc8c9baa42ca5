// Package telegram — минимальный клиент Telegram Bot API.
//
// Структура:
//   - client.go   — вызовы Bot API (getFile, sendMessage, sendVoice) и скачивание файлов
//   - notifier.go — доставка результатов дайджеста пользователю
//   - update.go   — типы вебхука (Update, Message, Document)
package telegram
