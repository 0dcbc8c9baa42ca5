package domain

import (
	"time"
)

// Document — один принятый документ, ожидающий обработки.
//
// Document создаётся когда Capacity Gate пропустил submission
// и содержимое файла скачано во временное хранилище.
// С этого момента файл принадлежит pipeline'у — никто другой
// его не читает и не удаляет.
//
// Жизненный цикл:
//
//	принят → в pending-списке сессии → захвачен в batch → обработан → файл удалён
//
// Удаление файла происходит безусловно, независимо от результата обработки.
type Document struct {
	// UserID — Telegram ID пользователя, приславшего документ.
	UserID int64 `json:"user_id"`

	// ChatID — чат, в который нужно отправить результат.
	ChatID int64 `json:"chat_id"`

	// StoredPath — путь к скачанному файлу во временном хранилище.
	StoredPath string `json:"stored_path"`

	// OriginalName — имя файла, как его прислал пользователь.
	OriginalName string `json:"original_name"`

	// SizeBytes — размер файла в байтах (из метаданных Telegram).
	SizeBytes int64 `json:"size_bytes"`

	// ReceivedAt — время приёма документа.
	ReceivedAt time.Time `json:"received_at"`
}

// SubmissionMeta — метаданные входящего submission до скачивания.
//
// Это то, что видит Capacity Gate: тип, имя и размер. Самого файла
// на этом этапе ещё нет — скачивание происходит только после admit.
type SubmissionMeta struct {
	// MimeType — заявленный MIME-тип документа.
	MimeType string `json:"mime_type"`

	// FileName — имя файла из сообщения.
	FileName string `json:"file_name"`

	// SizeBytes — заявленный размер в байтах.
	SizeBytes int64 `json:"size_bytes"`
}
