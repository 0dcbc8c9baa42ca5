package services

import "errors"

// Ошибки collaborator-клиентов.
var (
	// ErrExtractionFailed — не удалось извлечь текст документа.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrSummarizationFailed — не удалось получить summary.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrSynthesisFailed — не удалось синтезировать речь.
	ErrSynthesisFailed = errors.New("synthesis failed")
)
