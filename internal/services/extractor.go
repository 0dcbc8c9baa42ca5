package services

import (
	"context"
	"fmt"
	"os"
)

// ExtractorClient — клиент сервиса извлечения текста.
//
// Отправляет содержимое документа как application/pdf и получает
// извлечённый текст. Пустой текст без ошибки — валидный ответ
// (скан без текстового слоя).
type ExtractorClient struct {
	baseURL string
	http    *httpClient
}

// NewExtractorClient создаёт клиент извлечения текста.
func NewExtractorClient(baseURL string, cfg ClientConfig) *ExtractorClient {
	return &ExtractorClient{
		baseURL: baseURL,
		http:    newHTTPClient(cfg),
	}
}

// extractResponse — ответ сервиса извлечения.
type extractResponse struct {
	Text string `json:"text"`
}

// Extract извлекает текст из сохранённого документа.
//
// Любая невозможность получить текст (файл пропал, сервис недоступен,
// документ нечитаем) возвращается как обёрнутый ErrExtractionFailed.
func (c *ExtractorClient) Extract(ctx context.Context, storedPath string) (string, error) {
	data, err := os.ReadFile(storedPath)
	if err != nil {
		return "", fmt.Errorf("%w: read document: %v", ErrExtractionFailed, err)
	}

	respBody, err := c.http.post(ctx, c.baseURL+"/extract", "application/pdf", data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var resp extractResponse
	if err := unmarshalJSON(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return resp.Text, nil
}
