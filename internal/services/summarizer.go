package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// Параметры суммаризации, передаваемые модели.
const (
	summaryMaxLength = 150
	summaryMinLength = 50
)

// SummarizerClient — клиент сервиса суммаризации.
type SummarizerClient struct {
	baseURL string
	http    *httpClient
}

// NewSummarizerClient создаёт клиент суммаризации.
func NewSummarizerClient(baseURL string, cfg ClientConfig) *SummarizerClient {
	return &SummarizerClient{
		baseURL: baseURL,
		http:    newHTTPClient(cfg),
	}
}

// summarizeRequest — запрос к сервису суммаризации.
type summarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

// summarizeResponse — ответ сервиса суммаризации.
type summarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

// Summarize строит summary одного куска текста.
//
// preamble прошивается перед текстом — модель получает доменный
// контекст в каждом запросе. Нарезку длинных текстов выполняет
// вызывающий (pipeline), сюда приходят куски в пределах лимита.
func (c *SummarizerClient) Summarize(ctx context.Context, text, preamble string) (string, error) {
	req := summarizeRequest{
		Text:      preamble + text,
		MaxLength: summaryMaxLength,
		MinLength: summaryMinLength,
	}

	var resp summarizeResponse
	if err := c.http.postJSON(ctx, c.baseURL+"/summarize", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	if resp.SummaryText == "" {
		return "", fmt.Errorf("%w: empty summary", ErrSummarizationFailed)
	}

	return resp.SummaryText, nil
}

// unmarshalJSON — общий helper декодирования ответов collaborator-сервисов.
func unmarshalJSON(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
