package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// AudioStore сохраняет синтезированное аудио во временное хранилище.
// Реализация: storage.Store.
type AudioStore interface {
	Save(r io.Reader, name string) (string, error)
}

// TTSClient — клиент сервиса синтеза речи.
//
// Получает аудио (OGG) от сервиса и сразу сохраняет его во временное
// хранилище: наружу уходит только путь, освобождение — за вызывающим.
type TTSClient struct {
	baseURL string
	http    *httpClient
	store   AudioStore
}

// NewTTSClient создаёт клиент синтеза речи.
func NewTTSClient(baseURL string, store AudioStore, cfg ClientConfig) *TTSClient {
	return &TTSClient{
		baseURL: baseURL,
		http:    newHTTPClient(cfg),
		store:   store,
	}
}

// synthesizeRequest — запрос к сервису синтеза.
type synthesizeRequest struct {
	Text string `json:"text"`
}

// Synthesize синтезирует речь и возвращает путь к аудиофайлу.
func (c *TTSClient) Synthesize(ctx context.Context, text string) (string, error) {
	data, err := json.Marshal(synthesizeRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrSynthesisFailed, err)
	}

	audio, err := c.http.post(ctx, c.baseURL+"/synthesize", "application/json", data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio response", ErrSynthesisFailed)
	}

	path, err := c.store.Save(bytes.NewReader(audio), "summary.ogg")
	if err != nil {
		return "", fmt.Errorf("%w: save audio: %v", ErrSynthesisFailed, err)
	}

	return path, nil
}
