package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Default configuration values.
const (
	defaultTimeout      = 60 * time.Second
	defaultMaxAttempts  = 3
	defaultInitialDelay = time.Second
	defaultMaxDelay     = 30 * time.Second
)

// httpClient — общий HTTP-транспорт collaborator-клиентов с retry.
type httpClient struct {
	client       *http.Client
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	logger       *slog.Logger
}

// ClientConfig — общая конфигурация collaborator-клиента.
type ClientConfig struct {
	// Timeout — таймаут одного запроса (default: 60s).
	Timeout time.Duration

	// MaxAttempts — максимум попыток, включая первую (default: 3).
	MaxAttempts int

	// InitialDelay — начальная задержка backoff (default: 1s).
	InitialDelay time.Duration

	// MaxDelay — максимальная задержка backoff (default: 30s).
	MaxDelay time.Duration

	// Logger
	Logger *slog.Logger
}

// newHTTPClient создаёт транспорт с default-значениями.
func newHTTPClient(cfg ClientConfig) *httpClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	initialDelay := cfg.InitialDelay
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}

	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &httpClient{
		client:       &http.Client{Timeout: timeout},
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		logger:       logger,
	}
}

// post выполняет POST с retry. Возвращает тело успешного ответа.
//
// Retry при инфраструктурных ошибках (сеть, таймаут) и HTTP 5xx.
// 4xx — не retriable: запрос некорректен и повтор не поможет.
func (c *httpClient) post(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := backoff(attempt-1, c.initialDelay, c.maxDelay)
			c.logger.Debug("retrying request", "url", url, "attempt", attempt, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		respBody, retriable, err := c.once(ctx, url, contentType, body)
		if err == nil {
			return respBody, nil
		}

		lastErr = err
		if !retriable {
			break
		}
	}

	return nil, lastErr
}

// once выполняет один запрос. Второй результат — можно ли retry.
func (c *httpClient) once(ctx context.Context, url, contentType string, body []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		// Инфраструктурная ошибка — всегда retriable.
		return nil, true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	if resp.StatusCode >= 400 {
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	return respBody, false, nil
}

// postJSON — POST JSON-тела с декодированием JSON-ответа.
func (c *httpClient) postJSON(ctx context.Context, url string, reqBody, respOut any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, url, "application/json", data)
	if err != nil {
		return err
	}

	if respOut != nil {
		if err := json.Unmarshal(respBody, respOut); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// backoff вычисляет exponential-задержку перед попыткой attempt+1.
func backoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	delay := initialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay > maxDelay {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
