package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// fastClientConfig — конфигурация без backoff-пауз для тестов.
func fastClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:      time.Second,
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- ExtractorClient ---

func TestExtractorClient_Extract(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("unexpected content type: %s", ct)
		}
		received, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(map[string]string{"text": "extracted text"})
	}))
	defer server.Close()

	client := NewExtractorClient(server.URL, fastClientConfig())
	path := writeTempFile(t, "%PDF-1.4 fake")

	text, err := client.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "extracted text" {
		t.Errorf("unexpected text: %q", text)
	}
	if string(received) != "%PDF-1.4 fake" {
		t.Errorf("server should receive document bytes, got %q", received)
	}
}

func TestExtractorClient_MissingFile(t *testing.T) {
	client := NewExtractorClient("http://unused", fastClientConfig())

	_, err := client.Extract(context.Background(), "/nonexistent/doc.pdf")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractorClient_EmptyTextIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer server.Close()

	client := NewExtractorClient(server.URL, fastClientConfig())
	path := writeTempFile(t, "scan without text layer")

	text, err := client.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("empty text must not be an error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

// --- SummarizerClient ---

func TestSummarizerClient_Summarize(t *testing.T) {
	var received summarizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summarize" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(map[string]string{"summary_text": "brief summary"})
	}))
	defer server.Close()

	client := NewSummarizerClient(server.URL, fastClientConfig())

	summary, err := client.Summarize(context.Background(), "long document text", "Context: ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "brief summary" {
		t.Errorf("unexpected summary: %q", summary)
	}

	// Преамбула прошивается перед текстом.
	if received.Text != "Context: long document text" {
		t.Errorf("unexpected request text: %q", received.Text)
	}
	if received.MaxLength != summaryMaxLength || received.MinLength != summaryMinLength {
		t.Errorf("unexpected length params: %d/%d", received.MaxLength, received.MinLength)
	}
}

func TestSummarizerClient_EmptySummaryIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"summary_text": ""})
	}))
	defer server.Close()

	client := NewSummarizerClient(server.URL, fastClientConfig())

	_, err := client.Summarize(context.Background(), "text", "")
	if !errors.Is(err, ErrSummarizationFailed) {
		t.Fatalf("expected ErrSummarizationFailed, got %v", err)
	}
}

// --- TTSClient ---

type captureStore struct {
	saved []byte
	path  string
}

func (s *captureStore) Save(r io.Reader, _ string) (string, error) {
	s.saved, _ = io.ReadAll(r)
	return s.path, nil
}

func TestTTSClient_Synthesize(t *testing.T) {
	audio := []byte{0x4f, 0x67, 0x67, 0x53} // OggS
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req synthesizeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "summary text" {
			t.Errorf("unexpected text: %q", req.Text)
		}
		w.Write(audio)
	}))
	defer server.Close()

	store := &captureStore{path: "/tmp/voice.ogg"}
	client := NewTTSClient(server.URL, store, fastClientConfig())

	path, err := client.Synthesize(context.Background(), "summary text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/voice.ogg" {
		t.Errorf("unexpected path: %s", path)
	}
	if !bytes.Equal(store.saved, audio) {
		t.Errorf("store should receive audio bytes as-is, got %v", store.saved)
	}
}

func TestTTSClient_EmptyAudioIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTTSClient(server.URL, &captureStore{}, fastClientConfig())

	_, err := client.Synthesize(context.Background(), "text")
	if !errors.Is(err, ErrSynthesisFailed) {
		t.Fatalf("expected ErrSynthesisFailed, got %v", err)
	}
}

// --- Retry behaviour ---

func TestHTTPClient_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"summary_text": "ok after retries"})
	}))
	defer server.Close()

	client := NewSummarizerClient(server.URL, fastClientConfig())

	summary, err := client.Summarize(context.Background(), "text", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "ok after retries" {
		t.Errorf("unexpected summary: %q", summary)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestHTTPClient_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewSummarizerClient(server.URL, fastClientConfig())

	_, err := client.Summarize(context.Background(), "text", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", calls.Load())
	}
}

func TestBackoff(t *testing.T) {
	initial := time.Second
	max := 30 * time.Second

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{6, 30 * time.Second}, // capped
	}

	for _, tc := range cases {
		if got := backoff(tc.attempt, initial, max); got != tc.want {
			t.Errorf("backoff(%d): expected %s, got %s", tc.attempt, tc.want, got)
		}
	}
}
