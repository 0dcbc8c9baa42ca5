package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/gate"
	"github.com/shaiso/Briefly/internal/storage"
	"github.com/shaiso/Briefly/internal/telegram"
)

const testToken = "test-token"

// noopProcessor — Processor, который ничего не делает.
type noopProcessor struct{}

func (noopProcessor) Process(context.Context, batcher.Batch) {}

// fakeTelegram — fake Bot API сервер: отдаёт файлы и записывает
// отправленные сообщения.
type fakeTelegram struct {
	mu       sync.Mutex
	messages []string // тексты sendMessage
	fileBody string   // содержимое отдаваемого файла
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getFile"):
			json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"result": map[string]any{"file_id": "f1", "file_path": "documents/file_1.pdf"},
			})

		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var params struct {
				Text string `json:"text"`
			}
			json.NewDecoder(r.Body).Decode(&params)
			f.mu.Lock()
			f.messages = append(f.messages, params.Text)
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]any{"ok": true})

		case strings.HasPrefix(r.URL.Path, "/file/bot"+testToken+"/"):
			io.WriteString(w, f.fileBody)

		default:
			t.Errorf("unexpected telegram call: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeTelegram) lastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

type testEnv struct {
	mux     *http.ServeMux
	batcher *batcher.Batcher
	tg      *fakeTelegram
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tg := &fakeTelegram{fileBody: "%PDF-1.4 content"}
	tgServer := httptest.NewServer(tg.handler(t))
	t.Cleanup(tgServer.Close)

	store, err := storage.New(t.TempDir(), logger)
	if err != nil {
		t.Fatal(err)
	}

	b := batcher.New(batcher.Config{
		Window:     time.Hour, // в тестах batch не должен сработать
		Processor:  noopProcessor{},
		MaxPending: 5,
		Logger:     logger,
	})
	t.Cleanup(b.Stop)

	handler := NewHandler(Config{
		Gate:    gate.New(gate.Config{MaxPendingPerUser: 5, MaxDocumentBytes: 1 << 20}),
		Batcher: b,
		Telegram: telegram.New(telegram.Config{
			Token:   testToken,
			BaseURL: tgServer.URL,
			Logger:  logger,
		}),
		Store:  store,
		Logger: logger,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testEnv{mux: mux, batcher: b, tg: tg}
}

func postUpdate(t *testing.T, env *testEnv, update map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(update)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func documentUpdate(userID int64, fileName, mimeType string, size int64) map[string]any {
	return map[string]any{
		"update_id": 1,
		"message": map[string]any{
			"message_id": 10,
			"from":       map[string]any{"id": userID},
			"chat":       map[string]any{"id": userID},
			"document": map[string]any{
				"file_id":   "f1",
				"file_name": fileName,
				"mime_type": mimeType,
				"file_size": size,
			},
		},
	}
}

func TestWebhook_AcceptsDocument(t *testing.T) {
	env := newTestEnv(t)

	rec := postUpdate(t, env, documentUpdate(42, "report.pdf", "application/pdf", 1000))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got := env.batcher.PendingCount(42); got != 1 {
		t.Fatalf("expected 1 pending document, got %d", got)
	}
	if msg := env.tg.lastMessage(); msg != "" {
		t.Errorf("accepted document must not trigger a reply, got %q", msg)
	}
}

func TestWebhook_RejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t)

	rec := postUpdate(t, env, documentUpdate(42, "photo.png", "image/png", 1000))
	if rec.Code != http.StatusOK {
		t.Fatalf("rejection must still answer 200, got %d", rec.Code)
	}

	if got := env.batcher.PendingCount(42); got != 0 {
		t.Errorf("rejected document must not enter session, got %d pending", got)
	}
	if msg := env.tg.lastMessage(); msg != msgUnsupportedType {
		t.Errorf("expected %q reply, got %q", msgUnsupportedType, msg)
	}
}

func TestWebhook_RejectsTooLarge(t *testing.T) {
	env := newTestEnv(t)

	rec := postUpdate(t, env, documentUpdate(42, "big.pdf", "application/pdf", 2<<20))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if msg := env.tg.lastMessage(); msg != msgTooLarge {
		t.Errorf("expected %q reply, got %q", msgTooLarge, msg)
	}
}

func TestWebhook_RejectsWhenQueueFull(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		postUpdate(t, env, documentUpdate(42, fmt.Sprintf("doc%d.pdf", i), "application/pdf", 100))
	}
	if got := env.batcher.PendingCount(42); got != 5 {
		t.Fatalf("expected 5 pending, got %d", got)
	}

	postUpdate(t, env, documentUpdate(42, "extra.pdf", "application/pdf", 100))

	if got := env.batcher.PendingCount(42); got != 5 {
		t.Errorf("6th document must be rejected, got %d pending", got)
	}
	if msg := env.tg.lastMessage(); msg != msgQueueFull {
		t.Errorf("expected %q reply, got %q", msgQueueFull, msg)
	}

	// Другой пользователь принимается как обычно.
	postUpdate(t, env, documentUpdate(7, "ok.pdf", "application/pdf", 100))
	if got := env.batcher.PendingCount(7); got != 1 {
		t.Errorf("other user must not be affected, got %d pending", got)
	}
}

func TestWebhook_StartCommand(t *testing.T) {
	env := newTestEnv(t)

	rec := postUpdate(t, env, map[string]any{
		"update_id": 1,
		"message": map[string]any{
			"message_id": 10,
			"from":       map[string]any{"id": int64(42)},
			"chat":       map[string]any{"id": int64(42)},
			"text":       "/start",
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if msg := env.tg.lastMessage(); msg != msgStart {
		t.Errorf("expected greeting, got %q", msg)
	}
}

func TestWebhook_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessions_Endpoints(t *testing.T) {
	env := newTestEnv(t)

	postUpdate(t, env, documentUpdate(42, "doc.pdf", "application/pdf", 100))

	// Снимок конкретной сессии.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/42", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data SessionResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.UserID != 42 || resp.Data.PendingCount != 1 {
		t.Errorf("unexpected session: %+v", resp.Data)
	}
	if resp.Data.Phase != "ACCUMULATING" {
		t.Errorf("expected ACCUMULATING, got %s", resp.Data.Phase)
	}

	// Несуществующая сессия — 404.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/999", nil)
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestDigests_UnavailableWithoutRepo(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/digests", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without digest repo, got %d", rec.Code)
	}
}
