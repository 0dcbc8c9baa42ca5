package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		Token:   "token",
		BaseURL: server.URL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestClient_GetFile(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/getFile" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"file_id": "f1", "file_path": "documents/file_1.pdf"},
		})
	})

	file, err := client.GetFile(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if file.FilePath != "documents/file_1.pdf" {
		t.Errorf("unexpected file_path: %s", file.FilePath)
	}
}

func TestClient_GetFileAPIFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"description": "Bad Request: file not found",
		})
	})

	_, err := client.GetFile(context.Background(), "missing")
	if !errors.Is(err, ErrAPIFailure) {
		t.Fatalf("expected ErrAPIFailure, got %v", err)
	}
}

func TestClient_GetFileWithoutPath(t *testing.T) {
	// Bot API может вернуть ok без file_path — файл недоступен для скачивания.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"file_id": "f1"},
		})
	})

	_, err := client.GetFile(context.Background(), "f1")
	if !errors.Is(err, ErrFileUnavailable) {
		t.Fatalf("expected ErrFileUnavailable, got %v", err)
	}
}

func TestClient_Download(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/bottoken/documents/file_1.pdf" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "%PDF-1.4")
	})

	body, err := client.Download(context.Background(), "documents/file_1.pdf")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("unexpected body: %q", data)
	}
}

func TestClient_DownloadMissingFile(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Download(context.Background(), "documents/gone.pdf")
	if !errors.Is(err, ErrFileUnavailable) {
		t.Fatalf("expected ErrFileUnavailable, got %v", err)
	}
}

func TestClient_SendVoice(t *testing.T) {
	var gotChatID, gotFileName string
	var gotAudio []byte

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendVoice" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotChatID = r.FormValue("chat_id")

		file, header, err := r.FormFile("voice")
		if err != nil {
			t.Fatalf("voice file: %v", err)
		}
		defer file.Close()
		gotFileName = header.Filename
		gotAudio, _ = io.ReadAll(file)

		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	voicePath := filepath.Join(t.TempDir(), "summary.ogg")
	if err := os.WriteFile(voicePath, []byte("OggS audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := client.SendVoice(context.Background(), 42, voicePath); err != nil {
		t.Fatalf("SendVoice: %v", err)
	}

	if gotChatID != "42" {
		t.Errorf("expected chat_id 42, got %q", gotChatID)
	}
	if gotFileName != "summary.ogg" {
		t.Errorf("expected file name summary.ogg, got %q", gotFileName)
	}
	if string(gotAudio) != "OggS audio" {
		t.Errorf("unexpected audio body: %q", gotAudio)
	}
}
