// Package storage — временное файловое хранилище документов и аудио.
//
// Файл принадлежит pipeline'у от приёма до освобождения; никто другой
// его не читает и не пишет. Janitor подчищает осиротевшие файлы
// (остатки после аварийного завершения) по cron-расписанию.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store — временное хранилище в каталоге на локальном диске.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New создаёт Store, гарантируя существование каталога.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &Store{dir: dir, logger: logger}, nil
}

// Dir возвращает корневой каталог хранилища.
func (s *Store) Dir() string {
	return s.dir
}

// Save сохраняет содержимое r в новый файл и возвращает его путь.
//
// Имя файла — uuid-префикс плюс безопасное базовое имя оригинала:
// одновременные загрузки одноимённых файлов не конфликтуют.
func (s *Store) Save(r io.Reader, name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = "document"
	}

	path := filepath.Join(s.dir, uuid.New().String()+"_"+base)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close file: %w", err)
	}

	return path, nil
}

// Remove освобождает файл. Отсутствующий файл — не ошибка:
// освобождение идемпотентно относительно уже исчезнувших файлов.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Sweep удаляет файлы старше olderThan. Возвращает количество удалённых.
//
// Подчищает осиротевшие файлы после аварийных завершений; живые файлы
// batch'ей в обработке моложе порога и не задеваются.
func (s *Store) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read storage dir: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to sweep orphaned file", "path", path, "error", err)
			continue
		}
		removed++
	}

	return removed, nil
}
