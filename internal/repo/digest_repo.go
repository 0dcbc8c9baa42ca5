package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Briefly/internal/domain"
)

// DigestRepo — репозиторий для работы с digests.
type DigestRepo struct {
	pool *pgxpool.Pool
}

// NewDigestRepo создаёт новый DigestRepo.
func NewDigestRepo(pool *pgxpool.Pool) *DigestRepo {
	return &DigestRepo{pool: pool}
}

// Create создаёт новый digest.
func (r *DigestRepo) Create(ctx context.Context, d *domain.Digest) error {
	query := `
		INSERT INTO digests (id, user_id, chat_id, status, document_count, summary_count,
		                     summary_text, error, started_at, finished_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.UserID,
		d.ChatID,
		d.Status,
		d.DocumentCount,
		d.SummaryCount,
		nullString(d.SummaryText),
		nullString(d.Error),
		d.StartedAt,
		d.FinishedAt,
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}
	return nil
}

// Update обновляет digest после завершения обработки.
func (r *DigestRepo) Update(ctx context.Context, d *domain.Digest) error {
	query := `
		UPDATE digests
		SET status = $2, summary_count = $3, summary_text = $4, error = $5, finished_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		d.ID,
		d.Status,
		d.SummaryCount,
		nullString(d.SummaryText),
		nullString(d.Error),
		d.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update digest: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID возвращает digest по ID.
func (r *DigestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Digest, error) {
	query := `
		SELECT id, user_id, chat_id, status, document_count, summary_count,
		       summary_text, error, started_at, finished_at, created_at
		FROM digests
		WHERE id = $1
	`
	return r.scanDigest(r.pool.QueryRow(ctx, query, id))
}

// List возвращает список digests с фильтрацией.
func (r *DigestRepo) List(ctx context.Context, filter DigestFilter) ([]domain.Digest, error) {
	query := `
		SELECT id, user_id, chat_id, status, document_count, summary_count,
		       summary_text, error, started_at, finished_at, created_at
		FROM digests
		WHERE ($1::bigint IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullInt64(filter.UserID),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list digests: %w", err)
	}
	defer rows.Close()

	var digests []domain.Digest
	for rows.Next() {
		d, err := r.scanDigest(rows)
		if err != nil {
			return nil, err
		}
		digests = append(digests, *d)
	}
	return digests, rows.Err()
}

// --- Helpers ---

// DigestFilter — параметры фильтрации digests.
type DigestFilter struct {
	UserID *int64
	Status domain.DigestStatus
	Limit  int
	Offset int
}

// scanDigest сканирует одну строку в Digest.
func (r *DigestRepo) scanDigest(row pgx.Row) (*domain.Digest, error) {
	var d domain.Digest
	var summaryText *string
	var digestError *string

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.ChatID,
		&d.Status,
		&d.DocumentCount,
		&d.SummaryCount,
		&summaryText,
		&digestError,
		&d.StartedAt,
		&d.FinishedAt,
		&d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan digest: %w", err)
	}

	if summaryText != nil {
		d.SummaryText = *summaryText
	}
	if digestError != nil {
		d.Error = *digestError
	}

	return &d, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullInt64 возвращает nil для nil-указателя или нуля.
func nullInt64(v *int64) *int64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
