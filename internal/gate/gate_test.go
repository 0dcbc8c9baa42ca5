package gate

import (
	"errors"
	"testing"

	"github.com/shaiso/Briefly/internal/domain"
)

func newTestGate() *Gate {
	return New(Config{
		MaxPendingPerUser: 5,
		MaxDocumentBytes:  10 << 20,
	})
}

func TestGate_AcceptsPDF(t *testing.T) {
	g := newTestGate()

	meta := domain.SubmissionMeta{
		MimeType:  "application/pdf",
		FileName:  "report.pdf",
		SizeBytes: 1024,
	}

	if err := g.Check(meta, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGate_AcceptsPDFExtensionWithoutMime(t *testing.T) {
	g := newTestGate()

	// Некоторые клиенты не проставляют MIME — fallback на расширение.
	meta := domain.SubmissionMeta{
		FileName:  "Report.PDF",
		SizeBytes: 1024,
	}

	if err := g.Check(meta, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGate_RejectsUnsupportedType(t *testing.T) {
	g := newTestGate()

	cases := []domain.SubmissionMeta{
		{MimeType: "image/png", FileName: "photo.png", SizeBytes: 10},
		{MimeType: "text/plain", FileName: "notes.pdf", SizeBytes: 10}, // MIME важнее расширения
		{FileName: "archive.zip", SizeBytes: 10},
	}

	for _, meta := range cases {
		err := g.Check(meta, 0)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("%q (%s): expected ErrUnsupportedType, got %v", meta.FileName, meta.MimeType, err)
		}
	}
}

func TestGate_RejectsTooLarge(t *testing.T) {
	g := New(Config{MaxPendingPerUser: 5, MaxDocumentBytes: 100})

	meta := domain.SubmissionMeta{
		MimeType:  "application/pdf",
		FileName:  "big.pdf",
		SizeBytes: 101,
	}

	if err := g.Check(meta, 0); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// Ровно на границе — принимается.
	meta.SizeBytes = 100
	if err := g.Check(meta, 0); err != nil {
		t.Fatalf("size at limit should be accepted, got %v", err)
	}
}

func TestGate_RejectsWhenQueueFull(t *testing.T) {
	g := newTestGate()

	meta := domain.SubmissionMeta{
		MimeType:  "application/pdf",
		FileName:  "doc.pdf",
		SizeBytes: 10,
	}

	if err := g.Check(meta, 4); err != nil {
		t.Fatalf("4 pending of 5 should be accepted, got %v", err)
	}

	if err := g.Check(meta, 5); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestGate_CheckOrder_TypeBeforeSize(t *testing.T) {
	g := New(Config{MaxPendingPerUser: 1, MaxDocumentBytes: 100})

	// Нарушены все три условия — ошибка должна быть про тип.
	meta := domain.SubmissionMeta{
		MimeType:  "image/png",
		FileName:  "photo.png",
		SizeBytes: 1000,
	}

	if err := g.Check(meta, 10); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("type check must run first, got %v", err)
	}
}

func TestGate_Defaults(t *testing.T) {
	g := New(Config{})

	if g.MaxPending() != 5 {
		t.Errorf("default max pending: expected 5, got %d", g.MaxPending())
	}

	meta := domain.SubmissionMeta{
		MimeType:  "application/pdf",
		FileName:  "doc.pdf",
		SizeBytes: 10 << 20,
	}
	if err := g.Check(meta, 0); err != nil {
		t.Errorf("10 MiB should pass default limit, got %v", err)
	}

	meta.SizeBytes = 10<<20 + 1
	if err := g.Check(meta, 0); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge above default limit, got %v", err)
	}
}
