package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Briefly/internal/batcher"
	"github.com/shaiso/Briefly/internal/domain"
)

// --- Fakes ---

type fakeExtractor struct {
	texts map[string]string // path → text
	errs  map[string]error  // path → error
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (string, error) {
	if err := f.errs[path]; err != nil {
		return "", err
	}
	return f.texts[path], nil
}

type fakeSummarizer struct {
	mu        sync.Mutex
	chunks    []string
	preambles []string
	err       error
}

func (f *fakeSummarizer) Summarize(_ context.Context, text, preamble string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.chunks = append(f.chunks, text)
	f.preambles = append(f.preambles, preamble)
	return "sum(" + text + ")", nil
}

type fakeSynthesizer struct {
	audioPath string
	err       error
	calls     int
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.audioPath, nil
}

type fakeNotifier struct {
	successes []string // audio paths
	failures  []string // reasons
}

func (f *fakeNotifier) NotifySuccess(_ context.Context, _ int64, audioPath string) error {
	f.successes = append(f.successes, audioPath)
	return nil
}

func (f *fakeNotifier) NotifyFailure(_ context.Context, _ int64, reason string) error {
	f.failures = append(f.failures, reason)
	return nil
}

type fakeReleaser struct {
	mu      sync.Mutex
	removed map[string]int
}

func newFakeReleaser() *fakeReleaser {
	return &fakeReleaser{removed: map[string]int{}}
}

func (f *fakeReleaser) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed[path]++
	return nil
}

type fakeHistory struct {
	created []domain.Digest
	updated []domain.Digest
}

func (f *fakeHistory) Create(_ context.Context, d *domain.Digest) error {
	f.created = append(f.created, *d)
	return nil
}

func (f *fakeHistory) Update(_ context.Context, d *domain.Digest) error {
	f.updated = append(f.updated, *d)
	return nil
}

type fakeEvents struct {
	published []domain.Digest
}

func (f *fakeEvents) PublishDigestCompleted(_ context.Context, d *domain.Digest) error {
	f.published = append(f.published, *d)
	return nil
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDoc(path, name string) domain.Document {
	return domain.Document{
		UserID:       42,
		ChatID:       42,
		StoredPath:   path,
		OriginalName: name,
		SizeBytes:    100,
		ReceivedAt:   time.Now(),
	}
}

func testBatch(docs ...domain.Document) batcher.Batch {
	return batcher.Batch{UserID: 42, ChatID: 42, Documents: docs}
}

// --- Tests ---

func TestPipeline_SuccessfulBatch(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"/tmp/a": "first document text",
		"/tmp/b": "second document text",
	}}
	summarizer := &fakeSummarizer{}
	synth := &fakeSynthesizer{audioPath: "/tmp/summary.ogg"}
	notifier := &fakeNotifier{}
	releaser := newFakeReleaser()
	history := &fakeHistory{}
	events := &fakeEvents{}

	p := New(Config{
		Extractor:   extractor,
		Summarizer:  summarizer,
		Synthesizer: synth,
		Notifier:    notifier,
		Store:       releaser,
		History:     history,
		Events:      events,
		Preamble:    "context: ",
		Logger:      testLogger(),
	})

	p.Process(context.Background(), testBatch(
		testDoc("/tmp/a", "a.pdf"),
		testDoc("/tmp/b", "b.pdf"),
	))

	if len(notifier.successes) != 1 {
		t.Fatalf("expected 1 success notification, got %d", len(notifier.successes))
	}
	if notifier.successes[0] != "/tmp/summary.ogg" {
		t.Errorf("unexpected audio path: %s", notifier.successes[0])
	}
	if len(notifier.failures) != 0 {
		t.Errorf("unexpected failure notifications: %v", notifier.failures)
	}

	// Преамбула доходит до суммаризатора.
	for _, pre := range summarizer.preambles {
		if pre != "context: " {
			t.Errorf("unexpected preamble: %q", pre)
		}
	}

	// Каждый документ и аудио освобождены ровно один раз.
	for _, path := range []string{"/tmp/a", "/tmp/b", "/tmp/summary.ogg"} {
		if releaser.removed[path] != 1 {
			t.Errorf("%s: expected exactly 1 release, got %d", path, releaser.removed[path])
		}
	}

	// История: Create с PROCESSING, Update с SUCCEEDED.
	if len(history.created) != 1 || history.created[0].Status != domain.DigestStatusProcessing {
		t.Errorf("unexpected create record: %+v", history.created)
	}
	if len(history.updated) != 1 || history.updated[0].Status != domain.DigestStatusSucceeded {
		t.Fatalf("unexpected update record: %+v", history.updated)
	}

	final := history.updated[0]
	if final.SummaryCount != 2 {
		t.Errorf("expected 2 summaries, got %d", final.SummaryCount)
	}
	// Summary каждого документа с заголовком, объединены переводом строки.
	if got := strings.Count(final.SummaryText, summaryHeader); got != 2 {
		t.Errorf("expected 2 summary headers, got %d in %q", got, final.SummaryText)
	}

	if len(events.published) != 1 || events.published[0].Status != domain.DigestStatusSucceeded {
		t.Errorf("unexpected published events: %+v", events.published)
	}
}

func TestPipeline_PartialFailureStillSucceeds(t *testing.T) {
	extractor := &fakeExtractor{
		texts: map[string]string{"/tmp/a": "good text"},
		errs:  map[string]error{"/tmp/b": errors.New("corrupt pdf")},
	}
	summarizer := &fakeSummarizer{}
	synth := &fakeSynthesizer{audioPath: "/tmp/summary.ogg"}
	notifier := &fakeNotifier{}
	releaser := newFakeReleaser()
	history := &fakeHistory{}

	p := New(Config{
		Extractor:   extractor,
		Summarizer:  summarizer,
		Synthesizer: synth,
		Notifier:    notifier,
		Store:       releaser,
		History:     history,
		Logger:      testLogger(),
	})

	p.Process(context.Background(), testBatch(
		testDoc("/tmp/a", "a.pdf"),
		testDoc("/tmp/b", "b.pdf"),
	))

	if len(notifier.successes) != 1 {
		t.Fatalf("batch with one good document must succeed, failures: %v", notifier.failures)
	}

	final := history.updated[0]
	if final.Status != domain.DigestStatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", final.Status)
	}
	if final.SummaryCount != 1 {
		t.Errorf("expected 1 summary, got %d", final.SummaryCount)
	}

	// Файл упавшего документа освобождён наравне с успешным.
	if releaser.removed["/tmp/b"] != 1 {
		t.Errorf("failed document must still be released, got %d", releaser.removed["/tmp/b"])
	}
}

func TestPipeline_AllFailedNotifiesFailure(t *testing.T) {
	extractor := &fakeExtractor{errs: map[string]error{
		"/tmp/a": errors.New("corrupt"),
		"/tmp/b": errors.New("corrupt"),
	}}
	synth := &fakeSynthesizer{audioPath: "/tmp/summary.ogg"}
	notifier := &fakeNotifier{}
	releaser := newFakeReleaser()
	history := &fakeHistory{}

	p := New(Config{
		Extractor:   extractor,
		Summarizer:  &fakeSummarizer{},
		Synthesizer: synth,
		Notifier:    notifier,
		Store:       releaser,
		History:     history,
		Logger:      testLogger(),
	})

	p.Process(context.Background(), testBatch(
		testDoc("/tmp/a", "a.pdf"),
		testDoc("/tmp/b", "b.pdf"),
	))

	if len(notifier.failures) != 1 {
		t.Fatalf("expected 1 failure notification, got %d", len(notifier.failures))
	}
	if notifier.failures[0] != failureReason {
		t.Errorf("unexpected failure text: %q", notifier.failures[0])
	}
	if synth.calls != 0 {
		t.Error("synthesis must not run for an empty summary set")
	}
	if history.updated[0].Status != domain.DigestStatusFailed {
		t.Errorf("expected FAILED, got %s", history.updated[0].Status)
	}

	// Освобождение — безусловное.
	if releaser.removed["/tmp/a"] != 1 || releaser.removed["/tmp/b"] != 1 {
		t.Errorf("all documents must be released: %v", releaser.removed)
	}
}

func TestPipeline_EmptyTextSkippedWithoutError(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"/tmp/a": "   \n\t ",
		"/tmp/b": "real text",
	}}
	summarizer := &fakeSummarizer{}
	notifier := &fakeNotifier{}
	history := &fakeHistory{}

	p := New(Config{
		Extractor:   extractor,
		Summarizer:  summarizer,
		Synthesizer: &fakeSynthesizer{audioPath: "/tmp/s.ogg"},
		Notifier:    notifier,
		Store:       newFakeReleaser(),
		History:     history,
		Logger:      testLogger(),
	})

	p.Process(context.Background(), testBatch(
		testDoc("/tmp/a", "empty.pdf"),
		testDoc("/tmp/b", "b.pdf"),
	))

	if len(notifier.successes) != 1 {
		t.Fatal("batch must succeed on the non-empty document")
	}
	if history.updated[0].SummaryCount != 1 {
		t.Errorf("expected 1 summary, got %d", history.updated[0].SummaryCount)
	}
}

func TestPipeline_SynthesisFailure(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/tmp/a": "text"}}
	notifier := &fakeNotifier{}
	releaser := newFakeReleaser()
	history := &fakeHistory{}

	p := New(Config{
		Extractor:   extractor,
		Summarizer:  &fakeSummarizer{},
		Synthesizer: &fakeSynthesizer{err: errors.New("tts down")},
		Notifier:    notifier,
		Store:       releaser,
		History:     history,
		Logger:      testLogger(),
	})

	p.Process(context.Background(), testBatch(testDoc("/tmp/a", "a.pdf")))

	if len(notifier.successes) != 0 {
		t.Error("no success notification expected")
	}
	if len(notifier.failures) != 1 || notifier.failures[0] != synthFailureReason {
		t.Errorf("unexpected failure notifications: %v", notifier.failures)
	}
	if history.updated[0].Status != domain.DigestStatusFailed {
		t.Errorf("expected FAILED, got %s", history.updated[0].Status)
	}
	if releaser.removed["/tmp/a"] != 1 {
		t.Errorf("document must be released despite synthesis failure")
	}
}

func TestPipeline_LongTextIsChunked(t *testing.T) {
	// 25 рун при chunkRunes=10 → 3 куска: 10+10+5.
	text := strings.Repeat("абвгд", 5)
	extractor := &fakeExtractor{texts: map[string]string{"/tmp/a": text}}
	summarizer := &fakeSummarizer{}

	p := New(Config{
		Extractor:   extractor,
		Summarizer:  summarizer,
		Synthesizer: &fakeSynthesizer{audioPath: "/tmp/s.ogg"},
		Notifier:    &fakeNotifier{},
		Store:       newFakeReleaser(),
		ChunkRunes:  10,
		Logger:      testLogger(),
	})

	p.Process(context.Background(), testBatch(testDoc("/tmp/a", "a.pdf")))

	if len(summarizer.chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(summarizer.chunks), summarizer.chunks)
	}

	// Куски в исходном порядке и без потерь.
	if strings.Join(summarizer.chunks, "") != text {
		t.Errorf("chunks must reassemble the original text")
	}
}

func TestSplitChunks(t *testing.T) {
	cases := []struct {
		text     string
		maxRunes int
		want     []string
	}{
		{"short", 10, []string{"short"}},
		{"exactlyten", 10, []string{"exactlyten"}},
		{"elevenchars", 10, []string{"elevenchar", "s"}},
		{"абвгдеёжзий", 5, []string{"абвгд", "еёжзи", "й"}}, // руны, не байты
	}

	for _, tc := range cases {
		got := splitChunks(tc.text, tc.maxRunes)
		if len(got) != len(tc.want) {
			t.Errorf("splitChunks(%q, %d): expected %d chunks, got %v", tc.text, tc.maxRunes, len(tc.want), got)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitChunks(%q, %d)[%d]: expected %q, got %q", tc.text, tc.maxRunes, i, tc.want[i], got[i])
			}
		}
	}
}
