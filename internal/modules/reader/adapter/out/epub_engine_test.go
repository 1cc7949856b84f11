package out_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	readerout "shiori/internal/modules/reader/adapter/out"
	"shiori/internal/modules/reader/domain"
	readerport "shiori/internal/modules/reader/port/out"
	"shiori/internal/platform/epubmeta/epubtest"
	apperrors "shiori/internal/platform/errors"
	"shiori/internal/platform/logging"
)

type recordingSurface struct {
	mu            sync.Mutex
	width, height int
	frames        []string
}

func (s *recordingSurface) Size() (int, int) { return s.width, s.height }

func (s *recordingSurface) Paint(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
}

func (s *recordingSurface) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1]
}

func longChapter(prefix string, n int) string {
	paras := make([]string, n)
	for i := range paras {
		paras[i] = fmt.Sprintf("%s paragraph %d with enough words to wrap across the column.", prefix, i+1)
	}
	return strings.Join(paras, "\n\n")
}

func openBook(t *testing.T, book epubtest.Book) readerport.Book {
	t.Helper()
	path := epubtest.Write(t, t.TempDir(), "book.epub", book)
	engine := readerout.NewTerminalEngine(logging.Nop())
	b, err := engine.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	if err := b.Ready(context.Background()); err != nil {
		t.Fatalf("ready: %v", err)
	}
	return b
}

func TestEngineMetadataDirections(t *testing.T) {
	t.Parallel()
	b := openBook(t, epubtest.Book{Title: "Diwan", Author: "Hafez", Language: "fa", PageProgression: "rtl", WritingMode: "horizontal-rl"})
	meta, err := b.Metadata(context.Background())
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Title != "Diwan" || meta.Author != "Hafez" || meta.Language != "fa" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if meta.Direction == nil || *meta.Direction != domain.RTL || meta.SpineDirection == nil || *meta.SpineDirection != domain.RTL {
		t.Fatalf("expected rtl hints, got %+v", meta)
	}

	plain := openBook(t, epubtest.Book{})
	meta, err = plain.Metadata(context.Background())
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Direction != nil || meta.SpineDirection != nil || meta.Author != "Unknown Author" {
		t.Fatalf("expected no hints and fallback author, got %+v", meta)
	}
}

func TestRenditionPaginatesAcrossChapters(t *testing.T) {
	t.Parallel()
	b := openBook(t, epubtest.Book{Chapters: []string{longChapter("alpha", 30), "omega closing words"}})
	surface := &recordingSurface{width: 80, height: 12}
	r, err := b.RenderTo(surface, readerport.RenderOptions{Width: 80, Height: 12, Flow: readerport.FlowPaginated, Spread: readerport.SpreadAlways})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"light", "dark"} {
		if err := r.RegisterTheme(name, readerport.ThemeRules{Foreground: "#000000", Background: "#ffffff"}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if err := r.SelectTheme("sepia"); !errors.Is(err, apperrors.ErrUnknownTheme) {
		t.Fatalf("expected unknown theme, got %v", err)
	}
	if err := r.SelectTheme("dark"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if surface.last() != "" {
		t.Fatalf("nothing should paint before display")
	}
	if err := r.Display(context.Background()); err != nil {
		t.Fatalf("display: %v", err)
	}
	if !strings.Contains(surface.last(), "alpha paragraph 1") {
		t.Fatalf("first page missing opening text:\n%s", surface.last())
	}

	loc := r.Location()
	if loc.Chapter != 1 || loc.Chapters != 2 || loc.Page != 1 || loc.Pages < 2 {
		t.Fatalf("unexpected location %+v", loc)
	}
	for i := 0; i < loc.Pages; i++ {
		if err := r.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	if got := r.Location(); got.Chapter != 2 || got.Page != 1 {
		t.Fatalf("expected second chapter, got %+v", got)
	}
	if !strings.Contains(surface.last(), "omega closing words") {
		t.Fatalf("second chapter not painted:\n%s", surface.last())
	}
	if err := r.Next(); err != nil || r.Location().Chapter != 2 {
		t.Fatalf("next at end should stay put")
	}
	if err := r.Prev(); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if got := r.Location(); got.Chapter != 1 || got.Page != loc.Pages {
		t.Fatalf("expected last page of first chapter, got %+v", got)
	}

	if err := r.Resize(200, 40); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := r.Location(); got.Chapter != 1 || got.Page > got.Pages {
		t.Fatalf("resize lost position: %+v", got)
	}

	if err := r.Destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if err := r.Destroy(); err != nil {
		t.Fatalf("second destroy should be harmless: %v", err)
	}
	if err := r.Next(); err == nil {
		t.Fatalf("navigation after destroy should fail")
	}
}

func TestRTLSpreadPutsFirstColumnOnTheRight(t *testing.T) {
	t.Parallel()
	b := openBook(t, epubtest.Book{Chapters: []string{longChapter("first", 4) + "\n\nzzz-marker"}})
	surface := &recordingSurface{}
	r, err := b.RenderTo(surface, readerport.RenderOptions{Width: 100, Height: 8, Spread: readerport.SpreadAlways, Direction: domain.RTL})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := r.Display(context.Background()); err != nil {
		t.Fatalf("display: %v", err)
	}
	frame := surface.last()
	var firstLine string
	for _, line := range strings.Split(frame, "\n") {
		if strings.Contains(line, "first paragraph 1") {
			firstLine = line
			break
		}
	}
	if firstLine == "" {
		t.Fatalf("opening text not painted:\n%s", frame)
	}
	if idx := strings.Index(firstLine, "first paragraph 1"); idx < 40 {
		t.Fatalf("expected opening column on the right, found at %d:\n%s", idx, frame)
	}
}

func TestBookLifecycleErrors(t *testing.T) {
	t.Parallel()
	engine := readerout.NewTerminalEngine(logging.Nop())
	if _, err := engine.Open(context.Background(), "/missing/book.epub"); err == nil {
		t.Fatalf("expected open error")
	}

	path := epubtest.Write(t, t.TempDir(), "book.epub", epubtest.Book{})
	b, err := engine.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := b.RenderTo(&recordingSurface{}, readerport.RenderOptions{}); err == nil {
		t.Fatalf("render before ready should fail")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Ready(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled ready, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := b.Ready(context.Background()); err == nil {
		t.Fatalf("ready after close should fail")
	}
}
