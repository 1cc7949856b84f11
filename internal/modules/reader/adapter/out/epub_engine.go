package out

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/simp-lee/epub"
	"go.uber.org/zap"

	"shiori/internal/modules/reader/domain"
	readerout "shiori/internal/modules/reader/port/out"
	"shiori/internal/platform/epubmeta"
)

var errBookClosed = errors.New("book is closed")

// TerminalEngine renders EPUB text as paginated terminal frames.
type TerminalEngine struct {
	logger *zap.Logger
}

func NewTerminalEngine(logger *zap.Logger) readerout.Engine {
	return &TerminalEngine{logger: logger.Named("engine")}
}

func (e *TerminalEngine) Open(ctx context.Context, locator string) (readerout.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	book, err := epub.Open(locator)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	return &epubBook{book: book, locator: locator, logger: e.logger.With(zap.String("locator", locator))}, nil
}

type chapterText struct {
	title      string
	paragraphs []string
}

type epubBook struct {
	mu       sync.Mutex
	book     *epub.Book
	locator  string
	chapters []chapterText
	ready    bool
	closed   bool
	logger   *zap.Logger
}

// Ready extracts the text of every content chapter.
func (b *epubBook) Ready(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errBookClosed
	}
	if b.ready {
		return nil
	}
	chapters := make([]chapterText, 0)
	for i, ch := range b.book.ContentChapters() {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := ch.TextContent()
		if err != nil {
			return fmt.Errorf("read chapter %s: %w", ch.Href, err)
		}
		paragraphs := splitParagraphs(text)
		if len(paragraphs) == 0 {
			continue
		}
		title := strings.TrimSpace(ch.Title)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		chapters = append(chapters, chapterText{title: title, paragraphs: paragraphs})
	}
	if len(chapters) == 0 {
		return fmt.Errorf("%s has no readable chapters", b.locator)
	}
	b.chapters = chapters
	b.ready = true
	return nil
}

func (b *epubBook) Metadata(_ context.Context) (readerout.BookMetadata, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return readerout.BookMetadata{}, errBookClosed
	}
	meta := b.book.Metadata()
	out := readerout.BookMetadata{Title: epubmeta.UnknownTitle, Author: epubmeta.UnknownAuthor}
	if len(meta.Titles) > 0 && strings.TrimSpace(meta.Titles[0]) != "" {
		out.Title = strings.TrimSpace(meta.Titles[0])
	}
	if len(meta.Authors) > 0 && strings.TrimSpace(meta.Authors[0].Name) != "" {
		out.Author = strings.TrimSpace(meta.Authors[0].Name)
	}
	if len(meta.Language) > 0 {
		out.Language = meta.Language[0]
	}
	dirs, err := epubmeta.PackageDirections(b.book)
	if err != nil {
		b.logger.Warn("read package directions", zap.Error(err))
		return out, nil
	}
	out.Direction = directionPtr(epubmeta.WritingModeDirection(dirs.WritingMode))
	out.SpineDirection = directionPtr(dirs.Spine)
	return out, nil
}

func (b *epubBook) RenderTo(surface readerout.Surface, opts readerout.RenderOptions) (readerout.Rendition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errBookClosed
	}
	if !b.ready {
		return nil, errors.New("book is not ready")
	}
	if surface == nil {
		return nil, errors.New("no rendering surface")
	}
	if opts.Flow != "" && opts.Flow != readerout.FlowPaginated {
		return nil, fmt.Errorf("unsupported flow %q", opts.Flow)
	}
	return newPagedRendition(b.chapters, surface, opts), nil
}

func (b *epubBook) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.book.Close()
}

func splitParagraphs(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func directionPtr(raw string) *domain.Direction {
	switch raw {
	case epubmeta.DirectionLTR:
		d := domain.LTR
		return &d
	case epubmeta.DirectionRTL:
		d := domain.RTL
		return &d
	}
	return nil
}
