package out

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"shiori/internal/modules/reader/domain"
	readerout "shiori/internal/modules/reader/port/out"
	apperrors "shiori/internal/platform/errors"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	minColumnWidth = 30
	gutterWidth    = 4
	chromeLines    = 2
)

// pagedRendition lays chapters out in screen-sized pages. One page holds one
// column, or two side by side when the spread fits. Pages always run in
// reading order; rtl only swaps which column is drawn on the right.
type pagedRendition struct {
	mu        sync.Mutex
	chapters  []chapterText
	surface   readerout.Surface
	spread    readerout.Spread
	direction domain.Direction

	width, height int
	columns       int
	columnWidth   int
	bodyHeight    int
	lines         [][]string

	chapter   int
	page      int
	themes    map[string]lipgloss.Style
	theme     string
	displayed bool
	destroyed bool
}

func newPagedRendition(chapters []chapterText, surface readerout.Surface, opts readerout.RenderOptions) *pagedRendition {
	r := &pagedRendition{
		chapters:  chapters,
		surface:   surface,
		spread:    opts.Spread,
		direction: opts.Direction,
		themes:    map[string]lipgloss.Style{},
	}
	r.layout(opts.Width, opts.Height)
	return r
}

func (r *pagedRendition) RegisterTheme(name string, rules readerout.ThemeRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errRenditionDestroyed
	}
	style := lipgloss.NewStyle()
	if rules.Foreground != "" {
		style = style.Foreground(lipgloss.Color(rules.Foreground))
	}
	if rules.Background != "" {
		style = style.Background(lipgloss.Color(rules.Background))
	}
	r.themes[name] = style
	return nil
}

func (r *pagedRendition) SelectTheme(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errRenditionDestroyed
	}
	if _, ok := r.themes[name]; !ok {
		return fmt.Errorf("%w: %q is not registered", apperrors.ErrUnknownTheme, name)
	}
	r.theme = name
	r.paintLocked()
	return nil
}

func (r *pagedRendition) Display(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errRenditionDestroyed
	}
	r.displayed = true
	r.paintLocked()
	return nil
}

func (r *pagedRendition) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errRenditionDestroyed
	}
	switch {
	case r.page < r.pageCount(r.chapter)-1:
		r.page++
	case r.chapter < len(r.chapters)-1:
		r.chapter++
		r.page = 0
	default:
		return nil
	}
	r.paintLocked()
	return nil
}

func (r *pagedRendition) Prev() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errRenditionDestroyed
	}
	switch {
	case r.page > 0:
		r.page--
	case r.chapter > 0:
		r.chapter--
		r.page = r.pageCount(r.chapter) - 1
	default:
		return nil
	}
	r.paintLocked()
	return nil
}

// Resize re-flows the text and keeps the first visible line on screen.
func (r *pagedRendition) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errRenditionDestroyed
	}
	firstLine := r.page * r.linesPerPage()
	total := len(r.lines[r.chapter])
	r.layout(width, height)
	if total > 0 {
		firstLine = firstLine * len(r.lines[r.chapter]) / total
	}
	r.page = min(firstLine/r.linesPerPage(), r.pageCount(r.chapter)-1)
	r.paintLocked()
	return nil
}

func (r *pagedRendition) Location() domain.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.chapters) == 0 {
		return domain.Location{}
	}
	pages := r.pageCount(r.chapter)
	done := float64(r.chapter) + float64(r.page+1)/float64(pages)
	return domain.Location{
		Chapter:      r.chapter + 1,
		Chapters:     len(r.chapters),
		ChapterTitle: r.chapters[r.chapter].title,
		Page:         r.page + 1,
		Pages:        pages,
		Percent:      done / float64(len(r.chapters)) * 100,
	}
}

func (r *pagedRendition) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.destroyed = true
	r.surface.Paint("")
	return nil
}

var errRenditionDestroyed = errors.New("rendition destroyed")

func (r *pagedRendition) layout(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	r.width, r.height = width, height
	r.columns = 1
	r.columnWidth = width
	if r.spread == readerout.SpreadAlways && width >= 2*minColumnWidth+gutterWidth {
		r.columns = 2
		r.columnWidth = (width - gutterWidth) / 2
	}
	r.bodyHeight = max(height-chromeLines, 1)

	r.lines = make([][]string, len(r.chapters))
	for i, ch := range r.chapters {
		lines := make([]string, 0, len(ch.paragraphs)*2)
		for j, para := range ch.paragraphs {
			if j > 0 {
				lines = append(lines, "")
			}
			wrapped := wrap.String(wordwrap.String(para, r.columnWidth), r.columnWidth)
			lines = append(lines, strings.Split(wrapped, "\n")...)
		}
		r.lines[i] = lines
	}
}

func (r *pagedRendition) linesPerPage() int {
	return r.bodyHeight * r.columns
}

func (r *pagedRendition) pageCount(chapter int) int {
	n := len(r.lines[chapter])
	per := r.linesPerPage()
	return max((n+per-1)/per, 1)
}

func (r *pagedRendition) paintLocked() {
	if !r.displayed || r.destroyed {
		return
	}
	lines := r.lines[r.chapter]
	start := r.page * r.linesPerPage()
	columns := make([]string, 0, r.columns)
	for c := 0; c < r.columns; c++ {
		from := min(start+c*r.bodyHeight, len(lines))
		to := min(from+r.bodyHeight, len(lines))
		columns = append(columns, lipgloss.NewStyle().
			Width(r.columnWidth).
			Height(r.bodyHeight).
			Render(strings.Join(lines[from:to], "\n")))
	}
	if r.direction.Mirrored() {
		for i, j := 0, len(columns)-1; i < j; i, j = i+1, j-1 {
			columns[i], columns[j] = columns[j], columns[i]
		}
	}
	body := columns[0]
	if len(columns) == 2 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, columns[0], strings.Repeat(" ", gutterWidth), columns[1])
	}

	header := truncate.StringWithTail(r.chapters[r.chapter].title, uint(r.width), "…")
	footer := fmt.Sprintf("%d/%d  ·  chapter %d/%d", r.page+1, r.pageCount(r.chapter), r.chapter+1, len(r.chapters))
	if r.direction.Mirrored() {
		footer = lipgloss.PlaceHorizontal(r.width, lipgloss.Right, footer)
	}
	frame := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if style, ok := r.themes[r.theme]; ok {
		frame = style.Width(r.width).Render(frame)
	}
	r.surface.Paint(frame)
}
