package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	libdto "shiori/internal/modules/library/dto"
	"shiori/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type LibraryPort interface {
	ListBooks(ctx context.Context) ([]libdto.BookOutput, error)
	GetBook(ctx context.Context, path string) (libdto.BookDetailOutput, error)
	Scan(ctx context.Context) (libdto.ScanOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type BooksLoadedMsg struct {
	Books   []libdto.BookOutput
	Scanned bool
	Folders int
	Err     error
}

type DetailLoadedMsg struct {
	Detail libdto.BookDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type bookItem struct {
	book libdto.BookOutput
}

func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	if i.book.Direction != "" {
		return fmt.Sprintf("%s  [%s]", i.book.Author, i.book.Direction)
	}
	return i.book.Author
}
func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     LibraryPort
	list     list.Model
	detail   libdto.BookDetailOutput
	preview  viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	colors   theme.Palette
	loading  bool
	width    int
	height   int
}

func New(port LibraryPort, colors theme.Palette) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Library"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := Model{
		port:    port,
		list:    l,
		preview: viewport.New(0, 0),
		spinner: spinner.New(),
		loading: true,
	}
	m.spinner.Spinner = spinner.Dot
	m.SetColors(colors)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadBooksCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case BooksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Library: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Library"
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if item, ok := m.list.SelectedItem().(bookItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.book.Path))
		} else {
			m.detail = libdto.BookDetailOutput{}
			m.preview.SetContent(m.renderDetail())
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(bookItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.book.Path))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading library…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.colors.Surface1).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Rescan walks the library folders again and reloads the list.
func (m *Model) Rescan() tea.Cmd {
	m.loading = true
	return tea.Batch(m.scanCmd(), m.spinner.Tick)
}

// SelectedBookPath returns the path of the highlighted book, if any.
func (m Model) SelectedBookPath() (string, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.Path, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SetColors restyles the list and rebuilds the markdown renderer.
func (m *Model) SetColors(colors theme.Palette) {
	m.colors = colors

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(colors.Lavender).BorderForeground(colors.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(colors.Sapphire).BorderForeground(colors.Lavender)
	m.list.SetDelegate(delegate)
	m.list.Styles.Title = colors.Title()

	m.spinner.Style = lipgloss.NewStyle().Foreground(colors.Lavender)
	m.rebuildRenderer()
	m.preview.SetContent(m.renderDetail())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 1)
	m.preview.Height = max(m.height-4, 1)
	m.rebuildRenderer()
	m.preview.SetContent(m.renderDetail())
}

func (m *Model) rebuildRenderer() {
	wrap := m.preview.Width
	if wrap <= 0 {
		wrap = 60
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.colors.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.Path == "" {
		return m.colors.Muted().Render("No books yet. Add a folder with `:library:add <folder>` and press r to scan.")
	}
	md := detailMarkdown(d)
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			return out
		}
	}
	return md
}

func detailMarkdown(d libdto.BookDetailOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", d.Title)
	fmt.Fprintf(&sb, "*%s*\n\n", d.Author)
	sb.WriteString("| | |\n|---|---|\n")
	if d.Language != "" {
		fmt.Fprintf(&sb, "| language | %s |\n", d.Language)
	}
	if d.Direction != "" {
		fmt.Fprintf(&sb, "| direction | %s |\n", d.Direction)
	}
	cover := "none"
	if d.CoverURL != "" {
		cover = "embedded"
	}
	fmt.Fprintf(&sb, "| cover | %s |\n", cover)
	if d.IndexedAt != "" {
		fmt.Fprintf(&sb, "| indexed | %s |\n", d.IndexedAt)
	}
	fmt.Fprintf(&sb, "\n`%s`\n\n", d.Path)
	sb.WriteString("enter: read  r: rescan  t: theme")
	return sb.String()
}

func (m Model) loadBooksCmd() tea.Cmd {
	return func() tea.Msg {
		books, err := m.port.ListBooks(context.Background())
		return BooksLoadedMsg{Books: books, Err: err}
	}
}

func (m Model) scanCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Scan(context.Background())
		return BooksLoadedMsg{Books: out.Books, Scanned: true, Folders: out.Folders, Err: err}
	}
}

func (m Model) loadDetailCmd(path string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetBook(context.Background(), path)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
