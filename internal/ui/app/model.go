package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "shiori/internal/modules/library/dto"
	prefdto "shiori/internal/modules/preference/dto"
	readerdto "shiori/internal/modules/reader/dto"
	apperrors "shiori/internal/platform/errors"
	"shiori/internal/ui/components"
	"shiori/internal/ui/theme"
	libraryview "shiori/internal/ui/views/library"
	readerview "shiori/internal/ui/views/reader"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type libraryPort interface {
	ListBooks(ctx context.Context) ([]libdto.BookOutput, error)
	GetBook(ctx context.Context, path string) (libdto.BookDetailOutput, error)
	Scan(ctx context.Context) (libdto.ScanOutput, error)
	AddFolder(ctx context.Context, path string) (libdto.FolderOutput, error)
}

type readerPort interface {
	Open(ctx context.Context, path string) (readerdto.SessionOutput, error)
	Snapshot() readerdto.SessionOutput
	HandleKey(key string) bool
	Resize(width, height int)
	Close()
	ReaderVisible() bool
}

type themePort interface {
	Current() prefdto.ThemeOutput
	Toggle(ctx context.Context) prefdto.ThemeOutput
}

// ─── async messages ───────────────────────────────────────────────────────────

type themeChangedMsg struct{ theme string }

type folderAddedMsg struct {
	folder libdto.FolderOutput
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Rescan  key.Binding
	Theme   key.Binding
	Turn    key.Binding
	Back    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Rescan:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "light/dark")),
		Turn:    key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "turn page")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close book")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Palette, k.Theme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Rescan},
		{k.Turn, k.Back},
		{k.Theme, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Which sub-view is drawn follows the
// view coordinator as seen through the reader port; business logic stays
// behind the ports.
type Model struct {
	library libraryPort
	reader  readerPort
	theme   themePort

	libView  libraryview.Model
	readView readerview.Model

	colors   theme.Palette
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(library libraryPort, reader readerPort, prefs themePort, surface *readerview.Surface) Model {
	colors := theme.For(prefs.Current().Theme)
	return Model{
		library:  library,
		reader:   reader,
		theme:    prefs,
		libView:  libraryview.New(library, colors),
		readView: readerview.New(reader, surface, colors),
		colors:   colors,
		keys:     defaultKeys(),
		help:     help.New(),
		palette:  components.NewPalette(colors),
		status:   "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.libView.Init()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case themeChangedMsg:
		m.applyColors(theme.For(msg.theme))
		m.status = "theme: " + msg.theme
		return m, nil

	case folderAddedMsg:
		if msg.err != nil {
			m.status = "add folder: " + msg.err.Error()
			return m, nil
		}
		m.status = "folder added: " + msg.folder.Path
		return m, m.libView.Rescan()

	case libraryview.BooksLoadedMsg:
		if msg.Scanned && msg.Err == nil {
			m.status = fmt.Sprintf("scanned %d folder(s), %d book(s)", msg.Folders, len(msg.Books))
		}
		var cmd tea.Cmd
		m.libView, cmd = m.libView.Update(msg)
		return m, cmd

	case readerview.OpenedMsg:
		switch {
		case msg.Err == nil:
			m.status = fmt.Sprintf("reading: %s [%s via %s]", msg.Session.Title, msg.Session.Direction, msg.Session.DirectionSource)
		case errors.Is(msg.Err, apperrors.ErrOpenAborted):
			m.status = "open cancelled"
		default:
			m.status = "open failed"
		}
		m.readView, _ = m.readView.Update(msg)
		m.readView = m.readView.Sync()
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			m.reader.Close()
			return m, tea.Quit
		}

		if m.reader.ReaderVisible() {
			return m.updateReaderKey(msg)
		}

		// Yield to the list when its search filter is active.
		if m.libView.Filtering() {
			break
		}

		switch msg.String() {
		case "q":
			m.reader.Close()
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "t":
			return m, m.toggleThemeCmd()
		case "r":
			m.status = "scanning…"
			return m, m.libView.Rescan()
		case "enter":
			if path, ok := m.libView.SelectedBookPath(); ok {
				return m, m.readView.Open(path)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.reader.ReaderVisible() {
		m.readView, cmd = m.readView.Update(msg)
	} else {
		m.libView, cmd = m.libView.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reader.HandleKey(msg.String()) {
		m.readView = m.readView.Sync()
		if !m.reader.ReaderVisible() {
			m.status = "ready"
		}
		return m, nil
	}
	switch msg.String() {
	case "q":
		m.reader.Close()
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case ":":
		return m, m.palette.Open()
	case "t":
		return m, m.toggleThemeCmd()
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	onReader := m.reader.ReaderVisible()
	if onReader && m.readView.Immersive() && !m.showHelp {
		return m.readView.View()
	}

	header := m.renderHeader(onReader)
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case onReader:
		content = m.readView.View()
	default:
		content = m.libView.View()
	}

	return m.colors.App().Render(lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar))
}

func (m Model) renderHeader(onReader bool) string {
	label := func(name string, active bool) string {
		if active {
			return m.colors.Hot().Render(" " + name + " ")
		}
		return m.colors.Muted().Render(" " + name + " ")
	}
	sep := m.colors.Muted().Render(" │ ")
	bar := "shiori  " + label("Library", !onReader) + sep + label("Reader", onReader)
	return m.colors.Bar().Width(m.width).Render(bar)
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.colors.Muted().Render("?:help  t:theme  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return m.colors.Bar().Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "open":
		if arg == "" {
			m.status = "usage: open <path.epub>"
			return m, nil
		}
		if m.reader.Snapshot().SessionID != "" {
			m.reader.Close()
		}
		return m, m.readView.Open(arg)

	case "library:add":
		if arg == "" {
			m.status = "usage: library:add <folder>"
			return m, nil
		}
		return m, m.addFolderCmd(arg)

	case "library:scan":
		m.status = "scanning…"
		return m, m.libView.Rescan()

	case "reader:close":
		m.reader.Close()
		m.readView = m.readView.Sync()
		m.status = "ready"
		return m, nil

	case "theme:toggle":
		return m, m.toggleThemeCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	// The rendition draws its own header and footer, so it gets the whole
	// window; the library sits between the app bars.
	m.readView.SetSurfaceSize(m.width, m.height)
	m.reader.Resize(m.width, m.height)
	m.readView, _ = m.readView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 2})
	m.libView, _ = m.libView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 2})
}

func (m *Model) applyColors(colors theme.Palette) {
	m.colors = colors
	m.libView.SetColors(colors)
	m.readView.SetColors(colors)
	m.palette.SetColors(colors)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) toggleThemeCmd() tea.Cmd {
	return func() tea.Msg {
		out := m.theme.Toggle(context.Background())
		return themeChangedMsg{theme: out.Theme}
	}
}

func (m Model) addFolderCmd(path string) tea.Cmd {
	return func() tea.Msg {
		folder, err := m.library.AddFolder(context.Background(), path)
		return folderAddedMsg{folder: folder, err: err}
	}
}
