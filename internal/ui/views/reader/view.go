package reader

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	readerdto "shiori/internal/modules/reader/dto"
	"shiori/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the reader use-case.
type Port interface {
	Open(ctx context.Context, path string) (readerdto.SessionOutput, error)
	Snapshot() readerdto.SessionOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// OpenedMsg is sent when an open attempt finished, successfully or not.
type OpenedMsg struct {
	Path    string
	Session readerdto.SessionOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows whatever the rendition last painted on the surface, or the
// loading spinner and the error panel around it.
type Model struct {
	port     Port
	surface  *Surface
	spinner  spinner.Model
	snapshot readerdto.SessionOutput
	colors   theme.Palette
	loading  bool
	width    int
	height   int
}

func New(port Port, surface *Surface, colors theme.Palette) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colors.Lavender)
	return Model{
		port:    port,
		surface: surface,
		spinner: sp,
		colors:  colors,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case OpenedMsg:
		m.loading = false
		m.snapshot = msg.Session

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// Open starts loading a book. The returned Cmd produces an OpenedMsg.
func (m *Model) Open(path string) tea.Cmd {
	m.loading = true
	return tea.Batch(m.openCmd(path), m.spinner.Tick)
}

// Sync refreshes the cached session snapshot after a synchronous call
// such as a page turn or close.
func (m Model) Sync() Model {
	m.snapshot = m.port.Snapshot()
	return m
}

func (m *Model) SetColors(colors theme.Palette) {
	m.colors = colors
	m.spinner.Style = lipgloss.NewStyle().Foreground(colors.Lavender)
}

// Immersive reports whether the rendition owns the whole screen.
func (m Model) Immersive() bool {
	return m.snapshot.Immersive && !m.loading
}

func (m Model) Loading() bool { return m.loading }

func (m Model) Snapshot() readerdto.SessionOutput { return m.snapshot }

func (m Model) View() string {
	switch {
	case m.loading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Opening book…")
	case m.snapshot.Error != nil:
		return m.renderError(*m.snapshot.Error)
	case m.snapshot.SessionID != "":
		return m.surface.Frame()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.colors.Muted().Render("No book open. Pick one from the library (enter)."))
}

// SetSurfaceSize sizes the frame buffer the next open renders into.
func (m Model) SetSurfaceSize(width, height int) {
	m.surface.SetSize(width, height)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderError(e readerdto.ErrorOutput) string {
	body := m.colors.Error().Render("Error loading book") + "\n\n" +
		e.Message + "\n\n" +
		m.colors.Muted().Render(e.Locator) + "\n\n" +
		m.colors.Muted().Render("esc: back to library")
	width := m.width - 8
	if width < 20 {
		width = 20
	}
	panel := m.colors.Pane().BorderForeground(m.colors.Red).Width(width).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func (m Model) openCmd(path string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.port.Open(context.Background(), path)
		return OpenedMsg{Path: path, Session: session, Err: err}
	}
}
