package theme

import "github.com/charmbracelet/lipgloss"

// Palette is one catppuccin flavour. The UI chrome follows the reader theme
// preference: light maps to Latte, dark to Mocha.
type Palette struct {
	Name     string
	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Lavender lipgloss.Color
	Sapphire lipgloss.Color
	Green    lipgloss.Color
	Peach    lipgloss.Color
	Red      lipgloss.Color
}

var (
	Latte = Palette{
		Name:     "light",
		Base:     lipgloss.Color("#eff1f5"),
		Mantle:   lipgloss.Color("#e6e9ef"),
		Surface0: lipgloss.Color("#ccd0da"),
		Surface1: lipgloss.Color("#bcc0cc"),
		Text:     lipgloss.Color("#4c4f69"),
		Subtext0: lipgloss.Color("#6c6f85"),
		Lavender: lipgloss.Color("#7287fd"),
		Sapphire: lipgloss.Color("#209fb5"),
		Green:    lipgloss.Color("#40a02b"),
		Peach:    lipgloss.Color("#fe640b"),
		Red:      lipgloss.Color("#d20f39"),
	}

	Mocha = Palette{
		Name:     "dark",
		Base:     lipgloss.Color("#1e1e2e"),
		Mantle:   lipgloss.Color("#181825"),
		Surface0: lipgloss.Color("#313244"),
		Surface1: lipgloss.Color("#45475a"),
		Text:     lipgloss.Color("#cdd6f4"),
		Subtext0: lipgloss.Color("#a6adc8"),
		Lavender: lipgloss.Color("#b4befe"),
		Sapphire: lipgloss.Color("#74c7ec"),
		Green:    lipgloss.Color("#a6e3a1"),
		Peach:    lipgloss.Color("#fab387"),
		Red:      lipgloss.Color("#f38ba8"),
	}
)

// For returns the palette for a theme name. Unknown names get Latte.
func For(name string) Palette {
	if name == Mocha.Name {
		return Mocha
	}
	return Latte
}

// GlamourStyle names the glamour standard style matching the palette.
func (p Palette) GlamourStyle() string {
	if p.Name == Mocha.Name {
		return "dark"
	}
	return "light"
}

func (p Palette) App() lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Base).Foreground(p.Text)
}

func (p Palette) Pane() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface1).
		Background(p.Mantle).
		Foreground(p.Text).
		Padding(1)
}

func (p Palette) Bar() lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Mantle).Foreground(p.Text)
}

func (p Palette) Title() lipgloss.Style { return lipgloss.NewStyle().Foreground(p.Sapphire).Bold(true) }
func (p Palette) Muted() lipgloss.Style { return lipgloss.NewStyle().Foreground(p.Subtext0) }
func (p Palette) Hot() lipgloss.Style   { return lipgloss.NewStyle().Foreground(p.Peach).Bold(true) }
func (p Palette) Error() lipgloss.Style { return lipgloss.NewStyle().Foreground(p.Red).Bold(true) }
