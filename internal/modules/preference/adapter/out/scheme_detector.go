package out

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	prefout "shiori/internal/modules/preference/port/out"
)

// EnvSchemeDetector reads COLORFGBG ("fg;bg" or "fg;default;bg") as set by
// rxvt, Konsole and friends.
type EnvSchemeDetector struct {
	lookup func(string) (string, bool)
}

func NewEnvSchemeDetector() prefout.SchemeDetector {
	return EnvSchemeDetector{lookup: os.LookupEnv}
}

func NewEnvSchemeDetectorWith(lookup func(string) (string, bool)) prefout.SchemeDetector {
	return EnvSchemeDetector{lookup: lookup}
}

func (EnvSchemeDetector) Name() string { return "colorfgbg" }

func (d EnvSchemeDetector) Detect() (bool, bool) {
	raw, ok := d.lookup("COLORFGBG")
	if !ok || strings.TrimSpace(raw) == "" {
		return false, false
	}
	parts := strings.Split(raw, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return false, false
	}
	// ANSI 0-6 and 8 are dark backgrounds; 7 and 9-15 are light.
	return bg < 7 || bg == 8, true
}

// TerminalSchemeDetector asks the terminal for its background color.
type TerminalSchemeDetector struct {
	term string
}

func NewTerminalSchemeDetector() prefout.SchemeDetector {
	return TerminalSchemeDetector{term: os.Getenv("TERM")}
}

func (TerminalSchemeDetector) Name() string { return "terminal" }

func (d TerminalSchemeDetector) Detect() (bool, bool) {
	if d.term == "" || d.term == "dumb" {
		return false, false
	}
	return lipgloss.HasDarkBackground(), true
}
