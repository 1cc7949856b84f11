package out

import (
	"context"

	"shiori/internal/modules/preference/domain"
)

// ThemeStore persists the theme preference. Load reports ok=false when
// nothing valid has been saved yet.
type ThemeStore interface {
	Load(ctx context.Context) (theme domain.Theme, ok bool, err error)
	Save(ctx context.Context, theme domain.Theme) error
}

// SchemeDetector reports the host's light/dark preference, if it can tell.
type SchemeDetector interface {
	Name() string
	Detect() (prefersDark bool, ok bool)
}
