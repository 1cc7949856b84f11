package out

import (
	"context"

	"shiori/internal/modules/reader/domain"
)

type DirectionResolver interface {
	Begin(ctx context.Context, locator string) DirectionResolution
}

// DirectionResolution accepts engine-side hints while the external detector
// runs, and yields the winner.
type DirectionResolution interface {
	Offer(direction domain.Direction, source domain.DirectionSource)
	Wait(ctx context.Context) (domain.Direction, domain.DirectionSource)
}

type ThemeSource interface {
	Current() string
	Subscribe(listener func(theme string)) (unsubscribe func())
}

type ViewSwitcher interface {
	ShowReader() error
	ShowLibrary() error
	ReaderVisible() bool
}

type Presenter interface {
	EnterImmersive()
	ExitImmersive()
}
