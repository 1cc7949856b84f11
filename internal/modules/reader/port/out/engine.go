package out

import (
	"context"

	"shiori/internal/modules/reader/domain"
)

// Engine opens documents for rendering. Everything behind it is opaque to
// the session manager.
type Engine interface {
	Open(ctx context.Context, locator string) (Book, error)
}

type Book interface {
	Ready(ctx context.Context) error
	Metadata(ctx context.Context) (BookMetadata, error)
	RenderTo(surface Surface, opts RenderOptions) (Rendition, error)
	Close() error
}

// BookMetadata fields are nil when the document does not declare them.
type BookMetadata struct {
	Title          string
	Author         string
	Language       string
	Direction      *domain.Direction
	SpineDirection *domain.Direction
}

// Surface is where a rendition paints its frames.
type Surface interface {
	Size() (width, height int)
	Paint(frame string)
}

type Flow string

const FlowPaginated Flow = "paginated"

type Spread string

const (
	SpreadNone   Spread = "none"
	SpreadAlways Spread = "always"
)

type RenderOptions struct {
	Width     int
	Height    int
	Flow      Flow
	Spread    Spread
	Direction domain.Direction
}

type ThemeRules struct {
	Foreground string
	Background string
}

type Rendition interface {
	RegisterTheme(name string, rules ThemeRules) error
	SelectTheme(name string) error
	Display(ctx context.Context) error
	Next() error
	Prev() error
	Resize(width, height int) error
	Location() domain.Location
	Destroy() error
}
