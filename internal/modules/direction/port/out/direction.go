package out

import (
	"context"

	"shiori/internal/modules/direction/domain"
)

// Detector is the external, best-effort direction oracle. It returns
// apperrors.ErrDirectionUnknown when the document gives no hint.
type Detector interface {
	Detect(ctx context.Context, locator string) (domain.Direction, error)
}

// MetadataSource reads the direction hints embedded in the document itself.
type MetadataSource interface {
	Candidates(ctx context.Context, locator string) ([]domain.Signal, error)
}
