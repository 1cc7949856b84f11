package out

import (
	"context"

	"shiori/internal/modules/direction/domain"
	directionout "shiori/internal/modules/direction/port/out"
	apperrors "shiori/internal/platform/errors"
)

type directionBackend interface {
	DetectDirection(ctx context.Context, path string) (string, error)
}

// BackendDetector asks the shiori-backend process for the direction. A
// missing backend is reported like any other detector failure.
type BackendDetector struct {
	backend directionBackend
}

func NewBackendDetector(backend directionBackend) directionout.Detector {
	return &BackendDetector{backend: backend}
}

func (d *BackendDetector) Detect(ctx context.Context, locator string) (domain.Direction, error) {
	raw, err := d.backend.DetectDirection(ctx, locator)
	if err != nil {
		return "", err
	}
	dir, ok := domain.ParseDirection(raw)
	if !ok {
		return "", apperrors.ErrDirectionUnknown
	}
	return dir, nil
}
