package in

import (
	"context"

	"shiori/internal/modules/reader/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.SessionOutput, error)
	Close()
	DismissError()
	Next()
	Previous()
	Resize(width, height int)
	Snapshot() dto.SessionOutput
	HasSession() bool
	ReaderVisible() bool
}
