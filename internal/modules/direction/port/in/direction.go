package in

import (
	"context"

	directiondto "shiori/internal/modules/direction/dto"
)

// Pending is one resolution in flight.
type Pending interface {
	Offer(candidate directiondto.Candidate) bool
	Wait(ctx context.Context) directiondto.ResolveOutput
}

type Usecase interface {
	Begin(ctx context.Context, locator string) Pending
	Resolve(ctx context.Context, input directiondto.ResolveInput) (directiondto.ResolveOutput, error)
}
