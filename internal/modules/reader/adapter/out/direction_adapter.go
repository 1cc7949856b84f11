package out

import (
	"context"

	directiondto "shiori/internal/modules/direction/dto"
	directionin "shiori/internal/modules/direction/port/in"
	"shiori/internal/modules/reader/domain"
	readerout "shiori/internal/modules/reader/port/out"
)

type DirectionAdapter struct {
	directions directionin.Usecase
}

func NewDirectionAdapter(directions directionin.Usecase) readerout.DirectionResolver {
	return &DirectionAdapter{directions: directions}
}

func (a *DirectionAdapter) Begin(ctx context.Context, locator string) readerout.DirectionResolution {
	return directionResolution{pending: a.directions.Begin(ctx, locator)}
}

type directionResolution struct {
	pending directionin.Pending
}

func (r directionResolution) Offer(direction domain.Direction, source domain.DirectionSource) {
	r.pending.Offer(directiondto.Candidate{Direction: string(direction), Source: string(source)})
}

func (r directionResolution) Wait(ctx context.Context) (domain.Direction, domain.DirectionSource) {
	out := r.pending.Wait(ctx)
	direction := domain.LTR
	if out.Direction == string(domain.RTL) {
		direction = domain.RTL
	}
	source := domain.DirectionSource(out.Source)
	if source == "" {
		source = domain.SourceDefault
	}
	return direction, source
}
