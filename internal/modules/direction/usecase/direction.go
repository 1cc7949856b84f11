package usecase

import (
	"context"
	"strings"

	"shiori/internal/modules/direction/domain"
	directiondto "shiori/internal/modules/direction/dto"
	directionin "shiori/internal/modules/direction/port/in"
	directionout "shiori/internal/modules/direction/port/out"
	"shiori/internal/modules/direction/service"
	apperrors "shiori/internal/platform/errors"
)

type Interactor struct {
	resolver *service.Resolver
	metadata directionout.MetadataSource
}

func NewInteractor(resolver *service.Resolver, metadata directionout.MetadataSource) directionin.Usecase {
	return &Interactor{resolver: resolver, metadata: metadata}
}

type pending struct {
	res *service.Resolution
}

func (i *Interactor) Begin(ctx context.Context, locator string) directionin.Pending {
	return pending{res: i.resolver.Begin(ctx, locator)}
}

func (p pending) Offer(candidate directiondto.Candidate) bool {
	dir, ok := domain.ParseDirection(candidate.Direction)
	if !ok {
		return false
	}
	source, ok := domain.ParseSource(candidate.Source)
	if !ok {
		return false
	}
	return p.res.Offer(domain.Signal{Direction: dir, Source: source})
}

func (p pending) Wait(ctx context.Context) directiondto.ResolveOutput {
	return toOutput(p.res.Wait(ctx))
}

func (i *Interactor) Resolve(ctx context.Context, input directiondto.ResolveInput) (directiondto.ResolveOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return directiondto.ResolveOutput{}, apperrors.ErrInvalidInput
	}
	var metadata func(context.Context) ([]domain.Signal, error)
	if i.metadata != nil {
		metadata = func(ctx context.Context) ([]domain.Signal, error) {
			return i.metadata.Candidates(ctx, input.Path)
		}
	}
	return toOutput(i.resolver.Resolve(ctx, input.Path, metadata)), nil
}

func toOutput(sig domain.Signal) directiondto.ResolveOutput {
	return directiondto.ResolveOutput{Direction: string(sig.Direction), Source: sig.Source.String()}
}
