package usecase

import (
	"context"

	"shiori/internal/modules/preference/domain"
	prefdto "shiori/internal/modules/preference/dto"
	prefin "shiori/internal/modules/preference/port/in"
	"shiori/internal/modules/preference/service"
)

type Interactor struct {
	svc *service.PreferenceService
}

func NewInteractor(svc *service.PreferenceService) prefin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Load(ctx context.Context) (prefdto.ThemeOutput, error) {
	theme, origin := i.svc.Load(ctx)
	return prefdto.ThemeOutput{Theme: string(theme), Origin: string(origin)}, nil
}

func (i *Interactor) Current() prefdto.ThemeOutput {
	return prefdto.ThemeOutput{Theme: string(i.svc.Get()), Origin: string(i.svc.Origin())}
}

func (i *Interactor) Set(ctx context.Context, input prefdto.SetThemeInput) (prefdto.ThemeOutput, error) {
	theme, err := domain.ParseTheme(input.Theme)
	if err != nil {
		return prefdto.ThemeOutput{}, err
	}
	if err := i.svc.Set(ctx, theme); err != nil {
		return prefdto.ThemeOutput{}, err
	}
	return i.Current(), nil
}

func (i *Interactor) Toggle(ctx context.Context) prefdto.ThemeOutput {
	i.svc.Toggle(ctx)
	return i.Current()
}

func (i *Interactor) Subscribe(listener func(domain.Theme)) func() {
	return i.svc.Subscribe(listener)
}
