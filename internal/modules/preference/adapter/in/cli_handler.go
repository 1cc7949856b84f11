package in

import (
	"context"

	prefdto "shiori/internal/modules/preference/dto"
	prefin "shiori/internal/modules/preference/port/in"
)

type CLIHandler struct {
	usecase prefin.Usecase
}

func NewCLIHandler(usecase prefin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Get(ctx context.Context) (prefdto.ThemeOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Set(ctx context.Context, theme string) (prefdto.ThemeOutput, error) {
	if _, err := h.usecase.Load(ctx); err != nil {
		return prefdto.ThemeOutput{}, err
	}
	return h.usecase.Set(ctx, prefdto.SetThemeInput{Theme: theme})
}

func (h CLIHandler) Toggle(ctx context.Context) (prefdto.ThemeOutput, error) {
	if _, err := h.usecase.Load(ctx); err != nil {
		return prefdto.ThemeOutput{}, err
	}
	return h.usecase.Toggle(ctx), nil
}
