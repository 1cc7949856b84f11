package in

import (
	"context"

	"shiori/internal/modules/preference/domain"
	"shiori/internal/modules/preference/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.ThemeOutput, error)
	Current() dto.ThemeOutput
	Set(ctx context.Context, input dto.SetThemeInput) (dto.ThemeOutput, error)
	Toggle(ctx context.Context) dto.ThemeOutput
	Subscribe(listener func(domain.Theme)) (unsubscribe func())
}
