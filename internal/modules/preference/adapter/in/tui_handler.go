package in

import (
	"context"

	prefdto "shiori/internal/modules/preference/dto"
	prefin "shiori/internal/modules/preference/port/in"
)

// TUIHandler assumes the preference was loaded at startup.
type TUIHandler struct {
	usecase prefin.Usecase
}

func NewTUIHandler(usecase prefin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Current() prefdto.ThemeOutput {
	return h.usecase.Current()
}

func (h TUIHandler) Toggle(ctx context.Context) prefdto.ThemeOutput {
	return h.usecase.Toggle(ctx)
}
