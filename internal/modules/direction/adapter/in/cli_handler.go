package in

import (
	"context"

	directiondto "shiori/internal/modules/direction/dto"
	directionin "shiori/internal/modules/direction/port/in"
)

type CLIHandler struct {
	usecase directionin.Usecase
}

func NewCLIHandler(usecase directionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Resolve(ctx context.Context, path string) (directiondto.ResolveOutput, error) {
	return h.usecase.Resolve(ctx, directiondto.ResolveInput{Path: path})
}
