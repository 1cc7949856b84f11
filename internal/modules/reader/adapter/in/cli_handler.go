package in

import (
	"context"

	"shiori/internal/modules/reader/dto"
	readerin "shiori/internal/modules/reader/port/in"
)

type CLIHandler struct {
	usecase readerin.Usecase
}

func NewCLIHandler(usecase readerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Inspect opens path, reports the session and closes it again.
func (h CLIHandler) Inspect(ctx context.Context, path string) (dto.SessionOutput, error) {
	out, err := h.usecase.Open(ctx, dto.OpenInput{Path: path})
	if err != nil {
		return out, err
	}
	h.usecase.Close()
	return out, nil
}
