package in

import (
	"context"

	"shiori/internal/modules/reader/dto"
	readerin "shiori/internal/modules/reader/port/in"
)

type TUIHandler struct {
	usecase readerin.Usecase
	keys    KeyRouter
}

func NewTUIHandler(usecase readerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase, keys: NewKeyRouter(usecase)}
}

func (h TUIHandler) Open(ctx context.Context, path string) (dto.SessionOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{Path: path})
}

func (h TUIHandler) HandleKey(key string) bool {
	return h.keys.Handle(key)
}

func (h TUIHandler) Resize(width, height int) {
	h.usecase.Resize(width, height)
}

func (h TUIHandler) Close() {
	h.usecase.Close()
}

func (h TUIHandler) Snapshot() dto.SessionOutput {
	return h.usecase.Snapshot()
}

func (h TUIHandler) ReaderVisible() bool {
	return h.usecase.ReaderVisible()
}
