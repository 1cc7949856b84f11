package in

import (
	readerin "shiori/internal/modules/reader/port/in"
)

// KeyRouter turns reader keys into session operations. It only acts while
// the reader view is shown.
type KeyRouter struct {
	usecase readerin.Usecase
}

func NewKeyRouter(usecase readerin.Usecase) KeyRouter {
	return KeyRouter{usecase: usecase}
}

// Handle reports whether the key was consumed.
func (r KeyRouter) Handle(key string) bool {
	if !r.usecase.ReaderVisible() {
		return false
	}
	switch key {
	case "right":
		r.usecase.Next()
	case "left":
		r.usecase.Previous()
	case "esc":
		if r.usecase.HasSession() {
			r.usecase.Close()
		} else {
			r.usecase.DismissError()
		}
	default:
		return false
	}
	return true
}
