package in

import "shiori/internal/modules/view/domain"

type Usecase interface {
	Show(view domain.View) error
	Current() domain.View
	Is(view domain.View) bool
}
