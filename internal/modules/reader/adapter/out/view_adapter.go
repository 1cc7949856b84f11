package out

import (
	readerout "shiori/internal/modules/reader/port/out"
	viewdomain "shiori/internal/modules/view/domain"
	viewin "shiori/internal/modules/view/port/in"
)

type ViewAdapter struct {
	views viewin.Usecase
}

func NewViewAdapter(views viewin.Usecase) readerout.ViewSwitcher {
	return &ViewAdapter{views: views}
}

func (a *ViewAdapter) ShowReader() error {
	return a.views.Show(viewdomain.Reader)
}

func (a *ViewAdapter) ShowLibrary() error {
	return a.views.Show(viewdomain.Library)
}

func (a *ViewAdapter) ReaderVisible() bool {
	return a.views.Is(viewdomain.Reader)
}
