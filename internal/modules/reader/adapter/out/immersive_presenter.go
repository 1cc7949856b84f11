package out

import "sync/atomic"

// ImmersivePresenter is the full-screen flag the TUI reads to hide its chrome.
type ImmersivePresenter struct {
	active atomic.Bool
}

func NewImmersivePresenter() *ImmersivePresenter {
	return &ImmersivePresenter{}
}

func (p *ImmersivePresenter) EnterImmersive() {
	p.active.Store(true)
}

func (p *ImmersivePresenter) ExitImmersive() {
	p.active.Store(false)
}

func (p *ImmersivePresenter) Active() bool {
	return p.active.Load()
}
