package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"shiori/internal/modules/reader/domain"
	readerout "shiori/internal/modules/reader/port/out"
	"shiori/internal/modules/reader/service"
	"shiori/internal/platform/logging"
)

type fakeRendition struct {
	mu           sync.Mutex
	calls        []string
	registered   []string
	selected     string
	destroys     int
	destroyGate  chan struct{}
	destroyErr   error
	selectErr    error
	displayErr   error
	displayGate  chan struct{}
	displayCalls chan struct{}
	destroyStart chan struct{}
}

func (r *fakeRendition) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRendition) RegisterTheme(name string, _ readerout.ThemeRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, name)
	return nil
}

func (r *fakeRendition) SelectTheme(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selectErr != nil {
		return r.selectErr
	}
	r.selected = name
	return nil
}

func (r *fakeRendition) Display(ctx context.Context) error {
	if r.displayCalls != nil {
		r.displayCalls <- struct{}{}
	}
	if r.displayGate != nil {
		select {
		case <-r.displayGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.displayErr
}

func (r *fakeRendition) Next() error           { r.record("next"); return nil }
func (r *fakeRendition) Prev() error           { r.record("prev"); return nil }
func (r *fakeRendition) Resize(int, int) error { r.record("resize"); return nil }
func (r *fakeRendition) Location() domain.Location {
	return domain.Location{Chapter: 1, Chapters: 1, Page: 1, Pages: 1}
}

func (r *fakeRendition) Destroy() error {
	if r.destroyStart != nil {
		close(r.destroyStart)
	}
	if r.destroyGate != nil {
		<-r.destroyGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroys++
	return r.destroyErr
}

func (r *fakeRendition) snapshot() (calls []string, registered []string, selected string, destroys int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...), append([]string(nil), r.registered...), r.selected, r.destroys
}

type fakeBook struct {
	mu         sync.Mutex
	readyGate  chan struct{}
	readyCalls chan struct{}
	readyErr   error
	meta       readerout.BookMetadata
	metaErr    error
	rendition  *fakeRendition
	renders    int
	lastOpts   readerout.RenderOptions
	closes     int
}

func (b *fakeBook) Ready(ctx context.Context) error {
	if b.readyCalls != nil {
		b.readyCalls <- struct{}{}
	}
	if b.readyGate != nil {
		select {
		case <-b.readyGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return b.readyErr
}

func (b *fakeBook) Metadata(context.Context) (readerout.BookMetadata, error) {
	return b.meta, b.metaErr
}

func (b *fakeBook) RenderTo(_ readerout.Surface, opts readerout.RenderOptions) (readerout.Rendition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renders++
	b.lastOpts = opts
	return b.rendition, nil
}

func (b *fakeBook) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	return nil
}

func (b *fakeBook) counts() (renders, closes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders, b.closes
}

type fakeEngine struct {
	mu      sync.Mutex
	book    *fakeBook
	openErr error
	opens   int
}

func (e *fakeEngine) Open(context.Context, string) (readerout.Book, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opens++
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.book, nil
}

type fakeResolution struct {
	mu        sync.Mutex
	detector  *domain.Direction
	offered   []domain.DirectionSource
	direction domain.Direction
	source    domain.DirectionSource
}

func (r *fakeResolution) Offer(direction domain.Direction, source domain.DirectionSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offered = append(r.offered, source)
	if r.direction == "" {
		r.direction, r.source = direction, source
	}
}

func (r *fakeResolution) Wait(context.Context) (domain.Direction, domain.DirectionSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detector != nil {
		return *r.detector, domain.SourceDetector
	}
	if r.direction == "" {
		return domain.LTR, domain.SourceDefault
	}
	return r.direction, r.source
}

type fakeResolver struct {
	detector *domain.Direction
	last     *fakeResolution
}

func (f *fakeResolver) Begin(context.Context, string) readerout.DirectionResolution {
	f.last = &fakeResolution{detector: f.detector}
	return f.last
}

type fakeThemes struct {
	mu        sync.Mutex
	current   string
	listeners map[int]func(string)
	next      int
}

func newFakeThemes(current string) *fakeThemes {
	return &fakeThemes{current: current, listeners: map[int]func(string){}}
}

func (f *fakeThemes) Current() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeThemes) Subscribe(listener func(string)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := f.next
	f.listeners[id] = listener
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeThemes) set(theme string) {
	f.mu.Lock()
	f.current = theme
	listeners := make([]func(string), 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()
	for _, l := range listeners {
		l(theme)
	}
}

func (f *fakeThemes) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

type fakeViews struct {
	mu      sync.Mutex
	reader  bool
	history []string
}

func (v *fakeViews) ShowReader() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reader = true
	v.history = append(v.history, "reader")
	return nil
}

func (v *fakeViews) ShowLibrary() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reader = false
	v.history = append(v.history, "library")
	return nil
}

func (v *fakeViews) ReaderVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reader
}

type fakePresenter struct {
	mu     sync.Mutex
	active bool
}

func (p *fakePresenter) EnterImmersive() { p.mu.Lock(); p.active = true; p.mu.Unlock() }
func (p *fakePresenter) ExitImmersive()  { p.mu.Lock(); p.active = false; p.mu.Unlock() }
func (p *fakePresenter) isActive() bool  { p.mu.Lock(); defer p.mu.Unlock(); return p.active }

type fakeSurface struct{}

func (fakeSurface) Size() (int, int) { return 100, 30 }
func (fakeSurface) Paint(string)     {}

type fakeClock struct{}

func (fakeClock) Now() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

type fakeID struct{}

func (fakeID) New() string { return "session-1" }

type harness struct {
	engine    *fakeEngine
	book      *fakeBook
	rendition *fakeRendition
	resolver  *fakeResolver
	themes    *fakeThemes
	views     *fakeViews
	presenter *fakePresenter
	manager   *service.SessionManager
}

func newHarness(timeout time.Duration) *harness {
	rendition := &fakeRendition{}
	book := &fakeBook{rendition: rendition}
	h := &harness{
		engine:    &fakeEngine{book: book},
		book:      book,
		rendition: rendition,
		resolver:  &fakeResolver{},
		themes:    newFakeThemes(domain.ThemeLight),
		views:     &fakeViews{},
		presenter: &fakePresenter{},
	}
	h.manager = service.NewSessionManager(service.Options{
		Engine:      h.engine,
		Directions:  h.resolver,
		Themes:      h.themes,
		Views:       h.views,
		Presenter:   h.presenter,
		Surface:     fakeSurface{},
		Clock:       fakeClock{},
		IDs:         fakeID{},
		OpenTimeout: timeout,
		Logger:      logging.Nop(),
	})
	return h
}

func direction(d domain.Direction) *domain.Direction { return &d }

var errBoom = errors.New("boom")
