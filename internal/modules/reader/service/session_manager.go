package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"shiori/internal/modules/reader/domain"
	readerout "shiori/internal/modules/reader/port/out"
	"shiori/internal/platform/clock"
	apperrors "shiori/internal/platform/errors"
	"shiori/internal/platform/id"
)

const defaultOpenTimeout = 30 * time.Second

// themePresets are registered on every new rendition, in this order.
var themePresets = []struct {
	name  string
	rules readerout.ThemeRules
}{
	{name: domain.ThemeLight, rules: readerout.ThemeRules{Foreground: "#0f172a", Background: "#ffffff"}},
	{name: domain.ThemeDark, rules: readerout.ThemeRules{Foreground: "#f1f5f9", Background: "#0f172a"}},
}

type Options struct {
	Engine      readerout.Engine
	Directions  readerout.DirectionResolver
	Themes      readerout.ThemeSource
	Views       readerout.ViewSwitcher
	Presenter   readerout.Presenter
	Surface     readerout.Surface
	Clock       clock.Clock
	IDs         id.Generator
	OpenTimeout time.Duration
	Logger      *zap.Logger
}

// SessionManager owns the single reading session and its rendering handle.
// All navigation, theme and resize requests go through it.
type SessionManager struct {
	mu          sync.Mutex
	phase       domain.Phase
	gen         uint64
	session     domain.Session
	book        readerout.Book
	rendition   readerout.Rendition
	cancelOpen  context.CancelFunc
	unsubscribe func()
	immersive   bool
	lastErr     *domain.OpenError

	engine      readerout.Engine
	directions  readerout.DirectionResolver
	themes      readerout.ThemeSource
	views       readerout.ViewSwitcher
	presenter   readerout.Presenter
	surface     readerout.Surface
	clock       clock.Clock
	ids         id.Generator
	openTimeout time.Duration
	logger      *zap.Logger
}

func NewSessionManager(opts Options) *SessionManager {
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = defaultOpenTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = id.UUID{}
	}
	return &SessionManager{
		engine:      opts.Engine,
		directions:  opts.Directions,
		themes:      opts.Themes,
		views:       opts.Views,
		presenter:   opts.Presenter,
		surface:     opts.Surface,
		clock:       opts.Clock,
		ids:         opts.IDs,
		openTimeout: opts.OpenTimeout,
		logger:      opts.Logger.Named("session"),
	}
}

// Open runs the whole open sequence and returns once the session is Ready
// or the attempt failed. Only Idle accepts an open.
func (m *SessionManager) Open(ctx context.Context, locator string) (domain.Snapshot, error) {
	m.mu.Lock()
	if m.phase != domain.PhaseIdle {
		phase := m.phase
		m.mu.Unlock()
		return m.Snapshot(), fmt.Errorf("%w: session is %s", apperrors.ErrSessionBusy, phase)
	}
	m.gen++
	gen := m.gen
	openCtx, cancel := context.WithTimeout(ctx, m.openTimeout)
	m.cancelOpen = cancel
	m.phase = domain.PhaseOpening
	m.lastErr = nil
	m.session = domain.Session{
		ID:              m.ids.New(),
		Locator:         locator,
		Direction:       domain.LTR,
		DirectionSource: domain.SourceDefault,
		OpenedAt:        m.clock.Now(),
	}
	logger := m.logger.With(zap.String("session", m.session.ID), zap.String("locator", locator))
	m.mu.Unlock()
	defer cancel()

	if m.views != nil {
		if err := m.views.ShowReader(); err != nil {
			logger.Warn("show reader view", zap.Error(err))
		}
	}
	var resolution readerout.DirectionResolution
	if m.directions != nil {
		resolution = m.directions.Begin(openCtx, locator)
	}

	var (
		book      readerout.Book
		rendition readerout.Rendition
		meta      readerout.BookMetadata
	)
	release := func() {
		if rendition != nil {
			if err := guard(rendition.Destroy); err != nil {
				logger.Warn("destroy rendition", zap.Error(err))
			}
		}
		if book != nil {
			if err := guard(book.Close); err != nil {
				logger.Warn("close book", zap.Error(err))
			}
		}
	}
	fail := func(step string, err error, pending <-chan struct{}) (domain.Snapshot, error) {
		if pending != nil {
			go func() {
				<-pending
				release()
			}()
		} else {
			release()
		}
		return m.failOpen(gen, locator, step, err, openCtx, logger)
	}

	if pending, err := await(openCtx, func() error {
		var openErr error
		book, openErr = m.engine.Open(openCtx, locator)
		return openErr
	}); err != nil {
		return fail("open", err, pending)
	}
	if pending, err := await(openCtx, func() error { return book.Ready(openCtx) }); err != nil {
		return fail("ready", err, pending)
	}
	if pending, err := await(openCtx, func() error {
		var metaErr error
		meta, metaErr = book.Metadata(openCtx)
		return metaErr
	}); err != nil {
		return fail("metadata", err, pending)
	}

	direction, source := domain.LTR, domain.SourceDefault
	if resolution != nil {
		if meta.Direction != nil {
			resolution.Offer(*meta.Direction, domain.SourceMetadata)
		}
		if meta.SpineDirection != nil {
			resolution.Offer(*meta.SpineDirection, domain.SourceSpine)
		}
		direction, source = resolution.Wait(openCtx)
	}
	if !m.current(gen) {
		release()
		logger.Info("open abandoned before mount")
		return m.Snapshot(), apperrors.ErrOpenAborted
	}

	width, height := 0, 0
	if m.surface != nil {
		width, height = m.surface.Size()
	}
	if err := guard(func() error {
		var renderErr error
		rendition, renderErr = book.RenderTo(m.surface, readerout.RenderOptions{
			Width:     width,
			Height:    height,
			Flow:      readerout.FlowPaginated,
			Spread:    readerout.SpreadAlways,
			Direction: direction,
		})
		return renderErr
	}); err != nil {
		return fail("mount", err, nil)
	}
	for _, preset := range themePresets {
		if err := guard(func() error { return rendition.RegisterTheme(preset.name, preset.rules) }); err != nil {
			logger.Warn("register theme", zap.String("theme", preset.name), zap.Error(err))
		}
	}
	theme := m.currentTheme()
	if err := guard(func() error { return rendition.SelectTheme(theme) }); err != nil {
		logger.Warn("select theme", zap.String("theme", theme), zap.Error(err))
	}
	if pending, err := await(openCtx, func() error { return rendition.Display(openCtx) }); err != nil {
		return fail("display", err, pending)
	}

	var unsubscribe func()
	if m.themes != nil {
		unsubscribe = m.themes.Subscribe(m.applyTheme)
	}

	m.mu.Lock()
	if m.gen != gen || m.phase != domain.PhaseOpening {
		m.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		release()
		logger.Info("open abandoned after mount")
		return m.Snapshot(), apperrors.ErrOpenAborted
	}
	// A preference change that landed before the subscription is only
	// visible through the store.
	if latest := m.currentTheme(); latest != theme {
		if err := guard(func() error { return rendition.SelectTheme(latest) }); err != nil {
			logger.Warn("select theme", zap.String("theme", latest), zap.Error(err))
		} else {
			theme = latest
		}
	}
	m.book = book
	m.rendition = rendition
	m.unsubscribe = unsubscribe
	m.cancelOpen = nil
	m.session.Title = meta.Title
	m.session.Direction = direction
	m.session.DirectionSource = source
	m.session.Theme = theme
	m.phase = domain.PhaseReady
	m.immersive = true
	if m.presenter != nil {
		m.presenter.EnterImmersive()
	}
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	logger.Info("session ready",
		zap.String("direction", string(direction)),
		zap.String("direction_source", string(source)),
		zap.String("theme", theme),
	)
	return snapshot, nil
}

func (m *SessionManager) failOpen(gen uint64, locator, step string, cause error, openCtx context.Context, logger *zap.Logger) (domain.Snapshot, error) {
	m.mu.Lock()
	if m.gen != gen || m.phase != domain.PhaseOpening {
		m.mu.Unlock()
		logger.Info("open abandoned", zap.String("step", step), zap.Error(cause))
		return m.Snapshot(), apperrors.ErrOpenAborted
	}
	if errors.Is(openCtx.Err(), context.DeadlineExceeded) {
		cause = fmt.Errorf("book was not ready after %s: %w", m.openTimeout, cause)
	}
	openErr := &domain.OpenError{Locator: locator, Cause: cause}
	m.phase = domain.PhaseIdle
	m.cancelOpen = nil
	m.lastErr = openErr
	m.session = domain.Session{}
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	logger.Error("open failed", zap.String("step", step), zap.Error(cause))
	return snapshot, openErr
}

// Close tears the session down. It is safe to call at any time; from Idle or
// Closing it does nothing.
func (m *SessionManager) Close() {
	m.mu.Lock()
	if m.phase != domain.PhaseOpening && m.phase != domain.PhaseReady {
		m.mu.Unlock()
		return
	}
	from := m.phase
	m.phase = domain.PhaseClosing
	cancel := m.cancelOpen
	rendition, book, unsubscribe := m.rendition, m.book, m.unsubscribe
	m.cancelOpen, m.rendition, m.book, m.unsubscribe = nil, nil, nil, nil
	logger := m.logger.With(zap.String("session", m.session.ID), zap.String("locator", m.session.Locator))
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	if rendition != nil {
		if err := guard(rendition.Destroy); err != nil {
			logger.Warn("destroy rendition", zap.Error(err))
		}
	}
	if book != nil {
		if err := guard(book.Close); err != nil {
			logger.Warn("close book", zap.Error(err))
		}
	}

	m.mu.Lock()
	m.phase = domain.PhaseIdle
	m.session = domain.Session{}
	m.immersive = false
	if m.presenter != nil {
		m.presenter.ExitImmersive()
	}
	m.mu.Unlock()

	if m.views != nil {
		if err := m.views.ShowLibrary(); err != nil {
			logger.Warn("show library view", zap.Error(err))
		}
	}
	logger.Info("session closed", zap.Stringer("from", from))
}

// DismissError clears a failed open and returns to the library.
func (m *SessionManager) DismissError() {
	m.mu.Lock()
	if m.phase != domain.PhaseIdle {
		m.mu.Unlock()
		return
	}
	m.lastErr = nil
	m.mu.Unlock()
	if m.views != nil {
		if err := m.views.ShowLibrary(); err != nil {
			m.logger.Warn("show library view", zap.Error(err))
		}
	}
}

func (m *SessionManager) Next() {
	m.navigate(true)
}

func (m *SessionManager) Previous() {
	m.navigate(false)
}

// navigate maps a logical page control onto the engine. For rtl books the
// mapping is mirrored.
func (m *SessionManager) navigate(forward bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != domain.PhaseReady || m.rendition == nil {
		return
	}
	step, name := m.rendition.Next, "next"
	if forward == m.session.Direction.Mirrored() {
		step, name = m.rendition.Prev, "prev"
	}
	if err := guard(step); err != nil {
		m.logger.Warn("navigate", zap.String("primitive", name), zap.Error(err))
	}
}

func (m *SessionManager) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != domain.PhaseReady || m.rendition == nil {
		return
	}
	if err := guard(func() error { return m.rendition.Resize(width, height) }); err != nil {
		m.logger.Warn("resize", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

func (m *SessionManager) applyTheme(theme string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != domain.PhaseReady || m.rendition == nil {
		return
	}
	if err := guard(func() error { return m.rendition.SelectTheme(theme) }); err != nil {
		m.logger.Warn("select theme", zap.String("theme", theme), zap.Error(err))
		return
	}
	m.session.Theme = theme
}

func (m *SessionManager) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Phase:     m.phase,
		Session:   m.session,
		Immersive: m.immersive,
		LastError: m.lastErr,
	}
	if m.rendition != nil {
		snap.Location = m.rendition.Location()
	}
	return snap
}

func (m *SessionManager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == domain.PhaseOpening || m.phase == domain.PhaseReady
}

func (m *SessionManager) ReaderVisible() bool {
	return m.views != nil && m.views.ReaderVisible()
}

func (m *SessionManager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen == gen && m.phase == domain.PhaseOpening
}

func (m *SessionManager) currentTheme() string {
	if m.themes == nil {
		return domain.ThemeLight
	}
	if theme := m.themes.Current(); theme != "" {
		return theme
	}
	return domain.ThemeLight
}

// await runs fn and returns when it finishes or ctx ends. If ctx wins, the
// returned channel closes once fn has returned.
func await(ctx context.Context, fn func() error) (<-chan struct{}, error) {
	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		err = guard(fn)
	}()
	select {
	case <-done:
		return nil, err
	case <-ctx.Done():
		return done, ctx.Err()
	}
}

// guard turns an engine panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	return fn()
}
