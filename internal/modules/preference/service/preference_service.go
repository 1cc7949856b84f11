package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"shiori/internal/modules/preference/domain"
	prefout "shiori/internal/modules/preference/port/out"
	apperrors "shiori/internal/platform/errors"
)

type listener struct {
	id int
	fn func(domain.Theme)
}

// PreferenceService holds the active theme. Listeners run synchronously on
// the setting goroutine, in subscription order, after the lock is released.
type PreferenceService struct {
	mu        sync.Mutex
	theme     domain.Theme
	origin    domain.Origin
	listeners []listener
	nextID    int

	store     prefout.ThemeStore
	detectors []prefout.SchemeDetector
	logger    *zap.Logger
}

func NewPreferenceService(store prefout.ThemeStore, detectors []prefout.SchemeDetector, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		theme:     domain.Light,
		origin:    domain.OriginDefault,
		store:     store,
		detectors: detectors,
		logger:    logger.Named("preference"),
	}
}

// Load resolves the startup theme: saved value, then the first detector that
// answers, then light. A broken store is logged and skipped.
func (s *PreferenceService) Load(ctx context.Context) (domain.Theme, domain.Origin) {
	theme, origin := s.resolveStartup(ctx)
	s.mu.Lock()
	s.theme = theme
	s.origin = origin
	s.mu.Unlock()
	s.logger.Info("theme loaded", zap.String("theme", string(theme)), zap.String("origin", string(origin)))
	return theme, origin
}

func (s *PreferenceService) resolveStartup(ctx context.Context) (domain.Theme, domain.Origin) {
	if s.store != nil {
		theme, ok, err := s.store.Load(ctx)
		switch {
		case err != nil:
			s.logger.Warn("read saved theme", zap.Error(err))
		case ok && theme.Valid():
			return theme, domain.OriginSaved
		}
	}
	for _, d := range s.detectors {
		prefersDark, ok := d.Detect()
		if !ok {
			continue
		}
		s.logger.Debug("color scheme detected", zap.String("detector", d.Name()), zap.Bool("dark", prefersDark))
		if prefersDark {
			return domain.Dark, domain.OriginSystem
		}
		return domain.Light, domain.OriginSystem
	}
	return domain.Light, domain.OriginDefault
}

func (s *PreferenceService) Get() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *PreferenceService) Origin() domain.Origin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

// Set persists theme before notifying listeners. A failed write is only
// logged; the change still takes effect.
func (s *PreferenceService) Set(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownTheme, theme)
	}
	s.commit(ctx, func(domain.Theme) domain.Theme { return theme })
	return nil
}

// Toggle flips the theme under the same lock that reads it.
func (s *PreferenceService) Toggle(ctx context.Context) domain.Theme {
	return s.commit(ctx, domain.Theme.Toggle)
}

func (s *PreferenceService) commit(ctx context.Context, next func(domain.Theme) domain.Theme) domain.Theme {
	s.mu.Lock()
	theme := next(s.theme)
	s.theme = theme
	s.origin = domain.OriginUser
	snapshot := make([]listener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(ctx, theme); err != nil {
			s.logger.Warn("persist theme", zap.String("theme", string(theme)), zap.Error(err))
		}
	}
	for _, l := range snapshot {
		l.fn(theme)
	}
	return theme
}

func (s *PreferenceService) Subscribe(fn func(domain.Theme)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
