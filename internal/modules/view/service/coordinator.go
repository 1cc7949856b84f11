package service

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"shiori/internal/modules/view/domain"
	viewin "shiori/internal/modules/view/port/in"
	apperrors "shiori/internal/platform/errors"
)

// Coordinator is the single source of truth for which top-level view is shown.
type Coordinator struct {
	mu      sync.RWMutex
	current domain.View
	logger  *zap.Logger
}

func NewCoordinator(logger *zap.Logger) viewin.Usecase {
	return &Coordinator{current: domain.Library, logger: logger.Named("view")}
}

func (c *Coordinator) Show(view domain.View) error {
	if !view.Valid() {
		return fmt.Errorf("%w: view %q", apperrors.ErrInvalidInput, view)
	}
	c.mu.Lock()
	prev := c.current
	c.current = view
	c.mu.Unlock()
	if prev != view {
		c.logger.Debug("view changed", zap.String("from", string(prev)), zap.String("to", string(view)))
	}
	return nil
}

func (c *Coordinator) Current() domain.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Coordinator) Is(view domain.View) bool {
	return c.Current() == view
}
