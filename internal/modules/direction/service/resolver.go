package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shiori/internal/modules/direction/domain"
	directionout "shiori/internal/modules/direction/port/out"
	apperrors "shiori/internal/platform/errors"
)

const defaultDetectTimeout = 3 * time.Second

// Resolver decides the reading direction of one document per open. Nothing
// is cached between calls.
type Resolver struct {
	detector directionout.Detector
	timeout  time.Duration
	logger   *zap.Logger
}

func NewResolver(detector directionout.Detector, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultDetectTimeout
	}
	return &Resolver{detector: detector, timeout: timeout, logger: logger.Named("direction")}
}

// Resolution is a single in-flight resolve. The detector runs in the
// background; engine-side candidates are fed with Offer.
type Resolution struct {
	locator string
	latch   *domain.Latch
	done    chan struct{}
	logger  *zap.Logger
}

// Begin starts the external detector for locator and returns immediately.
func (r *Resolver) Begin(ctx context.Context, locator string) *Resolution {
	res := &Resolution{
		locator: locator,
		latch:   domain.NewLatch(),
		done:    make(chan struct{}),
		logger:  r.logger.With(zap.String("locator", locator)),
	}
	if r.detector == nil {
		close(res.done)
		return res
	}
	go func() {
		defer close(res.done)
		detectCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		dir, err := r.detector.Detect(detectCtx, locator)
		switch {
		case errors.Is(err, apperrors.ErrDirectionUnknown):
			res.logger.Debug("detector has no direction hint")
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(detectCtx.Err(), context.DeadlineExceeded):
			res.logger.Warn("direction detector timed out, using document metadata", zap.Duration("timeout", r.timeout))
		case err != nil:
			res.logger.Warn("direction detector failed, using document metadata", zap.Error(err))
		default:
			res.Offer(domain.Signal{Direction: dir, Source: domain.SourceDetector})
		}
	}()
	return res
}

func (r *Resolution) Offer(sig domain.Signal) bool {
	accepted := r.latch.Offer(sig)
	if !accepted {
		r.logger.Debug("direction signal ignored", zap.String("direction", string(sig.Direction)), zap.Stringer("source", sig.Source))
	}
	return accepted
}

// Wait blocks until the detector has settled or ctx ends, then returns the
// winning signal.
func (r *Resolution) Wait(ctx context.Context) domain.Signal {
	select {
	case <-r.done:
	case <-ctx.Done():
		r.logger.Warn("direction wait cancelled", zap.Error(ctx.Err()))
	}
	sig := r.latch.Current()
	r.logger.Debug("direction resolved", zap.String("direction", string(sig.Direction)), zap.Stringer("source", sig.Source))
	return sig
}

// Resolve runs the detector and the metadata lookup concurrently.
func (r *Resolver) Resolve(ctx context.Context, locator string, metadata func(context.Context) ([]domain.Signal, error)) domain.Signal {
	res := r.Begin(ctx, locator)
	if metadata != nil {
		candidates, err := metadata(ctx)
		if err != nil {
			res.logger.Warn("read document direction metadata", zap.Error(err))
		}
		for _, c := range candidates {
			res.Offer(c)
		}
	}
	return res.Wait(ctx)
}
