package out

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"shiori/internal/modules/library/domain"
	libraryout "shiori/internal/modules/library/port/out"
	"shiori/internal/platform/backend"
	"shiori/internal/platform/epubmeta"
	apperrors "shiori/internal/platform/errors"
)

type scanBackend interface {
	ScanBooks(ctx context.Context, paths []string) ([]backend.BookRecord, error)
}

// BackendScanner asks the backend process to walk the folders. Results are
// cached per folder set; when the backend binary is missing the scan runs
// in-process instead.
type BackendScanner struct {
	backend scanBackend
	cache   *cache.Cache
	logger  *zap.Logger
}

func NewBackendScanner(b scanBackend, ttl time.Duration, logger *zap.Logger) libraryout.Scanner {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &BackendScanner{
		backend: b,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger.Named("scanner"),
	}
}

func (s *BackendScanner) Scan(ctx context.Context, folders []string) ([]domain.Book, error) {
	key := cacheKey(folders)
	if cached, ok := s.cache.Get(key); ok {
		if books, ok := cached.([]domain.Book); ok {
			s.logger.Debug("scan cache hit", zap.Int("books", len(books)))
			return books, nil
		}
	}

	records, err := s.backend.ScanBooks(ctx, folders)
	if errors.Is(err, apperrors.ErrBackendUnavailable) {
		s.logger.Warn("backend unavailable, scanning in-process", zap.Error(err))
		records = localScan(folders)
		err = nil
	}
	if err != nil {
		return nil, err
	}

	books := make([]domain.Book, 0, len(records))
	for _, r := range records {
		books = append(books, domain.Book{
			Path:      r.Path,
			Title:     r.Title,
			Author:    r.Author,
			Language:  r.Language,
			Direction: r.Direction,
			CoverURL:  r.CoverURL,
		}.Normalize())
	}
	s.cache.Set(key, books, cache.DefaultExpiration)
	return books, nil
}

// Invalidate drops every cached scan.
func (s *BackendScanner) Invalidate() {
	s.cache.Flush()
}

func localScan(folders []string) []backend.BookRecord {
	infos := epubmeta.Scan(folders)
	out := make([]backend.BookRecord, 0, len(infos))
	for _, info := range infos {
		out = append(out, backend.RecordFromInfo(info))
	}
	return out
}

func cacheKey(folders []string) string {
	sorted := append([]string(nil), folders...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
