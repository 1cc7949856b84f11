package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"shiori/internal/modules/library/domain"
	libraryout "shiori/internal/modules/library/port/out"
	"shiori/internal/platform/clock"
	apperrors "shiori/internal/platform/errors"
)

// LibraryService owns the folder list and keeps the book index in step
// with the last scan.
type LibraryService struct {
	folders libraryout.FolderStore
	index   libraryout.BookIndex
	scanner libraryout.Scanner
	clock   clock.Clock
	logger  *zap.Logger
}

func NewLibraryService(folders libraryout.FolderStore, index libraryout.BookIndex, scanner libraryout.Scanner, clk clock.Clock, logger *zap.Logger) *LibraryService {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &LibraryService{
		folders: folders,
		index:   index,
		scanner: scanner,
		clock:   clk,
		logger:  logger.Named("library"),
	}
}

func (s *LibraryService) AddFolder(ctx context.Context, path string) (domain.Folder, error) {
	abs, err := folderPath(path)
	if err != nil {
		return domain.Folder{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return domain.Folder{}, fmt.Errorf("%w: %s is not a directory", apperrors.ErrInvalidInput, abs)
	}
	folder := domain.Folder{Path: abs, AddedAt: s.clock.Now()}
	if err := s.folders.AddFolder(ctx, folder); err != nil {
		return domain.Folder{}, err
	}
	s.logger.Info("folder added", zap.String("path", abs))
	return folder, nil
}

func (s *LibraryService) RemoveFolder(ctx context.Context, path string) error {
	abs, err := folderPath(path)
	if err != nil {
		return err
	}
	if err := s.folders.RemoveFolder(ctx, abs); err != nil {
		return err
	}
	s.logger.Info("folder removed", zap.String("path", abs))
	return nil
}

func (s *LibraryService) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	return s.folders.ListFolders(ctx)
}

// Scan walks every saved folder and replaces the index with what it found.
// It returns the folder count and the books in index order.
func (s *LibraryService) Scan(ctx context.Context) (int, []domain.Book, error) {
	folders, err := s.folders.ListFolders(ctx)
	if err != nil {
		return 0, nil, err
	}
	paths := make([]string, 0, len(folders))
	for _, f := range folders {
		paths = append(paths, f.Path)
	}

	found, err := s.scanner.Scan(ctx, paths)
	if err != nil {
		return 0, nil, fmt.Errorf("scan folders: %w", err)
	}
	now := s.clock.Now()
	books := make([]domain.Book, 0, len(found))
	for _, b := range found {
		if err := b.Validate(); err != nil {
			s.logger.Warn("skipping scanned book", zap.Error(err))
			continue
		}
		b = b.Normalize()
		b.IndexedAt = now
		books = append(books, b)
	}
	if err := s.index.ReplaceBooks(ctx, books); err != nil {
		return 0, nil, err
	}
	s.logger.Info("library scanned", zap.Int("folders", len(paths)), zap.Int("books", len(books)))

	indexed, err := s.index.ListBooks(ctx)
	if err != nil {
		return 0, nil, err
	}
	return len(paths), indexed, nil
}

func (s *LibraryService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.index.ListBooks(ctx)
}

func (s *LibraryService) GetBook(ctx context.Context, path string) (domain.Book, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Book{}, fmt.Errorf("%w: book path is required", apperrors.ErrInvalidInput)
	}
	return s.index.GetBook(ctx, path)
}

func folderPath(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: folder path is required", apperrors.ErrInvalidInput)
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return filepath.Clean(abs), nil
}
