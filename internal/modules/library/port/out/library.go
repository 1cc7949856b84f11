package out

import (
	"context"

	"shiori/internal/modules/library/domain"
)

type FolderStore interface {
	AddFolder(ctx context.Context, folder domain.Folder) error
	RemoveFolder(ctx context.Context, path string) error
	ListFolders(ctx context.Context) ([]domain.Folder, error)
}

// BookIndex is the last scan result, kept so the shelf shows up instantly
// on the next start.
type BookIndex interface {
	ReplaceBooks(ctx context.Context, books []domain.Book) error
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, path string) (domain.Book, error)
}

type Scanner interface {
	Scan(ctx context.Context, folders []string) ([]domain.Book, error)
}
