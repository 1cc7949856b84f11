package in

import (
	"context"

	"shiori/internal/modules/library/dto"
)

type Usecase interface {
	AddFolder(ctx context.Context, input dto.AddFolderInput) (dto.FolderOutput, error)
	RemoveFolder(ctx context.Context, path string) error
	ListFolders(ctx context.Context) ([]dto.FolderOutput, error)
	Scan(ctx context.Context) (dto.ScanOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	GetBook(ctx context.Context, path string) (dto.BookDetailOutput, error)
}
