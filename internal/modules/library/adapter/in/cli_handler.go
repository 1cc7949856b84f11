package in

import (
	"context"

	"shiori/internal/modules/library/dto"
	libraryin "shiori/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddFolder(ctx context.Context, path string) (dto.FolderOutput, error) {
	return h.usecase.AddFolder(ctx, dto.AddFolderInput{Path: path})
}

func (h CLIHandler) RemoveFolder(ctx context.Context, path string) error {
	return h.usecase.RemoveFolder(ctx, path)
}

func (h CLIHandler) ListFolders(ctx context.Context) ([]dto.FolderOutput, error) {
	return h.usecase.ListFolders(ctx)
}

func (h CLIHandler) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) Scan(ctx context.Context) (dto.ScanOutput, error) {
	return h.usecase.Scan(ctx)
}

func (h CLIHandler) GetBook(ctx context.Context, path string) (dto.BookDetailOutput, error) {
	return h.usecase.GetBook(ctx, path)
}
