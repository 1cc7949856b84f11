package usecase

import (
	"context"
	"time"

	"shiori/internal/modules/library/domain"
	"shiori/internal/modules/library/dto"
	libraryin "shiori/internal/modules/library/port/in"
	"shiori/internal/modules/library/service"
)

type Interactor struct {
	svc *service.LibraryService
}

func NewInteractor(svc *service.LibraryService) libraryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) AddFolder(ctx context.Context, input dto.AddFolderInput) (dto.FolderOutput, error) {
	folder, err := i.svc.AddFolder(ctx, input.Path)
	if err != nil {
		return dto.FolderOutput{}, err
	}
	return toFolderOutput(folder), nil
}

func (i *Interactor) RemoveFolder(ctx context.Context, path string) error {
	return i.svc.RemoveFolder(ctx, path)
}

func (i *Interactor) ListFolders(ctx context.Context) ([]dto.FolderOutput, error) {
	folders, err := i.svc.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FolderOutput, 0, len(folders))
	for _, f := range folders {
		out = append(out, toFolderOutput(f))
	}
	return out, nil
}

func (i *Interactor) Scan(ctx context.Context) (dto.ScanOutput, error) {
	folders, books, err := i.svc.Scan(ctx)
	if err != nil {
		return dto.ScanOutput{}, err
	}
	return dto.ScanOutput{Folders: folders, Books: toBookOutputs(books)}, nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := i.svc.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return toBookOutputs(books), nil
}

func (i *Interactor) GetBook(ctx context.Context, path string) (dto.BookDetailOutput, error) {
	book, err := i.svc.GetBook(ctx, path)
	if err != nil {
		return dto.BookDetailOutput{}, err
	}
	return dto.BookDetailOutput{
		Path:      book.Path,
		Title:     book.Title,
		Author:    book.Author,
		Language:  book.Language,
		Direction: book.Direction,
		CoverURL:  book.CoverURL,
		IndexedAt: formatTime(book.IndexedAt),
	}, nil
}

func toFolderOutput(f domain.Folder) dto.FolderOutput {
	return dto.FolderOutput{Path: f.Path, AddedAt: formatTime(f.AddedAt)}
}

func toBookOutputs(books []domain.Book) []dto.BookOutput {
	out := make([]dto.BookOutput, 0, len(books))
	for _, b := range books {
		out = append(out, dto.BookOutput{
			Path:      b.Path,
			Title:     b.Title,
			Author:    b.Author,
			Language:  b.Language,
			Direction: b.Direction,
			HasCover:  b.HasCover(),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
