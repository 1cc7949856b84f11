package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shiori/internal/modules/library/domain"
	apperrors "shiori/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore keeps the folder list and the book index in one database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS library_paths (
  path TEXT PRIMARY KEY,
  added_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS books (
  path TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  language TEXT,
  direction TEXT,
  cover_data_url TEXT,
  indexed_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create library tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddFolder(ctx context.Context, folder domain.Folder) error {
	const stmt = `INSERT INTO library_paths (path, added_at) VALUES (?, ?) ON CONFLICT(path) DO NOTHING;`
	if _, err := s.db.ExecContext(ctx, stmt, folder.Path, folder.AddedAt.Format(timeLayout)); err != nil {
		return fmt.Errorf("add folder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveFolder(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM library_paths WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("remove folder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, path)
	}
	return nil
}

func (s *SQLiteStore) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, added_at FROM library_paths ORDER BY added_at, path`)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()
	out := make([]domain.Folder, 0)
	for rows.Next() {
		var (
			folder  domain.Folder
			addedAt string
		)
		if err := rows.Scan(&folder.Path, &addedAt); err != nil {
			return nil, fmt.Errorf("scan folder row: %w", err)
		}
		folder.AddedAt, _ = time.Parse(timeLayout, addedAt)
		out = append(out, folder)
	}
	return out, rows.Err()
}

// ReplaceBooks swaps the whole index in one transaction.
func (s *SQLiteStore) ReplaceBooks(ctx context.Context, books []domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("reset books: %w", err)
	}
	const stmt = `
INSERT INTO books (path, title, author, language, direction, cover_data_url, indexed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  title=excluded.title,
  author=excluded.author,
  language=excluded.language,
  direction=excluded.direction,
  cover_data_url=excluded.cover_data_url,
  indexed_at=excluded.indexed_at;
`
	for _, book := range books {
		if _, err := tx.ExecContext(ctx, stmt,
			book.Path,
			book.Title,
			book.Author,
			book.Language,
			book.Direction,
			book.CoverURL,
			book.IndexedAt.Format(timeLayout),
		); err != nil {
			return fmt.Errorf("upsert book: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT path, title, author, language, direction, cover_data_url, indexed_at
FROM books ORDER BY title COLLATE NOCASE, path`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	out := make([]domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, book)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetBook(ctx context.Context, path string) (domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT path, title, author, language, direction, cover_data_url, indexed_at
FROM books WHERE path = ?`, path)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, fmt.Errorf("%w: book %s", apperrors.ErrNotFound, path)
	}
	return book, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (domain.Book, error) {
	var (
		book                          domain.Book
		language, direction, coverURL sql.NullString
		indexedAt                     string
	)
	if err := row.Scan(&book.Path, &book.Title, &book.Author, &language, &direction, &coverURL, &indexedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Book{}, err
		}
		return domain.Book{}, fmt.Errorf("scan book row: %w", err)
	}
	book.Language = language.String
	book.Direction = direction.String
	book.CoverURL = coverURL.String
	book.IndexedAt, _ = time.Parse(timeLayout, indexedAt)
	return book, nil
}
