package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// Folder is a directory the user added to the bookshelf.
type Folder struct {
	Path    string
	AddedAt time.Time
}

type Book struct {
	Path      string
	Title     string
	Author    string
	Language  string
	Direction string
	CoverURL  string
	IndexedAt time.Time
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.Path) == "" {
		return fmt.Errorf("book path is required")
	}
	return nil
}

// Normalize fills the display fallbacks for missing metadata.
func (b Book) Normalize() Book {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		b.Title = UnknownTitle
	}
	b.Author = strings.TrimSpace(b.Author)
	if b.Author == "" {
		b.Author = UnknownAuthor
	}
	return b
}

func (b Book) HasCover() bool {
	return strings.HasPrefix(b.CoverURL, "data:")
}
