// Package epubmeta reads the few package-level facts shiori needs from an
// EPUB archive: reading direction, display metadata and the cover image.
package epubmeta

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/simp-lee/epub"

	apperrors "shiori/internal/platform/errors"
	"shiori/internal/platform/locator"
)

const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"

	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// rtlLanguages are primary language subtags written right to left.
var rtlLanguages = map[string]bool{
	"ar": true, "arc": true, "ckb": true, "dv": true, "fa": true,
	"he": true, "iw": true, "ps": true, "sd": true, "ug": true,
	"ur": true, "yi": true,
}

// Directions holds the direction hints found in the package document.
// Empty fields mean the hint is absent.
type Directions struct {
	Spine       string
	WritingMode string
}

// Info is what the bookshelf shows for one EPUB file.
type Info struct {
	Path      string
	Title     string
	Author    string
	Language  string
	Direction string
	CoverURL  string
}

type containerDoc struct {
	RootFiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDoc struct {
	Metas []struct {
		Name     string `xml:"name,attr"`
		Property string `xml:"property,attr"`
		Content  string `xml:"content,attr"`
		Value    string `xml:",chardata"`
	} `xml:"metadata>meta"`
	Spine struct {
		PageProgression string `xml:"page-progression-direction,attr"`
	} `xml:"spine"`
}

// PackageDirections reads the spine page-progression-direction and the
// primary-writing-mode meta of an opened book.
func PackageDirections(book *epub.Book) (Directions, error) {
	raw, err := book.ReadFile("META-INF/container.xml")
	if err != nil {
		return Directions{}, fmt.Errorf("read container: %w", err)
	}
	var container containerDoc
	if err := xml.Unmarshal(raw, &container); err != nil {
		return Directions{}, fmt.Errorf("decode container: %w", err)
	}
	if len(container.RootFiles) == 0 || container.RootFiles[0].FullPath == "" {
		return Directions{}, fmt.Errorf("container has no rootfile: %w", epub.ErrInvalidEPub)
	}
	raw, err = book.ReadFile(container.RootFiles[0].FullPath)
	if err != nil {
		return Directions{}, fmt.Errorf("read package document: %w", err)
	}
	var pkg packageDoc
	if err := xml.Unmarshal(raw, &pkg); err != nil {
		return Directions{}, fmt.Errorf("decode package document: %w", err)
	}

	out := Directions{Spine: NormalizeDirection(pkg.Spine.PageProgression)}
	for _, meta := range pkg.Metas {
		if meta.Name == "primary-writing-mode" || meta.Property == "primary-writing-mode" {
			mode := meta.Content
			if mode == "" {
				mode = meta.Value
			}
			out.WritingMode = strings.ToLower(strings.TrimSpace(mode))
			break
		}
	}
	return out, nil
}

// NormalizeDirection returns "ltr", "rtl" or "" for anything else.
func NormalizeDirection(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DirectionLTR:
		return DirectionLTR
	case DirectionRTL:
		return DirectionRTL
	}
	return ""
}

// WritingModeDirection maps primary-writing-mode values such as
// "horizontal-rl" or "vertical-rl" to a page direction.
func WritingModeDirection(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch {
	case mode == "":
		return ""
	case strings.HasSuffix(mode, "-rl"):
		return DirectionRTL
	case strings.HasSuffix(mode, "-lr"):
		return DirectionLTR
	}
	return ""
}

// LanguageDirection returns "rtl" for right-to-left scripts, "" otherwise.
func LanguageDirection(tag string) string {
	primary := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(primary, "-_"); i >= 0 {
		primary = primary[:i]
	}
	if rtlLanguages[primary] {
		return DirectionRTL
	}
	return ""
}

// Detect opens the EPUB at path and decides its direction from the spine,
// then the writing mode, then the language. It returns
// apperrors.ErrDirectionUnknown when none of them gives an answer.
func Detect(path string) (string, error) {
	book, err := epub.Open(path)
	if err != nil {
		return "", err
	}
	defer book.Close()
	return detectBook(book)
}

func detectBook(book *epub.Book) (string, error) {
	dirs, err := PackageDirections(book)
	if err != nil {
		return "", err
	}
	if dirs.Spine != "" {
		return dirs.Spine, nil
	}
	if dir := WritingModeDirection(dirs.WritingMode); dir != "" {
		return dir, nil
	}
	for _, lang := range book.Metadata().Language {
		if dir := LanguageDirection(lang); dir != "" {
			return dir, nil
		}
	}
	return "", apperrors.ErrDirectionUnknown
}

// Inspect reads the display metadata of one EPUB.
func Inspect(path string) (Info, error) {
	book, err := epub.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer book.Close()

	meta := book.Metadata()
	info := Info{Path: path, Title: UnknownTitle, Author: UnknownAuthor}
	if len(meta.Titles) > 0 && strings.TrimSpace(meta.Titles[0]) != "" {
		info.Title = strings.TrimSpace(meta.Titles[0])
	}
	if len(meta.Authors) > 0 && strings.TrimSpace(meta.Authors[0].Name) != "" {
		info.Author = strings.TrimSpace(meta.Authors[0].Name)
	}
	if len(meta.Language) > 0 {
		info.Language = meta.Language[0]
	}
	if dir, err := detectBook(book); err == nil {
		info.Direction = dir
	}
	if cover, err := book.Cover(); err == nil && len(cover.Data) > 0 {
		info.CoverURL = "data:" + cover.MediaType + ";base64," + base64.StdEncoding.EncodeToString(cover.Data)
	}
	return info, nil
}

// Scan walks every root for .epub files. Unreadable entries and files that
// fail to parse are skipped.
func Scan(roots []string) []Info {
	books := make([]Info, 0)
	seen := map[string]bool{}
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !locator.IsEPUB(path) || seen[path] {
				return nil
			}
			info, inspectErr := Inspect(path)
			if inspectErr != nil {
				return nil
			}
			seen[path] = true
			books = append(books, info)
			return nil
		})
	}
	return books
}

// IsUnknown reports whether err means no direction hint exists.
func IsUnknown(err error) bool {
	return errors.Is(err, apperrors.ErrDirectionUnknown)
}
