// Package epubtest builds small EPUB archives for tests.
package epubtest

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Book describes the archive to build. Zero values produce a minimal
// single-chapter English book without direction hints.
type Book struct {
	Title           string
	Author          string
	Language        string
	PageProgression string
	WritingMode     string
	Chapters        []string
	Cover           []byte
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// Write creates name inside dir and returns its path.
func Write(t testing.TB, dir, name string, b Book) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("write mimetype: %v", err)
	}
	_, _ = mt.Write([]byte("application/epub+zip"))

	chapters := b.Chapters
	if len(chapters) == 0 {
		chapters = []string{"It was a quiet morning."}
	}
	files := map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      packageDocument(b, len(chapters)),
	}
	for i, text := range chapters {
		files[fmt.Sprintf("OEBPS/ch%d.xhtml", i+1)] = chapterDocument(i+1, text)
	}
	for _, name := range []string{"META-INF/container.xml", "OEBPS/content.opf"} {
		writeEntry(t, zw, name, []byte(files[name]))
	}
	for i := range chapters {
		name := fmt.Sprintf("OEBPS/ch%d.xhtml", i+1)
		writeEntry(t, zw, name, []byte(files[name]))
	}
	if len(b.Cover) > 0 {
		writeEntry(t, zw, "OEBPS/cover.png", b.Cover)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close fixture zip: %v", err)
	}
	return path
}

func writeEntry(t testing.TB, zw *zip.Writer, name string, data []byte) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func packageDocument(b Book, chapters int) string {
	title := b.Title
	if title == "" {
		title = "Fixture"
	}
	lang := b.Language
	if lang == "" {
		lang = "en"
	}
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:uuid:fixture</dc:identifier>
`)
	fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", title)
	if b.Author != "" {
		fmt.Fprintf(&sb, "    <dc:creator>%s</dc:creator>\n", b.Author)
	}
	fmt.Fprintf(&sb, "    <dc:language>%s</dc:language>\n", lang)
	if b.WritingMode != "" {
		fmt.Fprintf(&sb, "    <meta name=\"primary-writing-mode\" content=\"%s\"/>\n", b.WritingMode)
	}
	if len(b.Cover) > 0 {
		sb.WriteString("    <meta name=\"cover\" content=\"cover-image\"/>\n")
	}
	sb.WriteString("  </metadata>\n  <manifest>\n")
	for i := 1; i <= chapters; i++ {
		fmt.Fprintf(&sb, "    <item id=\"ch%d\" href=\"ch%d.xhtml\" media-type=\"application/xhtml+xml\"/>\n", i, i)
	}
	if len(b.Cover) > 0 {
		sb.WriteString("    <item id=\"cover-image\" href=\"cover.png\" media-type=\"image/png\" properties=\"cover-image\"/>\n")
	}
	sb.WriteString("  </manifest>\n")
	if b.PageProgression != "" {
		fmt.Fprintf(&sb, "  <spine page-progression-direction=\"%s\">\n", b.PageProgression)
	} else {
		sb.WriteString("  <spine>\n")
	}
	for i := 1; i <= chapters; i++ {
		fmt.Fprintf(&sb, "    <itemref idref=\"ch%d\"/>\n", i)
	}
	sb.WriteString("  </spine>\n</package>\n")
	return sb.String()
}

func chapterDocument(n int, text string) string {
	var body strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		fmt.Fprintf(&body, "<p>%s</p>\n", para)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter %d</title></head>
<body>
%s</body>
</html>`, n, body.String())
}
