package backend_test

import (
	"context"
	"testing"

	"shiori/internal/platform/backend"
	"shiori/internal/platform/epubmeta/epubtest"
)

func TestServerDetectDirection(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rtl := epubtest.Write(t, dir, "rtl.epub", epubtest.Book{PageProgression: "rtl"})
	plain := epubtest.Write(t, dir, "plain.epub", epubtest.Book{})
	srv := backend.NewServer()

	out, err := srv.DetectDirection(context.Background(), &backend.DetectDirectionRequest{Path: rtl})
	if err != nil {
		t.Fatalf("detect rtl: %v", err)
	}
	if out.Direction != "rtl" {
		t.Fatalf("expected rtl, got %q", out.Direction)
	}
	out, err = srv.DetectDirection(context.Background(), &backend.DetectDirectionRequest{Path: plain})
	if err != nil {
		t.Fatalf("detect plain: %v", err)
	}
	if out.Direction != "" {
		t.Fatalf("expected empty direction for hintless book, got %q", out.Direction)
	}
	if _, err := srv.DetectDirection(context.Background(), &backend.DetectDirectionRequest{Path: dir + "/missing.epub"}); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestServerScanBooks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	epubtest.Write(t, dir, "one.epub", epubtest.Book{Title: "One", Author: "A"})
	epubtest.Write(t, dir, "sub/two.epub", epubtest.Book{Title: "Two"})

	out, err := backend.NewServer().ScanBooks(context.Background(), &backend.ScanBooksRequest{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out.Books) != 2 {
		t.Fatalf("expected 2 books, got %+v", out.Books)
	}
}
