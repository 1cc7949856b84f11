package reader_test

import (
	"testing"

	"shiori/internal/ui/views/reader"
)

func TestSurfaceKeepsLastFrameAndSize(t *testing.T) {
	t.Parallel()
	s := reader.NewSurface()
	if w, h := s.Size(); w != 80 || h != 24 {
		t.Fatalf("expected default 80x24, got %dx%d", w, h)
	}
	s.SetSize(120, 40)
	s.SetSize(0, 10)
	if w, h := s.Size(); w != 120 || h != 40 {
		t.Fatalf("expected 120x40 after ignoring zero width, got %dx%d", w, h)
	}
	s.Paint("page one")
	s.Paint("page two")
	if got := s.Frame(); got != "page two" {
		t.Fatalf("expected last frame, got %q", got)
	}
}
