package reader

import "sync"

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Surface is the frame buffer the rendition paints into. The session
// manager writes from command goroutines; View reads it on the UI loop.
type Surface struct {
	mu     sync.Mutex
	width  int
	height int
	frame  string
}

func NewSurface() *Surface {
	return &Surface{width: defaultWidth, height: defaultHeight}
}

func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

func (s *Surface) Paint(frame string) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

func (s *Surface) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}
