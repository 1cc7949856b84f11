package dto

type OpenInput struct {
	Path string
}

type SessionOutput struct {
	Phase           string
	SessionID       string
	Locator         string
	Title           string
	Direction       string
	DirectionSource string
	Theme           string
	Immersive       bool
	Chapter         int
	Chapters        int
	ChapterTitle    string
	Page            int
	Pages           int
	Percent         float64
	Error           *ErrorOutput
}

// ErrorOutput is what the reader view shows after a failed open.
type ErrorOutput struct {
	Message string
	Locator string
}
