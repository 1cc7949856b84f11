package domain

import (
	"fmt"
	"time"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOpening
	PhaseReady
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseReady:
		return "ready"
	case PhaseClosing:
		return "closing"
	default:
		return "idle"
	}
}

type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Mirrored reports whether logical page controls run against the engine's
// page order.
func (d Direction) Mirrored() bool {
	return d == RTL
}

type DirectionSource string

const (
	SourceDefault  DirectionSource = "default"
	SourceSpine    DirectionSource = "spine"
	SourceMetadata DirectionSource = "document-metadata"
	SourceDetector DirectionSource = "external-detector"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Location is where the rendition currently sits.
type Location struct {
	Chapter      int
	Chapters     int
	ChapterTitle string
	Page         int
	Pages        int
	Percent      float64
}

type Session struct {
	ID              string
	Locator         string
	Title           string
	Direction       Direction
	DirectionSource DirectionSource
	Theme           string
	OpenedAt        time.Time
}

// Snapshot is a copy of the manager state safe to hand to renderers.
type Snapshot struct {
	Phase     Phase
	Session   Session
	Location  Location
	Immersive bool
	LastError *OpenError
}

func (s Snapshot) HasSession() bool {
	return s.Phase == PhaseOpening || s.Phase == PhaseReady
}

// OpenError is the only failure a reader session surfaces to the user.
type OpenError struct {
	Locator string
	Cause   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Locator, e.Cause)
}

func (e *OpenError) Unwrap() error {
	return e.Cause
}
