package domain

import (
	"strings"
	"sync"
)

type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

func ParseDirection(raw string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case LTR:
		return LTR, true
	case RTL:
		return RTL, true
	}
	return "", false
}

// Source ranks where a direction came from. Higher wins.
type Source int

const (
	SourceDefault Source = iota
	SourceSpine
	SourceMetadata
	SourceDetector
)

func (s Source) String() string {
	switch s {
	case SourceSpine:
		return "spine"
	case SourceMetadata:
		return "document-metadata"
	case SourceDetector:
		return "external-detector"
	default:
		return "default"
	}
}

func ParseSource(raw string) (Source, bool) {
	for _, s := range []Source{SourceDefault, SourceSpine, SourceMetadata, SourceDetector} {
		if s.String() == raw {
			return s, true
		}
	}
	return SourceDefault, false
}

type Signal struct {
	Direction Direction
	Source    Source
}

func DefaultSignal() Signal {
	return Signal{Direction: LTR, Source: SourceDefault}
}

// Latch keeps the highest-ranked signal seen so far. Arrival order does not
// matter: a signal replaces the current one only when its rank is strictly
// higher.
type Latch struct {
	mu      sync.Mutex
	current Signal
}

func NewLatch() *Latch {
	return &Latch{current: DefaultSignal()}
}

func (l *Latch) Offer(sig Signal) bool {
	if sig.Direction != LTR && sig.Direction != RTL {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if sig.Source <= l.current.Source {
		return false
	}
	l.current = sig
	return true
}

func (l *Latch) Current() Signal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
