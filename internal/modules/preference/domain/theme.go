package domain

import (
	"fmt"
	"strings"

	apperrors "shiori/internal/platform/errors"
)

const SchemaVersion = 1

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Themes lists every theme a rendition must know about.
var Themes = []Theme{Light, Dark}

func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownTheme, raw)
}

func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Origin tells where the active theme came from at startup.
type Origin string

const (
	OriginSaved   Origin = "saved"
	OriginSystem  Origin = "system"
	OriginDefault Origin = "default"
	OriginUser    Origin = "user"
)
