package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shiori/internal/modules/preference/domain"
	prefout "shiori/internal/modules/preference/port/out"
)

type preferenceFile struct {
	SchemaVersion int    `yaml:"schema_version"`
	Theme         string `yaml:"theme"`
}

// YAMLThemeStore keeps the theme in a small YAML document. Library paths
// live elsewhere, so this file only ever holds preferences.
type YAMLThemeStore struct {
	path string
}

func NewYAMLThemeStore(path string) prefout.ThemeStore {
	return &YAMLThemeStore{path: path}
}

func (s *YAMLThemeStore) Load(_ context.Context) (domain.Theme, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read preferences: %w", err)
	}
	var doc preferenceFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", false, fmt.Errorf("decode preferences: %w", err)
	}
	theme, err := domain.ParseTheme(doc.Theme)
	if err != nil {
		return "", false, nil
	}
	return theme, true, nil
}

func (s *YAMLThemeStore) Save(_ context.Context, theme domain.Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	raw, err := yaml.Marshal(preferenceFile{SchemaVersion: domain.SchemaVersion, Theme: string(theme)})
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
