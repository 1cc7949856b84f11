package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "shiori/internal/platform/errors"
)

const epubExt = ".epub"

// FromPath maps a file system path to a locator the rendering engine accepts.
func FromPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: path is required", apperrors.ErrInvalidInput)
	}
	if !IsEPUB(path) {
		return "", fmt.Errorf("%w: %s is not an .epub file", apperrors.ErrInvalidInput, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, abs)
		}
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", apperrors.ErrInvalidInput, abs)
	}
	return filepath.Clean(abs), nil
}

func IsEPUB(path string) bool {
	return strings.EqualFold(filepath.Ext(path), epubExt)
}
