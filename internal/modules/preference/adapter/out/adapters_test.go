package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	prefout "shiori/internal/modules/preference/adapter/out"
	"shiori/internal/modules/preference/domain"
)

func TestYAMLThemeStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	store := prefout.NewYAMLThemeStore(path)

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}
	if err := store.Save(ctx, domain.Dark); err != nil {
		t.Fatalf("save: %v", err)
	}
	theme, ok, err := store.Load(ctx)
	if err != nil || !ok || theme != domain.Dark {
		t.Fatalf("expected dark, got %s ok=%v err=%v", theme, ok, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	if err := os.WriteFile(path, []byte("theme: sepia\n"), 0o600); err != nil {
		t.Fatalf("write invalid: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("invalid theme should read as unset, got ok=%v err=%v", ok, err)
	}
}

func TestEnvSchemeDetector(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value  string
		set    bool
		dark   bool
		wantOK bool
	}{
		{value: "15;0", set: true, dark: true, wantOK: true},
		{value: "0;default;15", set: true, dark: false, wantOK: true},
		{value: "0;8", set: true, dark: true, wantOK: true},
		{value: "garbage", set: true},
		{set: false},
	}
	for _, tc := range cases {
		d := prefout.NewEnvSchemeDetectorWith(func(string) (string, bool) { return tc.value, tc.set })
		dark, ok := d.Detect()
		if ok != tc.wantOK || (ok && dark != tc.dark) {
			t.Fatalf("COLORFGBG=%q: expected dark=%v ok=%v, got dark=%v ok=%v", tc.value, tc.dark, tc.wantOK, dark, ok)
		}
	}
}
