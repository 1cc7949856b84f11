package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"shiori/internal/modules/preference/domain"
	prefout "shiori/internal/modules/preference/port/out"
	"shiori/internal/modules/preference/service"
	apperrors "shiori/internal/platform/errors"
	"shiori/internal/platform/logging"
)

type fakeStore struct {
	theme   domain.Theme
	ok      bool
	loadErr error
	saveErr error
	saved   []domain.Theme
}

func (f *fakeStore) Load(context.Context) (domain.Theme, bool, error) {
	return f.theme, f.ok, f.loadErr
}

func (f *fakeStore) Save(_ context.Context, theme domain.Theme) error {
	f.saved = append(f.saved, theme)
	return f.saveErr
}

type fakeDetector struct {
	dark bool
	ok   bool
}

func (fakeDetector) Name() string           { return "fake" }
func (f fakeDetector) Detect() (bool, bool) { return f.dark, f.ok }

func TestLoadFallbackOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	saved := service.NewPreferenceService(&fakeStore{theme: domain.Dark, ok: true}, []prefout.SchemeDetector{fakeDetector{dark: false, ok: true}}, logging.Nop())
	if theme, origin := saved.Load(ctx); theme != domain.Dark || origin != domain.OriginSaved {
		t.Fatalf("expected saved dark, got %s/%s", theme, origin)
	}

	system := service.NewPreferenceService(&fakeStore{}, []prefout.SchemeDetector{fakeDetector{ok: false}, fakeDetector{dark: true, ok: true}}, logging.Nop())
	if theme, origin := system.Load(ctx); theme != domain.Dark || origin != domain.OriginSystem {
		t.Fatalf("expected system dark, got %s/%s", theme, origin)
	}

	broken := service.NewPreferenceService(&fakeStore{loadErr: errors.New("disk")}, nil, logging.Nop())
	if theme, origin := broken.Load(ctx); theme != domain.Light || origin != domain.OriginDefault {
		t.Fatalf("expected default light, got %s/%s", theme, origin)
	}
}

func TestSetPersistsAndNotifiesSynchronously(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := service.NewPreferenceService(store, nil, logging.Nop())

	var order []string
	unsubA := svc.Subscribe(func(theme domain.Theme) {
		if len(store.saved) == 0 {
			t.Fatalf("listener ran before persistence")
		}
		order = append(order, "a:"+string(theme))
	})
	svc.Subscribe(func(theme domain.Theme) {
		// reading back from inside a listener must not deadlock
		order = append(order, "b:"+string(svc.Get()))
	})

	if err := svc.Set(context.Background(), domain.Dark); err != nil {
		t.Fatalf("set dark: %v", err)
	}
	if len(order) != 2 || order[0] != "a:dark" || order[1] != "b:dark" {
		t.Fatalf("unexpected delivery %v", order)
	}

	unsubA()
	unsubA()
	if got := svc.Toggle(context.Background()); got != domain.Light {
		t.Fatalf("expected toggle to light, got %s", got)
	}
	if len(order) != 3 || order[2] != "b:light" {
		t.Fatalf("unsubscribed listener still called: %v", order)
	}
	if len(store.saved) != 2 || store.saved[1] != domain.Light {
		t.Fatalf("expected two saves, got %v", store.saved)
	}
}

func TestSetSurvivesPersistenceFailure(t *testing.T) {
	t.Parallel()
	svc := service.NewPreferenceService(&fakeStore{saveErr: errors.New("read-only")}, nil, logging.Nop())
	called := false
	svc.Subscribe(func(domain.Theme) { called = true })

	if err := svc.Set(context.Background(), domain.Dark); err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
	if svc.Get() != domain.Dark || !called {
		t.Fatalf("expected dark applied and listener notified")
	}
	if err := svc.Set(context.Background(), domain.Theme("sepia")); !errors.Is(err, apperrors.ErrUnknownTheme) {
		t.Fatalf("expected unknown theme error, got %v", err)
	}
	if svc.Get() != domain.Dark {
		t.Fatalf("invalid theme must not change state")
	}
}

func TestConcurrentTogglesAreNotLost(t *testing.T) {
	t.Parallel()
	svc := service.NewPreferenceService(nil, nil, logging.Nop())
	var notified atomic.Int32
	svc.Subscribe(func(domain.Theme) { notified.Add(1) })

	const toggles = 64
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Toggle(context.Background())
		}()
	}
	wg.Wait()

	if svc.Get() != domain.Light {
		t.Fatalf("expected an even number of toggles to return to light, got %s", svc.Get())
	}
	if got := notified.Load(); got != toggles {
		t.Fatalf("expected %d notifications, got %d", toggles, got)
	}
	if svc.Origin() != domain.OriginUser {
		t.Fatalf("expected user origin, got %s", svc.Origin())
	}
}
