package in_test

import (
	"context"
	"testing"

	readerin "shiori/internal/modules/reader/adapter/in"
	"shiori/internal/modules/reader/dto"
)

type fakeUsecase struct {
	visible bool
	session bool
	calls   []string
}

func (f *fakeUsecase) Open(context.Context, dto.OpenInput) (dto.SessionOutput, error) {
	return dto.SessionOutput{}, nil
}
func (f *fakeUsecase) Close()                      { f.calls = append(f.calls, "close") }
func (f *fakeUsecase) DismissError()               { f.calls = append(f.calls, "dismiss") }
func (f *fakeUsecase) Next()                       { f.calls = append(f.calls, "next") }
func (f *fakeUsecase) Previous()                   { f.calls = append(f.calls, "previous") }
func (f *fakeUsecase) Resize(int, int)             {}
func (f *fakeUsecase) Snapshot() dto.SessionOutput { return dto.SessionOutput{} }
func (f *fakeUsecase) HasSession() bool            { return f.session }
func (f *fakeUsecase) ReaderVisible() bool         { return f.visible }

func TestKeyRouterIgnoresKeysOutsideReader(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{visible: false, session: true}
	router := readerin.NewKeyRouter(uc)
	for _, key := range []string{"right", "left", "esc"} {
		if router.Handle(key) {
			t.Fatalf("%s consumed while library is shown", key)
		}
	}
	if len(uc.calls) != 0 {
		t.Fatalf("unexpected calls %v", uc.calls)
	}
}

func TestKeyRouterMapsReaderKeys(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{visible: true, session: true}
	router := readerin.NewKeyRouter(uc)
	for _, key := range []string{"right", "left", "esc"} {
		if !router.Handle(key) {
			t.Fatalf("%s not consumed", key)
		}
	}
	if router.Handle("q") {
		t.Fatalf("q should fall through")
	}
	uc.session = false
	router.Handle("esc")

	want := []string{"next", "previous", "close", "dismiss"}
	if len(uc.calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, uc.calls)
	}
	for i := range want {
		if uc.calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, uc.calls)
		}
	}
}
