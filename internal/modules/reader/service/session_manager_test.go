package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shiori/internal/modules/reader/domain"
	readerout "shiori/internal/modules/reader/port/out"
	apperrors "shiori/internal/platform/errors"
)

func openReady(t *testing.T, h *harness) domain.Snapshot {
	t.Helper()
	snap, err := h.manager.Open(context.Background(), "/books/a.epub")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if snap.Phase != domain.PhaseReady {
		t.Fatalf("expected ready, got %s", snap.Phase)
	}
	return snap
}

func TestOpenMountsAppliesThemeAndEntersImmersive(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.themes.current = domain.ThemeDark

	snap := openReady(t, h)
	_, registered, selected, _ := h.rendition.snapshot()
	if len(registered) != 2 || registered[0] != domain.ThemeLight || registered[1] != domain.ThemeDark {
		t.Fatalf("expected light and dark presets once, got %v", registered)
	}
	if selected != domain.ThemeDark || snap.Session.Theme != domain.ThemeDark {
		t.Fatalf("expected dark theme applied, got %q / %q", selected, snap.Session.Theme)
	}
	if h.book.lastOpts.Flow != readerout.FlowPaginated || h.book.lastOpts.Spread != readerout.SpreadAlways {
		t.Fatalf("unexpected render options %+v", h.book.lastOpts)
	}
	if h.book.lastOpts.Width != 100 || h.book.lastOpts.Height != 30 {
		t.Fatalf("expected surface size, got %+v", h.book.lastOpts)
	}
	if !snap.Immersive || !h.presenter.isActive() || !h.views.ReaderVisible() {
		t.Fatalf("expected immersive reader view")
	}
	if snap.Session.ID != "session-1" || snap.Session.Locator != "/books/a.epub" {
		t.Fatalf("unexpected session %+v", snap.Session)
	}
}

func TestOnlyOneSessionAtATime(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.book.readyGate = make(chan struct{})
	h.book.readyCalls = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := h.manager.Open(context.Background(), "/books/a.epub")
		done <- err
	}()
	<-h.book.readyCalls

	if _, err := h.manager.Open(context.Background(), "/books/b.epub"); !errors.Is(err, apperrors.ErrSessionBusy) {
		t.Fatalf("expected busy while opening, got %v", err)
	}
	close(h.book.readyGate)
	if err := <-done; err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := h.manager.Open(context.Background(), "/books/b.epub"); !errors.Is(err, apperrors.ErrSessionBusy) {
		t.Fatalf("expected busy while ready, got %v", err)
	}
	if h.engine.opens != 1 {
		t.Fatalf("engine opened %d times", h.engine.opens)
	}

	h.manager.Close()
	h.book.readyCalls = nil
	openReady(t, h)
}

func TestNavigationMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		detector *domain.Direction
		want     []string
	}{
		{name: "ltr", want: []string{"next", "prev"}},
		{name: "rtl", detector: direction(domain.RTL), want: []string{"prev", "next"}},
	}
	for _, tc := range cases {
		h := newHarness(time.Second)
		h.resolver.detector = tc.detector
		openReady(t, h)

		h.manager.Next()
		h.manager.Previous()
		calls, _, _, _ := h.rendition.snapshot()
		if len(calls) != 2 || calls[0] != tc.want[0] || calls[1] != tc.want[1] {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, calls)
		}
	}
}

func TestCloseWithoutSessionIsNoop(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.manager.Close()
	h.manager.Close()
	if snap := h.manager.Snapshot(); snap.Phase != domain.PhaseIdle {
		t.Fatalf("expected idle, got %s", snap.Phase)
	}
	if len(h.views.history) != 0 {
		t.Fatalf("close without session must not switch views: %v", h.views.history)
	}
}

func TestConcurrentCloseDestroysOnce(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	openReady(t, h)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.manager.Close()
		}()
	}
	wg.Wait()
	h.manager.Close()

	_, _, _, destroys := h.rendition.snapshot()
	if destroys != 1 {
		t.Fatalf("expected one destroy, got %d", destroys)
	}
	if _, closes := h.book.counts(); closes != 1 {
		t.Fatalf("expected one book close, got %d", closes)
	}
	snap := h.manager.Snapshot()
	if snap.Phase != domain.PhaseIdle || snap.Immersive || h.presenter.isActive() {
		t.Fatalf("expected idle and not immersive, got %+v", snap)
	}
	if h.views.ReaderVisible() {
		t.Fatalf("expected library view after close")
	}
	if h.themes.subscribers() != 0 {
		t.Fatalf("theme subscription leaked")
	}
}

func TestDestroyFailureStillReachesIdle(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.rendition.destroyErr = errBoom
	openReady(t, h)
	h.manager.Close()
	if snap := h.manager.Snapshot(); snap.Phase != domain.PhaseIdle {
		t.Fatalf("expected idle, got %s", snap.Phase)
	}
}

func TestThemeChangeUpdatesLiveRendition(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	openReady(t, h)

	h.themes.set(domain.ThemeDark)
	_, registered, selected, destroys := h.rendition.snapshot()
	if selected != domain.ThemeDark {
		t.Fatalf("expected dark selected, got %q", selected)
	}
	if destroys != 0 || h.engine.opens != 1 || len(registered) != 2 {
		t.Fatalf("theme change must not reopen: destroys=%d opens=%d registered=%v", destroys, h.engine.opens, registered)
	}
	if h.manager.Snapshot().Session.Theme != domain.ThemeDark {
		t.Fatalf("session theme not updated")
	}

	h.rendition.selectErr = errBoom
	h.themes.set(domain.ThemeLight)
	if snap := h.manager.Snapshot(); snap.Phase != domain.PhaseReady {
		t.Fatalf("theme failure must keep session ready, got %s", snap.Phase)
	}
}

func TestThemeChangeDuringOpenReachesRendition(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.rendition.displayGate = make(chan struct{})
	h.rendition.displayCalls = make(chan struct{}, 1)

	type result struct {
		snap domain.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := h.manager.Open(context.Background(), "/books/a.epub")
		done <- result{snap, err}
	}()
	<-h.rendition.displayCalls

	h.themes.set(domain.ThemeDark)
	close(h.rendition.displayGate)
	res := <-done
	if res.err != nil {
		t.Fatalf("open: %v", res.err)
	}
	if res.snap.Phase != domain.PhaseReady {
		t.Fatalf("expected ready, got %s", res.snap.Phase)
	}
	_, _, selected, _ := h.rendition.snapshot()
	if selected != domain.ThemeDark {
		t.Fatalf("expected dark on the rendition, got %q", selected)
	}
	if res.snap.Session.Theme != domain.ThemeDark || h.manager.Snapshot().Session.Theme != domain.ThemeDark {
		t.Fatalf("expected dark session theme, got %q", res.snap.Session.Theme)
	}
	if h.themes.subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", h.themes.subscribers())
	}
}

func TestInputDroppedWhileOpeningOrClosing(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.book.readyGate = make(chan struct{})
	h.book.readyCalls = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := h.manager.Open(context.Background(), "/books/a.epub")
		done <- err
	}()
	<-h.book.readyCalls
	h.manager.Next()
	h.manager.Previous()
	h.manager.Resize(10, 10)
	close(h.book.readyGate)
	if err := <-done; err != nil {
		t.Fatalf("open: %v", err)
	}

	h.rendition.destroyGate = make(chan struct{})
	h.rendition.destroyStart = make(chan struct{})
	closed := make(chan struct{})
	go func() {
		h.manager.Close()
		close(closed)
	}()
	<-h.rendition.destroyStart
	if snap := h.manager.Snapshot(); snap.Phase != domain.PhaseClosing {
		t.Fatalf("expected closing, got %s", snap.Phase)
	}
	h.manager.Next()
	h.manager.Resize(10, 10)
	close(h.rendition.destroyGate)
	<-closed

	if calls, _, _, _ := h.rendition.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no engine calls, got %v", calls)
	}
}

func TestOpenFailureReturnsToIdleWithError(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.book.readyErr = errors.New("container is corrupt")

	snap, err := h.manager.Open(context.Background(), "/books/bad.epub")
	var openErr *domain.OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected open error, got %v", err)
	}
	if openErr.Locator != "/books/bad.epub" {
		t.Fatalf("expected locator in error, got %q", openErr.Locator)
	}
	if snap.Phase != domain.PhaseIdle || snap.LastError == nil {
		t.Fatalf("expected idle with error, got %+v", snap)
	}
	if renders, closes := h.book.counts(); renders != 0 || closes != 1 {
		t.Fatalf("expected no mount and book closed, got renders=%d closes=%d", renders, closes)
	}
	if h.presenter.isActive() {
		t.Fatalf("failed open must not enter immersive mode")
	}
	if !h.views.ReaderVisible() {
		t.Fatalf("error stays on the reader view until dismissed")
	}

	h.manager.DismissError()
	if h.views.ReaderVisible() || h.manager.Snapshot().LastError != nil {
		t.Fatalf("dismiss should clear the error and show the library")
	}
	h.book.readyErr = nil
	openReady(t, h)
}

func TestEngineOpenAndMetadataFailures(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.engine.openErr = errBoom
	if _, err := h.manager.Open(context.Background(), "/books/a.epub"); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}

	h = newHarness(time.Second)
	h.book.metaErr = errBoom
	if _, err := h.manager.Open(context.Background(), "/books/a.epub"); !errors.Is(err, errBoom) {
		t.Fatalf("expected metadata error, got %v", err)
	}
	if renders, _ := h.book.counts(); renders != 0 {
		t.Fatalf("metadata failure must not mount")
	}

	h = newHarness(time.Second)
	h.rendition.displayErr = errBoom
	if _, err := h.manager.Open(context.Background(), "/books/a.epub"); !errors.Is(err, errBoom) {
		t.Fatalf("expected display error, got %v", err)
	}
	if _, _, _, destroys := h.rendition.snapshot(); destroys != 1 {
		t.Fatalf("failed display should destroy the rendition once, got %d", destroys)
	}
}

func TestMetadataDirectionsAreOffered(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.book.meta = readerout.BookMetadata{Direction: direction(domain.RTL), SpineDirection: direction(domain.LTR)}

	snap := openReady(t, h)
	if snap.Session.Direction != domain.RTL || snap.Session.DirectionSource != domain.SourceMetadata {
		t.Fatalf("expected metadata rtl, got %s/%s", snap.Session.Direction, snap.Session.DirectionSource)
	}
	if got := h.resolver.last.offered; len(got) != 2 || got[0] != domain.SourceMetadata || got[1] != domain.SourceSpine {
		t.Fatalf("expected metadata then spine offers, got %v", got)
	}
	if h.book.lastOpts.Direction != domain.RTL {
		t.Fatalf("render options should carry the direction")
	}
}

func TestCloseWhileOpeningAbortsOpen(t *testing.T) {
	t.Parallel()
	h := newHarness(time.Second)
	h.book.readyGate = make(chan struct{})
	h.book.readyCalls = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := h.manager.Open(context.Background(), "/books/a.epub")
		done <- err
	}()
	<-h.book.readyCalls
	h.manager.Close()

	if err := <-done; !errors.Is(err, apperrors.ErrOpenAborted) {
		t.Fatalf("expected aborted open, got %v", err)
	}
	snap := h.manager.Snapshot()
	if snap.Phase != domain.PhaseIdle || snap.LastError != nil {
		t.Fatalf("expected clean idle, got %+v", snap)
	}
	deadline := time.Now().Add(time.Second)
	for {
		if _, closes := h.book.counts(); closes == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("aborted open did not release its book")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if renders, _ := h.book.counts(); renders != 0 {
		t.Fatalf("aborted open must not mount")
	}
}

func TestOpenTimesOut(t *testing.T) {
	t.Parallel()
	h := newHarness(30 * time.Millisecond)
	h.book.readyGate = make(chan struct{})

	_, err := h.manager.Open(context.Background(), "/books/slow.epub")
	var openErr *domain.OpenError
	if !errors.As(err, &openErr) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout open error, got %v", err)
	}
	if h.manager.HasSession() {
		t.Fatalf("timed out open must not leave a session")
	}
}
