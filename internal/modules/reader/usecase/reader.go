package usecase

import (
	"context"

	"shiori/internal/modules/reader/domain"
	"shiori/internal/modules/reader/dto"
	readerin "shiori/internal/modules/reader/port/in"
	"shiori/internal/modules/reader/service"
	"shiori/internal/platform/locator"
)

type Interactor struct {
	sessions *service.SessionManager
}

func NewInteractor(sessions *service.SessionManager) readerin.Usecase {
	return &Interactor{sessions: sessions}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.SessionOutput, error) {
	loc, err := locator.FromPath(input.Path)
	if err != nil {
		return i.Snapshot(), err
	}
	snapshot, err := i.sessions.Open(ctx, loc)
	return toOutput(snapshot), err
}

func (i *Interactor) Close()                   { i.sessions.Close() }
func (i *Interactor) DismissError()            { i.sessions.DismissError() }
func (i *Interactor) Next()                    { i.sessions.Next() }
func (i *Interactor) Previous()                { i.sessions.Previous() }
func (i *Interactor) Resize(width, height int) { i.sessions.Resize(width, height) }
func (i *Interactor) HasSession() bool         { return i.sessions.HasSession() }
func (i *Interactor) ReaderVisible() bool      { return i.sessions.ReaderVisible() }

func (i *Interactor) Snapshot() dto.SessionOutput {
	return toOutput(i.sessions.Snapshot())
}

func toOutput(s domain.Snapshot) dto.SessionOutput {
	out := dto.SessionOutput{
		Phase:           s.Phase.String(),
		SessionID:       s.Session.ID,
		Locator:         s.Session.Locator,
		Title:           s.Session.Title,
		Direction:       string(s.Session.Direction),
		DirectionSource: string(s.Session.DirectionSource),
		Theme:           s.Session.Theme,
		Immersive:       s.Immersive,
		Chapter:         s.Location.Chapter,
		Chapters:        s.Location.Chapters,
		ChapterTitle:    s.Location.ChapterTitle,
		Page:            s.Location.Page,
		Pages:           s.Location.Pages,
		Percent:         s.Location.Percent,
	}
	if s.LastError != nil {
		out.Error = &dto.ErrorOutput{Message: s.LastError.Cause.Error(), Locator: s.LastError.Locator}
	}
	return out
}
