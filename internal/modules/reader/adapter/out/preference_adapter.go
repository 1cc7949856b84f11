package out

import (
	prefdomain "shiori/internal/modules/preference/domain"
	prefin "shiori/internal/modules/preference/port/in"
	readerout "shiori/internal/modules/reader/port/out"
)

type PreferenceAdapter struct {
	preferences prefin.Usecase
}

func NewPreferenceAdapter(preferences prefin.Usecase) readerout.ThemeSource {
	return &PreferenceAdapter{preferences: preferences}
}

func (a *PreferenceAdapter) Current() string {
	return a.preferences.Current().Theme
}

func (a *PreferenceAdapter) Subscribe(listener func(theme string)) func() {
	return a.preferences.Subscribe(func(theme prefdomain.Theme) {
		listener(string(theme))
	})
}
