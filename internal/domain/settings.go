package domain

import "github.com/dmitrijs2005/moodiary/internal/common"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Color string

const (
	ColorPink   Color = "kawaii-pink"
	ColorBlue   Color = "kawaii-blue"
	ColorPurple Color = "kawaii-purple"
)

type Font string

const (
	FontRounded Font = "rounded"
	FontKawaii  Font = "kawaii"
)

var (
	Themes = []Theme{ThemeLight, ThemeDark}
	Colors = []Color{ColorPink, ColorBlue, ColorPurple}
	Fonts  = []Font{FontRounded, FontKawaii}
)

// Settings are the per-user display preferences stored in the profile.
type Settings struct {
	Theme   Theme `json:"theme"`
	Color   Color `json:"color"`
	Font    Font  `json:"font"`
	Private bool  `json:"private"`
}

// DefaultSettings is what a freshly registered profile gets.
func DefaultSettings() Settings {
	return Settings{
		Theme: ThemeLight,
		Color: ColorPink,
		Font:  FontRounded,
	}
}

func (s Settings) Validate() error {
	if !contains(Themes, s.Theme) {
		return common.Validationf("unknown theme %q", s.Theme)
	}
	if !contains(Colors, s.Color) {
		return common.Validationf("unknown color %q", s.Color)
	}
	if !contains(Fonts, s.Font) {
		return common.Validationf("unknown font %q", s.Font)
	}
	return nil
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
