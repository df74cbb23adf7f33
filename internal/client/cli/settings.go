package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moodiary/internal/domain"
)

func names[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, "|")
}

func (a *App) printSettings(s domain.Settings) {
	private := "off"
	if s.Private {
		private = "on"
	}
	fmt.Fprintf(a.out, "theme: %s  color: %s  font: %s  private: %s\n", s.Theme, s.Color, s.Font, private)
}

// Theme toggles the theme, or sets it when given an argument.
func (a *App) Theme(ctx context.Context, args []string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	switch len(args) {
	case 0:
		a.printSettings(a.state.Preferences.ToggleTheme(ctx))
	case 1:
		a.printSettings(a.state.Preferences.SetTheme(ctx, domain.Theme(args[0])))
	default:
		return usagef("theme [%s]", names(domain.Themes))
	}
	return nil
}

func (a *App) Color(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("color %s", names(domain.Colors))
	}
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	a.printSettings(a.state.Preferences.SetColor(ctx, domain.Color(args[0])))
	return nil
}

func (a *App) Font(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("font %s", names(domain.Fonts))
	}
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	a.printSettings(a.state.Preferences.SetFont(ctx, domain.Font(args[0])))
	return nil
}

func (a *App) Private(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return usagef("private on|off")
	}
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	a.printSettings(a.state.Preferences.SetPrivate(ctx, args[0] == "on"))
	return nil
}

func (a *App) Settings(ctx context.Context, _ []string) error {
	a.printSettings(a.state.Preferences.Current())
	return nil
}

func (a *App) Moods(ctx context.Context, _ []string) error {
	for _, m := range domain.Moods() {
		fmt.Fprintln(a.out, formatMood(m))
	}
	return nil
}
