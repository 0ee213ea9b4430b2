package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func wbsHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirm asks before a destructive action. --yes skips the prompt; without
// a terminal the action is refused rather than assumed.
func (a *App) confirm(title string, yes bool) error {
	if yes {
		return nil
	}
	if a.IsInteractive == nil || !a.IsInteractive() {
		return fmt.Errorf("refusing to %s without confirmation (pass --yes)", title)
	}

	ask := a.Confirm
	if ask == nil {
		ask = huhConfirm
	}
	ok, err := ask("Really " + title + "?")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cancelled")
	}
	return nil
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(wbsHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}
