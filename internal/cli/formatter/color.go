package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TaskStatusPill returns a colored indicator for a task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.StatusNotStarted:
		return StyleBlue.Render("○ Not started")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In progress")
	case domain.StatusBlocked:
		return StyleRed.Render("■ Blocked")
	case domain.StatusDone:
		return StyleDim.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// TypeBadge labels summaries and milestones; plain tasks get no badge.
func TypeBadge(t domain.TaskType) string {
	switch t {
	case domain.TaskTypeSummary:
		return StylePurple.Render("Σ")
	case domain.TaskTypeMilestone:
		return StyleYellow.Render("◆")
	default:
		return ""
	}
}

// WarningBadges renders schedule warnings as short red labels.
func WarningBadges(kinds []domain.ScheduleWarning) string {
	if len(kinds) == 0 {
		return ""
	}
	labels := make([]string, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case domain.WarningViolation:
			labels = append(labels, StyleRed.Render("⚠ dependency violated"))
		case domain.WarningMissingDates:
			labels = append(labels, StyleYellow.Render("⚠ missing dates"))
		default:
			labels = append(labels, StyleRed.Render("⚠ "+string(k)))
		}
	}
	return strings.Join(labels, " ")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
