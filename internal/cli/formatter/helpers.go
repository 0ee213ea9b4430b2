package formatter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// DateCell renders an optional date, or a dimmed dash.
func DateCell(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return domain.FormatDate(t)
}

// DateSpan renders "start → end" for a task.
func DateSpan(start, end *time.Time) string {
	if start == nil && end == nil {
		return Dim("unscheduled")
	}
	return DateCell(start) + Dim(" → ") + DateCell(end)
}

// FormatPd renders person-days with at most two decimals.
func FormatPd(pd float64) string {
	return strconv.FormatFloat(math.Round(pd*100)/100, 'f', -1, 64) + "pd"
}

// FormatOptionalPd renders an optional estimate.
func FormatOptionalPd(pd *float64) string {
	if pd == nil {
		return Dim("--")
	}
	return FormatPd(*pd)
}

// FormatDelta renders a signed day delta, red when late and green when early.
func FormatDelta(days *int) string {
	if days == nil {
		return Dim("--")
	}
	switch {
	case *days > 0:
		return StyleRed.Render("+" + strconv.Itoa(*days) + "d")
	case *days < 0:
		return StyleGreen.Render(strconv.Itoa(*days) + "d")
	default:
		return Dim("0d")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// HumanTimestamp renders a change-log or comment timestamp in local time.
func HumanTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
