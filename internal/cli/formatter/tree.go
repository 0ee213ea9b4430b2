package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one row of a WBS tree.
type TreeItem struct {
	WBS    string
	Title  string
	Level  int
	IsLast bool
	Done   bool
	Active bool
	Detail string
	Badges string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree. Done items get a green ✔
// prefix and in-progress items an amber ▶. Details are right-aligned in a
// column and warning badges trail them.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxWidth := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		status := ""
		switch {
		case item.Done:
			status = StyleGreen.Render("✔ ")
			title = Dim(title)
		case item.Active:
			status = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}
		if item.WBS != "" {
			title = StyleDim.Render(item.WBS+" ") + title
		}

		contents[i] = prefix + status + title
		maxWidth = max(maxWidth, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		line := contents[i]
		if item.Detail != "" || item.Badges != "" {
			line += strings.Repeat(" ", maxWidth-lipgloss.Width(line)) + "  "
			if item.Detail != "" {
				line += StyleBlue.Render("[ " + item.Detail + " ]")
			}
			if item.Badges != "" {
				line += " " + item.Badges
			}
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return b.String()
}

// MarkLastSiblings sets IsLast on every item that has no later sibling,
// given items in depth-first order.
func MarkLastSiblings(items []TreeItem) {
	for i := range items {
		items[i].IsLast = true
		for j := i + 1; j < len(items); j++ {
			if items[j].Level < items[i].Level {
				break
			}
			if items[j].Level == items[i].Level {
				items[i].IsLast = false
				break
			}
		}
	}
}
