package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
)

// FormatTaskTree renders views, already in WBS order, as a tree with date
// spans and warning badges.
func FormatTaskTree(views []*service.TaskView) string {
	if len(views) == 0 {
		return Dim("No tasks.")
	}
	items := make([]TreeItem, 0, len(views))
	for _, v := range views {
		title := v.Title
		if badge := TypeBadge(v.Type); badge != "" {
			title = badge + " " + title
		}
		if v.IsDeleted() {
			title = Dim(v.Title + " (deleted)")
		}
		items = append(items, TreeItem{
			WBS:    v.WBS,
			Title:  title,
			Level:  v.Depth,
			Done:   v.Status == domain.StatusDone,
			Active: v.Status == domain.StatusInProgress,
			Detail: fmt.Sprintf("%s  %3d%%", plainSpan(v.Task), v.Progress),
			Badges: WarningBadges(v.Warnings.Kinds),
		})
	}
	MarkLastSiblings(items)
	return RenderTree(items)
}

// FormatTaskDetail renders a single task card.
func FormatTaskDetail(v *service.TaskView) string {
	var b strings.Builder
	title := v.Title
	if badge := TypeBadge(v.Type); badge != "" {
		title = badge + " " + title
	}
	b.WriteString(StyleBold.Render(title))
	if v.WBS != "" {
		b.WriteString("  " + Dim(v.WBS))
	}
	b.WriteString("\n")
	if v.Description != "" {
		b.WriteString(StyleFg.Render(v.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%-9s", label)), value)
	}
	field("STATUS", TaskStatusPill(v.Status))
	field("DATES", DateSpan(v.StartDate, v.EndDate))
	field("PROGRESS", RenderProgress(v.Progress, 20))
	field("ESTIMATE", FormatOptionalPd(v.EstimatePd))
	field("ACTUAL", FormatPd(v.ActualPd))
	if v.Priority != "" {
		field("PRIORITY", v.Priority)
	}
	if len(v.AssigneeIDs) > 0 {
		field("ASSIGNED", strings.Join(v.AssigneeIDs, ", "))
	}
	field("UUID", TruncID(v.ID))
	if v.Warnings.HasWarning {
		field("WARNINGS", WarningBadges(v.Warnings.Kinds))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatAffected lists tasks moved by automatic scheduling.
func FormatAffected(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("Rescheduled %d task(s):", len(tasks))) + "\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "  %s  %s\n", t.Title, Dim(plainSpan(t)))
	}
	return b.String()
}

func plainSpan(t *domain.Task) string {
	if t.StartDate == nil && t.EndDate == nil {
		return "unscheduled"
	}
	start, end := domain.FormatDate(t.StartDate), domain.FormatDate(t.EndDate)
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = "?"
	}
	return start + " → " + end
}
