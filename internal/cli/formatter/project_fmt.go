package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbs/internal/domain"
)

// FormatProjectList renders projects inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"CODE", "NAME", "START", "END", "MODE"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		name := Bold(p.Name)
		if p.IsDeleted() {
			name = Dim(p.Name + " (deleted)")
		}
		rows = append(rows, []string{
			p.Code,
			name,
			DateCell(p.StartDate),
			DateCell(p.EndDate),
			scheduleMode(p.AutoSchedule),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders one project's metadata above its task tree.
func FormatProjectDetail(p *domain.Project, tree string) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "  " + Dim(p.Code) + "\n")
	if p.Description != "" {
		b.WriteString(StyleFg.Render(p.Description) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("DATES   "), DateSpan(p.StartDate, p.EndDate))
	fmt.Fprintf(&b, "%s  %s\n", Dim("SCHEDULE"), scheduleMode(p.AutoSchedule))
	fmt.Fprintf(&b, "%s  %s\n", Dim("UUID    "), TruncID(p.ID))
	if tree != "" {
		b.WriteString("\n" + Header("Work breakdown") + "\n" + tree)
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func scheduleMode(auto bool) string {
	if auto {
		return StyleGreen.Render("● auto")
	}
	return StyleDim.Render("○ manual")
}
