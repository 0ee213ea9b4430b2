package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbs/internal/domain"
)

// FormatChangeLog renders change-log entries, newest first as given.
func FormatChangeLog(entries []*domain.ChangeLog) string {
	if len(entries) == 0 {
		return Dim("No changes recorded.")
	}
	headers := []string{"WHEN", "WHO", "FIELD", "BEFORE", "AFTER"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			Dim(HumanTimestamp(e.CreatedAt)),
			e.UserID,
			Bold(e.Field),
			optional(e.Before),
			optional(e.After),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTimeLogs renders time entries with a total line.
func FormatTimeLogs(logs []*domain.TimeLog) string {
	if len(logs) == 0 {
		return Dim("No time logged.")
	}
	headers := []string{"DATE", "WHO", "PD", "NOTE"}
	rows := make([][]string, 0, len(logs))
	total := 0.0
	for _, l := range logs {
		total += l.Pd
		rows = append(rows, []string{domain.FormatDate(&l.WorkDate), l.UserID, FormatPd(l.Pd), l.Note})
	}
	return RenderTable(headers, rows) + fmt.Sprintf("%s %s\n", Dim("Total:"), Bold(FormatPd(total)))
}

// FormatComments renders a task's discussion thread.
func FormatComments(comments []*domain.Comment) string {
	if len(comments) == 0 {
		return Dim("No comments.")
	}
	var b strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&b, "%s %s  %s\n", Bold(c.UserID), Dim(HumanTimestamp(c.CreatedAt)), Dim(c.ID))
		b.WriteString(StyleFg.Render(c.Body) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func optional(s *string) string {
	if s == nil {
		return Dim("--")
	}
	return *s
}
