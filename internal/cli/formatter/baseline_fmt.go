package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
)

// FormatBaselineList renders a project's baselines.
func FormatBaselineList(baselines []*domain.Baseline) string {
	if len(baselines) == 0 {
		return Dim("No baselines.")
	}
	headers := []string{"ID", "NAME", "CREATED"}
	rows := make([][]string, 0, len(baselines))
	for _, b := range baselines {
		rows = append(rows, []string{TruncID(b.ID), Bold(b.Name), HumanTimestamp(b.CreatedAt)})
	}
	return RenderTable(headers, rows)
}

// FormatBaselineDiff renders a baseline comparison with a summary footer.
func FormatBaselineDiff(diff *service.BaselineDiff) string {
	headers := []string{"TASK", "BASELINE END", "CURRENT END", "Δ DAYS", "Δ PD"}
	rows := make([][]string, 0, len(diff.Items))
	for _, it := range diff.Items {
		deltaPd := Dim("--")
		if it.DeltaPd != nil {
			deltaPd = signedPd(*it.DeltaPd)
		}
		rows = append(rows, []string{
			it.TaskTitle,
			DateCell(it.BaselineEnd),
			DateCell(it.CurrentEnd),
			FormatDelta(it.DeltaDays),
			deltaPd,
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	slipped := strconv.Itoa(diff.Summary.SlippedTasks)
	if diff.Summary.SlippedTasks > 0 {
		slipped = StyleRed.Render(slipped)
	}
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		Dim("Slipped:"), slipped,
		Dim("Total slip:"), strconv.Itoa(diff.Summary.TotalDeltaDays)+"d",
		Dim("Effort change:"), signedPd(diff.Summary.DeltaPd))
	return RenderBox("Baseline "+diff.Baseline.Name, strings.TrimRight(b.String(), "\n"))
}

func signedPd(pd float64) string {
	if pd > 0 {
		return "+" + FormatPd(pd)
	}
	return FormatPd(pd)
}
