package formatter

import (
	"strconv"

	"github.com/alexanderramin/wbs/internal/domain"
)

// FormatDependencyList renders edges with task titles resolved through
// titles (task ID to title). Unknown IDs fall back to a truncated ID.
func FormatDependencyList(deps []*domain.Dependency, titles map[string]string) string {
	if len(deps) == 0 {
		return Dim("No dependencies.")
	}
	name := func(id string) string {
		if t, ok := titles[id]; ok {
			return t
		}
		return TruncID(id)
	}
	headers := []string{"ID", "PREDECESSOR", "", "SUCCESSOR", "TYPE", "LAG"}
	rows := make([][]string, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, []string{
			TruncID(d.ID),
			name(d.PredecessorTaskID),
			Dim("→"),
			name(d.SuccessorTaskID),
			string(d.Type),
			strconv.Itoa(d.LagDays) + "d",
		})
	}
	return RenderTable(headers, rows)
}
