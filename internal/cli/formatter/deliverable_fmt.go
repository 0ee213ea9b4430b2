package formatter

import "github.com/alexanderramin/wbs/internal/domain"

// FormatDeliverableList renders deliverables with their full IDs, which
// the link commands take.
func FormatDeliverableList(list []*domain.Deliverable) string {
	if len(list) == 0 {
		return Dim("No deliverables.")
	}
	headers := []string{"ID", "NAME", "TYPE", "URL"}
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		kind := d.Type
		if kind == "" {
			kind = Dim("--")
		}
		rows = append(rows, []string{d.ID, Bold(d.Name), kind, d.URL})
	}
	return RenderTable(headers, rows)
}
