package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	refs := make(map[string]bool)
	errs = append(errs, validateTasks(schema.Tasks, refs)...)
	errs = append(errs, validateDependencies(schema.Dependencies, refs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	proj := domain.Project{Code: p.Code}
	if err := proj.ValidateCode(); err != nil {
		errs = append(errs, fmt.Errorf("project.code: %w", err))
	}
	start, startErrs := validateOptionalDate("project.start_date", p.StartDate)
	end, endErrs := validateOptionalDate("project.end_date", p.EndDate)
	errs = append(errs, startErrs...)
	errs = append(errs, endErrs...)
	if start != nil && end != nil && end.Before(*start) {
		errs = append(errs, fmt.Errorf("project.end_date %q must not be before start_date %q", *p.EndDate, *p.StartDate))
	}

	return errs
}

func validateTasks(tasks []TaskImport, refs map[string]bool) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		}

		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		} else if len(t.Title) > domain.MaxTitleLen {
			errs = append(errs, fmt.Errorf("%s.title must be at most %d characters", prefix, domain.MaxTitleLen))
		}
		if t.Type != "" && !domain.ValidTaskTypes[t.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, t.Type))
		}
		if t.Status != "" && !domain.ValidTaskStatuses[t.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress must be between 0 and 100", prefix))
		}
		if t.EstimatePd != nil && *t.EstimatePd < 0 {
			errs = append(errs, fmt.Errorf("%s.estimate_pd must be non-negative", prefix))
		}

		if t.ParentRef != nil && *t.ParentRef != "" {
			if !refs[*t.ParentRef] {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in tasks list)", prefix, *t.ParentRef))
			}
		}

		start, startErrs := validateOptionalDate(prefix+".start_date", t.StartDate)
		end, endErrs := validateOptionalDate(prefix+".end_date", t.EndDate)
		errs = append(errs, startErrs...)
		errs = append(errs, endErrs...)
		if start != nil && end != nil && end.Before(*start) {
			errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", prefix, *t.EndDate, *t.StartDate))
		}
		if t.Type == string(domain.TaskTypeSummary) && (start != nil || end != nil) {
			errs = append(errs, fmt.Errorf("%s: summary task dates are calculated from children", prefix))
		}

		// Register after the parent check so a task cannot be its own parent.
		if t.Ref != "" {
			refs[t.Ref] = true
		}
	}

	return errs
}

func validateDependencies(deps []DependencyImport, refs map[string]bool) []error {
	var errs []error
	seen := make(map[[2]string]bool)

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.PredecessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref is required", prefix))
		} else if !refs[d.PredecessorRef] {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref: ref %q not found in tasks", prefix, d.PredecessorRef))
		}

		if d.SuccessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.successor_ref is required", prefix))
		} else if !refs[d.SuccessorRef] {
			errs = append(errs, fmt.Errorf("%s.successor_ref: ref %q not found in tasks", prefix, d.SuccessorRef))
		}

		if d.PredecessorRef != "" && d.SuccessorRef != "" {
			if d.PredecessorRef == d.SuccessorRef {
				errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor_ref == successor_ref == %q)", prefix, d.PredecessorRef))
			}
			pair := [2]string{d.PredecessorRef, d.SuccessorRef}
			if seen[pair] {
				errs = append(errs, fmt.Errorf("%s: duplicate dependency %q -> %q", prefix, d.PredecessorRef, d.SuccessorRef))
			}
			seen[pair] = true
		}

		if d.Type != "" && d.Type != string(domain.DependencyFS) {
			errs = append(errs, fmt.Errorf("%s.type: unsupported value %q (only FS)", prefix, d.Type))
		}
	}

	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

func detectCycles(deps []DependencyImport) []error {
	graph := make(map[string][]string)
	var nodes []string
	known := make(map[string]bool)
	for _, d := range deps {
		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef != d.SuccessorRef {
			graph[d.PredecessorRef] = append(graph[d.PredecessorRef], d.SuccessorRef)
			for _, n := range []string{d.PredecessorRef, d.SuccessorRef} {
				if !known[n] {
					known[n] = true
					nodes = append(nodes, n)
				}
			}
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, neighbor := range graph[node] {
			if color[neighbor] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving %q and %q", node, neighbor))
				return true
			}
			if color[neighbor] == white && visit(neighbor) {
				return true
			}
		}
		color[node] = black
		return false
	}

	for _, node := range nodes {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}

func validateOptionalDate(field string, dateStr *string) (*time.Time, []error) {
	if dateStr == nil || *dateStr == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*dateStr)
	if err != nil {
		return nil, []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return &d, nil
}
