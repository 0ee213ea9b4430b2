package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/wbs/internal/service"
)

// resolveProjectID accepts a project code (case-insensitive) or UUID.
func resolveProjectID(ctx context.Context, a *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required (--project CODE)")
	}
	p, err := a.Services.Projects.Resolve(ctx, input)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// resolveTaskID resolves a task identifier which can be:
//   - A WBS number like "1.2" (requires project context)
//   - A full UUID
//   - A UUID prefix unique within the project (requires project context)
func resolveTaskID(ctx context.Context, a *App, input, project string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task is required")
	}
	if project == "" {
		if _, err := a.Services.Tasks.Get(ctx, input); err != nil {
			return "", fmt.Errorf("task %q: %w (WBS numbers and ID prefixes need --project)", input, err)
		}
		return input, nil
	}

	projectID, err := resolveProjectID(ctx, a, project)
	if err != nil {
		return "", err
	}
	views, err := a.Services.Tasks.List(ctx, projectID, false)
	if err != nil {
		return "", err
	}
	return matchTask(views, input)
}

func matchTask(views []*service.TaskView, input string) (string, error) {
	for _, v := range views {
		if v.WBS == input || v.ID == input {
			return v.ID, nil
		}
	}
	var matches []string
	for _, v := range views {
		if strings.HasPrefix(v.ID, input) {
			matches = append(matches, v.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveOptionalTaskID resolves input when non-empty.
func resolveOptionalTaskID(ctx context.Context, a *App, input, project string) (*string, error) {
	if input == "" {
		return nil, nil
	}
	id, err := resolveTaskID(ctx, a, input, project)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
