package scheduling

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Successors builds a predecessor -> successors adjacency list.
func Successors(deps []*domain.Dependency) map[string][]string {
	adj := make(map[string][]string, len(deps))
	for _, d := range deps {
		adj[d.PredecessorTaskID] = append(adj[d.PredecessorTaskID], d.SuccessorTaskID)
	}
	return adj
}

// Reachable reports whether to can be reached from from by following edges
// forward. Each node is visited at most once.
func Reachable(adj map[string][]string, from, to string) bool {
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, next := range adj[cur] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether adding predecessorID -> successorID to
// the project's live dependency graph would close a cycle. A self edge
// counts as a cycle.
func (e *Engine) WouldCreateCycle(ctx context.Context, predecessorID, successorID, projectID string) (bool, error) {
	if predecessorID == successorID {
		return true, nil
	}
	deps, err := e.store.FindDependenciesByProject(ctx, projectID)
	if err != nil {
		return false, fmt.Errorf("loading dependencies: %w", err)
	}
	return Reachable(Successors(deps), successorID, predecessorID), nil
}
