package mcp

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TaskEntry is a task as returned by the tools.
type TaskEntry struct {
	ID         string   `json:"id"`
	WBS        string   `json:"wbs,omitempty"`
	ParentID   string   `json:"parent_id,omitempty"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Progress   int      `json:"progress"`
	Status     string   `json:"status"`
	EstimatePd *float64 `json:"estimate_pd,omitempty"`
	Assignees  []string `json:"assignees,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ChangedTask is a task whose dates were moved by a scheduling operation.
type ChangedTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type ListTasksInput struct {
	Project        string `json:"project" jsonschema:"Project code or ID"`
	IncludeDeleted bool   `json:"include_deleted,omitempty" jsonschema:"Include soft-deleted tasks"`
}

type ListTasksOutput struct {
	Tasks []TaskEntry `json:"tasks"`
}

type UpdateTaskDatesInput struct {
	TaskID     string `json:"task_id" jsonschema:"ID of the task"`
	StartDate  string `json:"start_date,omitempty" jsonschema:"New start date (YYYY-MM-DD)"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"New end date (YYYY-MM-DD)"`
	ClearStart bool   `json:"clear_start,omitempty" jsonschema:"Remove the start date"`
	ClearEnd   bool   `json:"clear_end,omitempty" jsonschema:"Remove the end date"`
	Actor      string `json:"actor,omitempty" jsonschema:"User recorded in the change log"`
}

type UpdateTaskDatesOutput struct {
	Task     TaskEntry     `json:"task"`
	Affected []ChangedTask `json:"affected"`
}

type CreateDependencyInput struct {
	Project       string `json:"project" jsonschema:"Project code or ID"`
	PredecessorID string `json:"predecessor_id" jsonschema:"Task that must finish first"`
	SuccessorID   string `json:"successor_id" jsonschema:"Task that starts after the predecessor ends"`
	LagDays       int    `json:"lag_days,omitempty" jsonschema:"Days between predecessor end and successor start"`
	Actor         string `json:"actor,omitempty" jsonschema:"User recorded in the change log"`
}

type CreateDependencyOutput struct {
	DependencyID string        `json:"dependency_id"`
	Affected     []ChangedTask `json:"affected"`
}

type CheckDependencyCycleInput struct {
	Project       string `json:"project" jsonschema:"Project code or ID"`
	PredecessorID string `json:"predecessor_id" jsonschema:"Proposed predecessor task"`
	SuccessorID   string `json:"successor_id" jsonschema:"Proposed successor task"`
}

type CheckDependencyCycleOutput struct {
	WouldCreateCycle bool `json:"would_create_cycle"`
}

type PropagateScheduleInput struct {
	TaskID string `json:"task_id" jsonschema:"Task whose successors are pushed"`
	Actor  string `json:"actor,omitempty" jsonschema:"User recorded in the change log"`
}

type PropagateScheduleOutput struct {
	Affected []ChangedTask `json:"affected"`
}

type RecalculateSummaryInput struct {
	SummaryID string `json:"summary_id,omitempty" jsonschema:"Summary to recompute together with its ancestors"`
	Project   string `json:"project,omitempty" jsonschema:"Project whose summaries are all recomputed when summary_id is empty"`
}

type RecalculateSummaryOutput struct {
	Recalculated string `json:"recalculated"`
}

func listTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_tasks",
		Description: "List the tasks of a project in WBS order with dates, progress and schedule warnings.",
	}
}

func updateTaskDatesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_task_dates",
		Description: "Change the start and/or end date of a leaf task. Summaries are re-aggregated and, on auto-scheduled projects, successors are pushed.",
	}
}

func createDependencyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_dependency",
		Description: "Add a finish-to-start dependency. Rejected if it would create a cycle.",
	}
}

func checkDependencyCycleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "check_dependency_cycle",
		Description: "Report whether adding predecessor -> successor would create a dependency cycle.",
	}
}

func propagateScheduleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "propagate_schedule",
		Description: "Push successors of a task forward so every dependency is satisfied.",
	}
}

func recalculateSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "recalculate_summary",
		Description: "Recompute dates and progress of a summary and its ancestors, or of every summary in a project.",
	}
}

func (s *Server) handleListTasks(ctx context.Context, _ *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, ListTasksOutput, error) {
	s.logger.Info("list_tasks", "project", input.Project)

	projectID, err := s.projectID(ctx, input.Project)
	if err != nil {
		return nil, ListTasksOutput{}, err
	}
	views, err := s.services.Tasks.List(ctx, projectID, input.IncludeDeleted)
	if err != nil {
		return nil, ListTasksOutput{}, fmt.Errorf("listing tasks: %w", err)
	}

	out := ListTasksOutput{Tasks: make([]TaskEntry, 0, len(views))}
	for _, v := range views {
		out.Tasks = append(out.Tasks, toTaskEntry(v))
	}
	return nil, out, nil
}

func (s *Server) handleUpdateTaskDates(ctx context.Context, _ *mcp.CallToolRequest, input UpdateTaskDatesInput) (*mcp.CallToolResult, UpdateTaskDatesOutput, error) {
	s.logger.Info("update_task_dates", "task_id", input.TaskID)

	if input.TaskID == "" {
		return nil, UpdateTaskDatesOutput{}, fmt.Errorf("task_id is required")
	}
	start, err := domain.ParseOptionalDate(input.StartDate)
	if err != nil {
		return nil, UpdateTaskDatesOutput{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := domain.ParseOptionalDate(input.EndDate)
	if err != nil {
		return nil, UpdateTaskDatesOutput{}, fmt.Errorf("end_date: %w", err)
	}
	patch := service.TaskPatch{
		StartDate:  start,
		EndDate:    end,
		ClearStart: input.ClearStart,
		ClearEnd:   input.ClearEnd,
	}
	if !patch.TouchesDates() {
		return nil, UpdateTaskDatesOutput{}, fmt.Errorf("provide start_date, end_date, clear_start or clear_end")
	}

	res, err := s.services.Tasks.Update(ctx, input.TaskID, patch, s.actorOr(input.Actor))
	if err != nil {
		s.logger.Error("update_task_dates failed", "task_id", input.TaskID, "error", err)
		return nil, UpdateTaskDatesOutput{}, fmt.Errorf("updating task dates: %w", err)
	}

	s.logger.Info("update_task_dates complete", "task_id", input.TaskID, "affected", len(res.Affected))
	return nil, UpdateTaskDatesOutput{
		Task:     toTaskEntry(res.Task),
		Affected: toChangedTasks(res.Affected),
	}, nil
}

func (s *Server) handleCreateDependency(ctx context.Context, _ *mcp.CallToolRequest, input CreateDependencyInput) (*mcp.CallToolResult, CreateDependencyOutput, error) {
	s.logger.Info("create_dependency", "predecessor_id", input.PredecessorID, "successor_id", input.SuccessorID)

	projectID, err := s.projectID(ctx, input.Project)
	if err != nil {
		return nil, CreateDependencyOutput{}, err
	}
	res, err := s.services.Dependencies.Create(ctx, projectID, service.DependencyInput{
		PredecessorID: input.PredecessorID,
		SuccessorID:   input.SuccessorID,
		Type:          domain.DependencyFS,
		LagDays:       input.LagDays,
	}, s.actorOr(input.Actor))
	if err != nil {
		s.logger.Error("create_dependency failed", "error", err)
		return nil, CreateDependencyOutput{}, fmt.Errorf("creating dependency: %w", err)
	}

	return nil, CreateDependencyOutput{
		DependencyID: res.Dependency.ID,
		Affected:     toChangedTasks(res.Affected),
	}, nil
}

func (s *Server) handleCheckDependencyCycle(ctx context.Context, _ *mcp.CallToolRequest, input CheckDependencyCycleInput) (*mcp.CallToolResult, CheckDependencyCycleOutput, error) {
	s.logger.Info("check_dependency_cycle", "predecessor_id", input.PredecessorID, "successor_id", input.SuccessorID)

	projectID, err := s.projectID(ctx, input.Project)
	if err != nil {
		return nil, CheckDependencyCycleOutput{}, err
	}
	cyclic, err := s.services.Schedule.WouldCreateCycle(ctx, projectID, input.PredecessorID, input.SuccessorID)
	if err != nil {
		return nil, CheckDependencyCycleOutput{}, fmt.Errorf("checking cycle: %w", err)
	}
	return nil, CheckDependencyCycleOutput{WouldCreateCycle: cyclic}, nil
}

func (s *Server) handlePropagateSchedule(ctx context.Context, _ *mcp.CallToolRequest, input PropagateScheduleInput) (*mcp.CallToolResult, PropagateScheduleOutput, error) {
	s.logger.Info("propagate_schedule", "task_id", input.TaskID)

	if input.TaskID == "" {
		return nil, PropagateScheduleOutput{}, fmt.Errorf("task_id is required")
	}
	affected, err := s.services.Schedule.Propagate(ctx, input.TaskID, s.actorOr(input.Actor))
	if err != nil {
		s.logger.Error("propagate_schedule failed", "task_id", input.TaskID, "error", err)
		return nil, PropagateScheduleOutput{}, fmt.Errorf("propagating schedule: %w", err)
	}
	return nil, PropagateScheduleOutput{Affected: toChangedTasks(affected)}, nil
}

func (s *Server) handleRecalculateSummary(ctx context.Context, _ *mcp.CallToolRequest, input RecalculateSummaryInput) (*mcp.CallToolResult, RecalculateSummaryOutput, error) {
	s.logger.Info("recalculate_summary", "summary_id", input.SummaryID, "project", input.Project)

	if input.SummaryID != "" {
		if err := s.services.Schedule.RecalculateSummary(ctx, input.SummaryID); err != nil {
			return nil, RecalculateSummaryOutput{}, fmt.Errorf("recalculating summary: %w", err)
		}
		return nil, RecalculateSummaryOutput{Recalculated: input.SummaryID}, nil
	}

	projectID, err := s.projectID(ctx, input.Project)
	if err != nil {
		return nil, RecalculateSummaryOutput{}, fmt.Errorf("summary_id or project is required: %w", err)
	}
	if err := s.services.Schedule.RecalculateProject(ctx, projectID); err != nil {
		return nil, RecalculateSummaryOutput{}, fmt.Errorf("recalculating project: %w", err)
	}
	return nil, RecalculateSummaryOutput{Recalculated: projectID}, nil
}

func (s *Server) projectID(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("project is required")
	}
	p, err := s.services.Projects.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolving project %q: %w", ref, err)
	}
	return p.ID, nil
}

func (s *Server) actorOr(actor string) string {
	if actor != "" {
		return actor
	}
	return s.actor
}

func toTaskEntry(v *service.TaskView) TaskEntry {
	e := TaskEntry{
		ID:         v.ID,
		WBS:        v.WBS,
		Type:       string(v.Type),
		Title:      v.Title,
		StartDate:  domain.FormatDate(v.StartDate),
		EndDate:    domain.FormatDate(v.EndDate),
		Progress:   v.Progress,
		Status:     string(v.Status),
		EstimatePd: v.EstimatePd,
		Assignees:  v.AssigneeIDs,
	}
	if v.ParentID != nil {
		e.ParentID = *v.ParentID
	}
	for _, k := range v.Warnings.Kinds {
		e.Warnings = append(e.Warnings, string(k))
	}
	return e
}

func toChangedTasks(tasks []*domain.Task) []ChangedTask {
	out := make([]ChangedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ChangedTask{
			ID:        t.ID,
			Title:     t.Title,
			StartDate: domain.FormatDate(t.StartDate),
			EndDate:   domain.FormatDate(t.EndDate),
		})
	}
	return out
}
