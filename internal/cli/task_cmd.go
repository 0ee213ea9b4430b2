package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks in the WBS",
		Long:  "Tasks are addressed by UUID, or by WBS number or UUID prefix together with --project.",
	}

	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskUpdateCmd(a),
		newTaskMoveCmd(a),
		newTaskDeleteCmd(a),
	)

	return cmd
}

func newTaskAddCmd(a *App) *cobra.Command {
	var project, parent, title, description, priority, taskType, status string
	var progress int
	var assignees []string
	var start, end *dateValue

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			parentID, err := resolveOptionalTaskID(ctx, a, parent, project)
			if err != nil {
				return err
			}
			res, err := a.Services.Tasks.Create(ctx, projectID, service.TaskInput{
				ParentID:    parentID,
				Type:        domain.TaskType(taskType),
				Title:       title,
				Description: description,
				Priority:    priority,
				StartDate:   start.Value(),
				EndDate:     end.Value(),
				Progress:    progress,
				Status:      domain.TaskStatus(status),
				EstimatePd:  optionalFloat(cmd.Flags(), "estimate"),
				AssigneeIDs: assignees,
			}, a.actor())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created task %s %s\n", res.Task.WBS, res.Task.Title)
			fmt.Fprint(out, formatter.FormatAffected(res.Affected))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&project, "project", "p", "", "Project code or UUID")
	fs.StringVar(&parent, "parent", "", "Parent summary (WBS number or UUID)")
	fs.StringVar(&title, "title", "", "Task title")
	fs.StringVar(&description, "description", "", "Description")
	fs.StringVar(&priority, "priority", "", "Priority label")
	fs.StringVar(&taskType, "type", "task", "task, summary or milestone")
	fs.StringVar(&status, "status", "", "NotStarted, InProgress, Blocked or Done")
	fs.IntVar(&progress, "progress", 0, "Progress percent")
	fs.Float64("estimate", 0, "Estimate in person-days")
	fs.StringSliceVar(&assignees, "assignee", nil, "Assigned user (repeatable)")
	start = dateFlag(fs, "start", "Start date")
	end = dateFlag(fs, "end", "End date")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(a *App) *cobra.Command {
	var project string
	var withDeleted, watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the WBS tree of a project",
		Long:  "With --watch the tree is redrawn whenever the database changes, until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			render := func() error {
				views, err := a.Services.Tasks.List(ctx, projectID, withDeleted)
				if err != nil {
					return err
				}
				if watch && a.IsInteractive != nil && a.IsInteractive() {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				fmt.Fprint(out, formatter.FormatTaskTree(views))
				return nil
			}
			if !watch {
				return render()
			}
			if a.Config.DBPath == "" || a.Config.DBPath == ":memory:" {
				return fmt.Errorf("--watch needs a database file")
			}
			return watchDB(ctx, a.Config.DBPath, render)
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().BoolVar(&withDeleted, "deleted", false, "Include deleted tasks")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw when the database changes")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskShowCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "show TASK",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			view, err := a.Services.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(view))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	return cmd
}

func newTaskUpdateCmd(a *App) *cobra.Command {
	var project string
	var start, end *dateValue

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Update task fields",
		Long:  "Only the flags given are changed. Pass --start none or --end none to clear a date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			patch := service.TaskPatch{
				Title:       optionalString(fs, "title"),
				Description: optionalString(fs, "description"),
				Priority:    optionalString(fs, "priority"),
				Progress:    optionalInt(fs, "progress"),
				EstimatePd:  optionalFloat(fs, "estimate"),
			}
			if s := optionalString(fs, "status"); s != nil {
				st := domain.TaskStatus(*s)
				patch.Status = &st
			}
			if fs.Changed("assignee") {
				users, _ := fs.GetStringSlice("assignee")
				patch.AssigneeIDs = &users
			}
			if start.set {
				patch.StartDate = start.Value()
				patch.ClearStart = start.cleared
			}
			if end.set {
				patch.EndDate = end.Value()
				patch.ClearEnd = end.cleared
			}
			res, err := a.Services.Tasks.Update(ctx, id, patch, a.actor())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated task %s %s\n", res.Task.WBS, res.Task.Title)
			if res.Task.Warnings.HasWarning {
				fmt.Fprintln(out, formatter.WarningBadges(res.Task.Warnings.Kinds))
			}
			fmt.Fprint(out, formatter.FormatAffected(res.Affected))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&project, "project", "p", "", "Project code or UUID")
	fs.String("title", "", "New title")
	fs.String("description", "", "New description")
	fs.String("priority", "", "New priority")
	fs.String("status", "", "NotStarted, InProgress, Blocked or Done")
	fs.Int("progress", 0, "Progress percent")
	fs.Float64("estimate", 0, "Estimate in person-days")
	fs.StringSlice("assignee", nil, `Replace the assignees (repeatable; --assignee "" clears)`)
	start = dateFlag(fs, "start", "New start, or none to clear")
	end = dateFlag(fs, "end", "New end, or none to clear")
	return cmd
}

func newTaskMoveCmd(a *App) *cobra.Command {
	var project, parent, after string

	cmd := &cobra.Command{
		Use:   "move TASK",
		Short: "Move a task to another parent or position",
		Long:  "Without --parent the task moves to the top level. Without --after it becomes the first child.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			parentID, err := resolveOptionalTaskID(ctx, a, parent, project)
			if err != nil {
				return err
			}
			afterID, err := resolveOptionalTaskID(ctx, a, after, project)
			if err != nil {
				return err
			}
			if err := a.Services.Tasks.Move(ctx, id, parentID, afterID, a.actor()); err != nil {
				return err
			}
			view, err := a.Services.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task to %s\n", view.WBS)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent summary")
	cmd.Flags().StringVar(&after, "after", "", "Sibling to place the task after")
	return cmd
}

func newTaskDeleteCmd(a *App) *cobra.Command {
	var project string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			view, err := a.Services.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := a.confirm(fmt.Sprintf("delete task %q", view.Title), yes); err != nil {
				return err
			}
			if err := a.Services.Tasks.Delete(ctx, id, a.actor()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", view.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
