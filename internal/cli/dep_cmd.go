package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
	"github.com/spf13/cobra"
)

func newDepCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage finish-to-start dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(a),
		newDepListCmd(a),
		newDepCheckCmd(a),
		newDepDeleteCmd(a),
	)

	return cmd
}

func newDepAddCmd(a *App) *cobra.Command {
	var project string
	var lag int

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR SUCCESSOR",
		Short: "Make SUCCESSOR start after PREDECESSOR ends",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			pred, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			succ, err := resolveTaskID(ctx, a, args[1], project)
			if err != nil {
				return err
			}
			res, err := a.Services.Dependencies.Create(ctx, projectID, service.DependencyInput{
				PredecessorID: pred,
				SuccessorID:   succ,
				Type:          domain.DependencyFS,
				LagDays:       lag,
			}, a.actor())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added dependency %s\n", res.Dependency.ID)
			fmt.Fprint(out, formatter.FormatAffected(res.Affected))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days between predecessor end and successor start")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newDepListCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dependencies of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			deps, err := a.Services.Dependencies.List(ctx, projectID)
			if err != nil {
				return err
			}
			views, err := a.Services.Tasks.List(ctx, projectID, false)
			if err != nil {
				return err
			}
			titles := make(map[string]string, len(views))
			for _, v := range views {
				titles[v.ID] = v.WBS + " " + v.Title
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDependencyList(deps, titles))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newDepCheckCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "check PREDECESSOR SUCCESSOR",
		Short: "Report whether adding the dependency would create a cycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			pred, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			succ, err := resolveTaskID(ctx, a, args[1], project)
			if err != nil {
				return err
			}
			cyclic, err := a.Services.Schedule.WouldCreateCycle(ctx, projectID, pred, succ)
			if err != nil {
				return err
			}
			if cyclic {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleRed.Render("cycle: this dependency would create a loop"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("ok: no cycle"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newDepDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete DEPENDENCY_ID",
		Short: "Delete a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.confirm("delete dependency "+args[0], yes); err != nil {
				return err
			}
			if err := a.Services.Dependencies.Delete(cmd.Context(), args[0], a.actor()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted dependency %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
