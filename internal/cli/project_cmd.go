package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(a),
		newProjectListCmd(a),
		newProjectShowCmd(a),
		newProjectUpdateCmd(a),
		newProjectDeleteCmd(a),
	)

	return cmd
}

func newProjectAddCmd(a *App) *cobra.Command {
	var name, code, description string
	var auto bool
	var start, end *dateValue

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				Code:         code,
				Name:         name,
				Description:  description,
				StartDate:    start.Value(),
				EndDate:      end.Value(),
				AutoSchedule: auto,
			}
			if err := a.Services.Projects.Create(cmd.Context(), p, a.actor()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Project code (3-6 letters + 2-4 digits, e.g. WEB01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().BoolVar(&auto, "auto-schedule", false, "Push successors automatically when dates change")
	start = dateFlag(cmd.Flags(), "start", "Project start")
	end = dateFlag(cmd.Flags(), "end", "Project end")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(a *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.Services.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deleted projects")
	return cmd
}

func newProjectShowCmd(a *App) *cobra.Command {
	var withDeleted bool

	cmd := &cobra.Command{
		Use:   "show CODE",
		Short: "Show a project and its WBS tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.Services.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			views, err := a.Services.Tasks.List(ctx, p.ID, withDeleted)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, formatter.FormatTaskTree(views)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDeleted, "deleted", false, "Include deleted tasks")
	return cmd
}

func newProjectUpdateCmd(a *App) *cobra.Command {
	var start, end *dateValue

	cmd := &cobra.Command{
		Use:   "update CODE",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.Services.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			patch := service.ProjectPatch{
				Name:         optionalString(fs, "name"),
				Description:  optionalString(fs, "description"),
				AutoSchedule: optionalBool(fs, "auto-schedule"),
			}
			if start.set && start.Value() != nil {
				patch.StartDate = start.Value()
			}
			if end.set {
				patch.EndDate = end.Value()
				patch.ClearEndDate = end.cleared
			}
			updated, err := a.Services.Projects.Update(ctx, p.ID, patch, a.actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", updated.Name, updated.Code)
			return nil
		},
	}

	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().Bool("auto-schedule", false, "Enable or disable automatic scheduling")
	start = dateFlag(cmd.Flags(), "start", "New start")
	end = dateFlag(cmd.Flags(), "end", "New end, or none to clear")
	return cmd
}

func newProjectDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete CODE",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.Services.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.confirm(fmt.Sprintf("delete project %s", p.Code), yes); err != nil {
				return err
			}
			if err := a.Services.Projects.Delete(ctx, p.ID, a.actor()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Code)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
