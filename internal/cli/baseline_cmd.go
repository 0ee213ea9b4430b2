package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBaselineCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Snapshot the plan and compare against it",
	}
	cmd.AddCommand(newBaselineCreateCmd(a), newBaselineListCmd(a), newBaselineDiffCmd(a))
	return cmd
}

func newBaselineCreateCmd(a *App) *cobra.Command {
	var project, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot every live task of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			b, err := a.Services.Baselines.Create(ctx, projectID, name, a.actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created baseline %q (%s)\n", b.Name, b.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().StringVar(&name, "name", "", "Baseline name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newBaselineListCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List baselines of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			list, err := a.Services.Baselines.List(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBaselineList(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newBaselineDiffCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff BASELINE_ID",
		Short: "Compare a baseline with the current plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := a.Services.Baselines.Diff(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBaselineDiff(diff))
			return nil
		},
	}
}
