package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newScheduleCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the scheduling engine by hand",
	}

	var project string
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project code or UUID")

	propagate := &cobra.Command{
		Use:   "propagate TASK",
		Short: "Push successors of TASK so every dependency holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			affected, err := a.Services.Schedule.Propagate(ctx, id, a.actor())
			if err != nil {
				return err
			}
			if len(affected) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schedule already satisfied.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAffected(affected))
			return nil
		},
	}

	recalc := &cobra.Command{
		Use:   "recalc [SUMMARY]",
		Short: "Recompute summary dates and progress",
		Long:  "With a SUMMARY only that summary and its ancestors are recomputed; otherwise every summary of --project.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				id, err := resolveTaskID(ctx, a, args[0], project)
				if err != nil {
					return err
				}
				if err := a.Services.Schedule.RecalculateSummary(ctx, id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Summary recalculated.")
				return nil
			}
			projectID, err := resolveProjectID(ctx, a, project)
			if err != nil {
				return err
			}
			if err := a.Services.Schedule.RecalculateProject(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Project summaries recalculated.")
			return nil
		},
	}

	cmd.AddCommand(propagate, recalc)
	return cmd
}
