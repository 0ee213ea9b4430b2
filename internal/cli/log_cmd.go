package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLogCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and list time spent on tasks",
	}
	cmd.AddCommand(newLogAddCmd(a), newLogListCmd(a))
	return cmd
}

func newLogAddCmd(a *App) *cobra.Command {
	var project, note string
	var pd float64
	var on *dateValue

	cmd := &cobra.Command{
		Use:   "add TASK",
		Short: "Log person-days against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			workDate := time.Now()
			if d := on.Value(); d != nil {
				workDate = *d
			}
			entry, err := a.Services.TimeLogs.Log(ctx, id, workDate, pd, note, a.actor())
			if err != nil {
				return err
			}
			total, err := a.Services.TimeLogs.ActualPd(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s (total %s)\n",
				formatter.FormatPd(entry.Pd), entry.WorkDate.Format("2006-01-02"), formatter.FormatPd(total))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().Float64Var(&pd, "pd", 0, "Person-days spent")
	cmd.Flags().StringVar(&note, "note", "", "Note")
	on = dateFlag(cmd.Flags(), "date", "Work date, default today")
	_ = cmd.MarkFlagRequired("pd")
	return cmd
}

func newLogListCmd(a *App) *cobra.Command {
	var project string
	var from, to *dateValue

	cmd := &cobra.Command{
		Use:   "list TASK",
		Short: "List time logged on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			logs, err := a.Services.TimeLogs.ListByTask(ctx, id, from.Value(), to.Value())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeLogs(logs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	from = dateFlag(cmd.Flags(), "from", "First work date")
	to = dateFlag(cmd.Flags(), "to", "Last work date")
	return cmd
}
