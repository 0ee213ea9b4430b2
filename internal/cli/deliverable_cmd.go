package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
	"github.com/spf13/cobra"
)

func newDeliverableCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "deliverable",
		Aliases: []string{"dl"},
		Short:   "Track project deliverables and the tasks that produce them",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project code or UUID")

	cmd.AddCommand(
		newDeliverableAddCmd(a, &project),
		newDeliverableListCmd(a, &project),
		newDeliverableLinkCmd(a, &project, true),
		newDeliverableLinkCmd(a, &project, false),
	)
	return cmd
}

func newDeliverableAddCmd(a *App, project *string) *cobra.Command {
	var in service.DeliverableInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a deliverable to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, *project)
			if err != nil {
				return err
			}
			d, err := a.Services.Deliverables.Create(ctx, projectID, in, a.actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created deliverable %q (%s)\n", d.Name, d.ID)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&in.Name, "name", "", "Deliverable name")
	fs.StringVar(&in.URL, "url", "", "Absolute URL of the artifact")
	fs.StringVar(&in.Type, "type", "", "Free-form kind, such as doc or build")
	fs.StringVar(&in.Note, "note", "", "Note")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newDeliverableListCmd(a *App, project *string) *cobra.Command {
	var task string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's deliverables, or those linked to --task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var list []*domain.Deliverable
			if task != "" {
				id, err := resolveTaskID(ctx, a, task, *project)
				if err != nil {
					return err
				}
				if list, err = a.Services.Deliverables.ListByTask(ctx, id); err != nil {
					return err
				}
			} else {
				projectID, err := resolveProjectID(ctx, a, *project)
				if err != nil {
					return err
				}
				if list, err = a.Services.Deliverables.ListByProject(ctx, projectID); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDeliverableList(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Only deliverables linked to this task")
	return cmd
}

func newDeliverableLinkCmd(a *App, project *string, link bool) *cobra.Command {
	use, short, done := "link", "Link a deliverable to a task", "Linked"
	if !link {
		use, short, done = "unlink", "Remove a deliverable from a task", "Unlinked"
	}

	return &cobra.Command{
		Use:   use + " TASK DELIVERABLE_ID",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, a, args[0], *project)
			if err != nil {
				return err
			}
			if link {
				err = a.Services.Deliverables.LinkToTask(ctx, taskID, args[1], a.actor())
			} else {
				err = a.Services.Deliverables.Unlink(ctx, taskID, args[1], a.actor())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deliverable %s\n", done, args[1])
			return nil
		},
	}
}
