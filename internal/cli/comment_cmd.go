package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/spf13/cobra"
)

func newCommentCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Discuss tasks",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project code or UUID")

	add := &cobra.Command{
		Use:   "add TASK TEXT...",
		Short: "Comment on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			c, err := a.Services.Comments.Add(ctx, id, strings.Join(args[1:], " "), a.actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment added. %s\n", formatter.Dim(c.ID))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list TASK",
		Short: "Show the comments on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0], project)
			if err != nil {
				return err
			}
			comments, err := a.Services.Comments.ListByTask(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatComments(comments))
			return nil
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete COMMENT_ID",
		Short: "Remove a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.confirm("delete comment "+args[0], yes); err != nil {
				return err
			}
			if err := a.Services.Comments.Delete(cmd.Context(), args[0], a.actor()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %s\n", args[0])
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	cmd.AddCommand(add, list, del)
	return cmd
}

func newHistoryCmd(a *App) *cobra.Command {
	var project string
	var entity string

	cmd := &cobra.Command{
		Use:   "history ID",
		Short: "Show the change log of a task or other entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			entityType, err := historyEntity(entity)
			if err != nil {
				return err
			}
			switch entityType {
			case domain.EntityTask:
				if id, err = resolveTaskID(ctx, a, id, project); err != nil {
					return err
				}
			case domain.EntityProject:
				if id, err = resolveProjectID(ctx, a, id); err != nil {
					return err
				}
			}
			entries, err := a.Services.History.ListByEntity(ctx, entityType, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChangeLog(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project code or UUID")
	cmd.Flags().StringVar(&entity, "type", "task", "task, dependency, project, baseline or deliverable")
	return cmd
}

func historyEntity(s string) (string, error) {
	switch strings.ToLower(s) {
	case "task":
		return domain.EntityTask, nil
	case "dependency", "dep":
		return domain.EntityDependency, nil
	case "project":
		return domain.EntityProject, nil
	case "baseline":
		return domain.EntityBaseline, nil
	case "deliverable":
		return domain.EntityDeliverable, nil
	default:
		return "", fmt.Errorf("unknown history type %q", s)
	}
}
