package cli

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a JSON or YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Services.Import.ImportProject(cmd.Context(), args[0], a.actor())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported project %s [%s]: %d tasks, %d dependencies\n",
				res.Project.Name, res.Project.Code, res.TaskCount, res.DependencyCount)
			fmt.Fprint(out, formatter.FormatAffected(res.Affected))
			return nil
		},
	}
}
