package cli

import (
	"github.com/alexanderramin/wbs/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newMCPCmd(a *App, v *viper.Viper) *cobra.Command {
	var useHTTP bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the scheduling tools over the Model Context Protocol",
		Long:  "Serves over stdio by default. With --http it serves streamable HTTP on mcp.addr until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcp.NewServer(a.Services, a.actor(), a.Logger)
			if useHTTP {
				return srv.ListenAndServe(cmd.Context(), a.Config.MCP.Addr)
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&useHTTP, "http", false, "Serve streamable HTTP instead of stdio")
	cmd.Flags().String("addr", "", "HTTP listen address (default from mcp.addr)")
	_ = v.BindPFlag("mcp.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
