// Package mcp exposes the scheduling use cases as Model Context Protocol
// tools over stdio or streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/wbs/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/run"
)

const (
	ServerName    = "wbs"
	ServerVersion = "v0.1.0"
)

// Server wraps the MCP server with the WBS services.
type Server struct {
	mcpServer *mcp.Server
	services  *app.Services
	actor     string
	logger    *slog.Logger
}

// NewServer creates an MCP server over services. Writes made through the
// tools are recorded in the change log under actor unless a call names its
// own actor.
func NewServer(services *app.Services, actor string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{
				Name:    ServerName,
				Version: ServerVersion,
			},
			nil,
		),
		services: services,
		actor:    actor,
		logger:   logger,
	}

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, listTasksTool(), s.handleListTasks)
	mcp.AddTool(s.mcpServer, updateTaskDatesTool(), s.handleUpdateTaskDates)
	mcp.AddTool(s.mcpServer, createDependencyTool(), s.handleCreateDependency)
	mcp.AddTool(s.mcpServer, checkDependencyCycleTool(), s.handleCheckDependencyCycle)
	mcp.AddTool(s.mcpServer, propagateScheduleTool(), s.handlePropagateSchedule)
	mcp.AddTool(s.mcpServer, recalculateSummaryTool(), s.handleRecalculateSummary)
}

// HTTPHandler returns an http.Handler serving the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return s.mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Logger: s.logger,
		},
	)
}

// Run serves over stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// ListenAndServe serves streamable HTTP on addr until ctx is done or the
// listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var g run.Group

	// HTTP server.
	{
		g.Add(
			func() error {
				s.logger.Info("mcp server listening", "addr", ln.Addr().String())
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("mcp: serve: %w", err)
				}
				return nil
			},
			func(_ error) {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			},
		)
	}

	// Context cancellation (from parent signal handling).
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				<-ctx.Done()
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}
