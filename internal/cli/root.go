package cli

import (
	"log/slog"
	"os"

	"github.com/alexanderramin/wbs/internal/app"
	"github.com/alexanderramin/wbs/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App holds the services and session settings used by CLI commands.
// When Services is nil it is opened from configuration before the first
// command runs.
type App struct {
	Services *app.Services
	Config   config.Config
	Logger   *slog.Logger

	// Actor, when set, overrides the configured actor and --actor.
	Actor string

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)

	closeDB func() error
}

// NewApp returns an App that opens its services from configuration and
// detects an interactive terminal on stdin.
func NewApp() *App {
	return &App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
}

func (a *App) actor() string {
	if a.Actor != "" {
		return a.Actor
	}
	if a.Config.Actor != "" {
		return a.Config.Actor
	}
	return "local"
}

// NewRootCmd creates the top-level "wbs" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "wbs",
		Short:         "Work breakdown structure and Gantt scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.boot(v, cfgFile)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .wbs.yaml)")
	flags.String("db", "", "SQLite database path")
	flags.String("actor", "", "user recorded in the change log")
	flags.Bool("log-use-cases", false, "log each service use case to stderr")
	_ = v.BindPFlag("db_path", flags.Lookup("db"))
	_ = v.BindPFlag("actor", flags.Lookup("actor"))
	_ = v.BindPFlag("log_use_cases", flags.Lookup("log-use-cases"))

	root.AddCommand(
		newProjectCmd(a),
		newTaskCmd(a),
		newDepCmd(a),
		newLogCmd(a),
		newBaselineCmd(a),
		newCommentCmd(a),
		newDeliverableCmd(a),
		newHistoryCmd(a),
		newImportCmd(a),
		newScheduleCmd(a),
		newMCPCmd(a, v),
	)

	return root
}

func (a *App) boot(v *viper.Viper, cfgFile string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	a.Config = cfg
	if a.Logger == nil {
		a.Logger = app.NewLogger(os.Stderr, cfg.LogLevel)
	}
	if a.Services != nil {
		return nil
	}
	svc, closeDB, err := app.Open(cfg, a.Logger)
	if err != nil {
		return err
	}
	a.Services = svc
	a.closeDB = closeDB
	return nil
}

func (a *App) shutdown() error {
	if a.closeDB == nil {
		return nil
	}
	err := a.closeDB()
	a.closeDB = nil
	a.Services = nil
	return err
}
