// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/f9-o/dtogen/internal/cli/commands"
	"github.com/f9-o/dtogen/internal/core/config"
	"github.com/f9-o/dtogen/internal/core/logger"
	"github.com/f9-o/dtogen/internal/core/state"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
type globalFlags struct {
	configFile string
	debug      bool
	jsonOutput bool
}

// app owns the flags and runtime of one CLI invocation.
type app struct {
	flags globalFlags
	rt    *commands.Runtime
}

// newRootCmd builds the base command for dtogen.
func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dtogen",
		Short:         "dtogen — Java DTOs from JSON samples, fat jars from build output",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `dtogen`: the help func prints the banner.
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "init", "completion", "help":
				return nil
			}
			return a.initRuntime(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.flags.configFile, "config", "c", "", "Path to dtogen.yaml (defaults to auto-discovery)")
	root.PersistentFlags().BoolVar(&a.flags.debug, "debug", false, "Enable debug-level logging")
	root.PersistentFlags().BoolVar(&a.flags.jsonOutput, "json", false, "Output in machine-readable JSON")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errs.New(errs.ErrValidation, cmd.Name(), err).
			WithAdvice(fmt.Sprintf("run `%s --help` for usage", cmd.CommandPath()))
	})

	// Show banner before every help screen
	origHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	// Register all subcommands
	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewGenerateCmd(),
		commands.NewPackageCmd(),
		commands.NewInspectCmd(),
		commands.NewHistoryCmd(),
		commands.NewVersionCmd(),
	)
	return root
}

// initRuntime loads config, logger, and state before each command runs.
func (a *app) initRuntime(cmd *cobra.Command) error {
	// Load config
	cfg, err := config.Load(a.flags.configFile)
	if err != nil {
		return errs.New(errs.ErrConfig, "config.load", err).
			WithAdvice("fix dtogen.yaml or pass --config with a valid file")
	}

	// Initialise logger
	home := config.Home()
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(home, "logs", "dtogen.log")
	}
	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
		Home:   home,
		Debug:  a.flags.debug,
	})
	if err != nil {
		return errs.New(errs.ErrInternal, "logger.init", err)
	}
	if cfg.File != "" {
		log.Debug("config loaded", "file", cfg.File)
	}

	// Open state DB
	if err := os.MkdirAll(home, 0750); err != nil {
		log.Close()
		return errs.Newf(errs.ErrStateWrite, "state.open", "create dtogen home: %w", err)
	}
	db, err := state.Open(filepath.Join(home, "state.db"))
	if err != nil {
		log.Close()
		return err
	}

	// Store in command context
	a.rt = &commands.Runtime{
		Config: cfg,
		Log:    log,
		State:  db,
		Flags: commands.GlobalFlags{
			Debug:      a.flags.debug,
			JSONOutput: a.flags.jsonOutput,
		},
	}
	cmd.SetContext(commands.NewContext(cmd.Context(), a.rt))
	return nil
}

func (a *app) close() {
	if a.rt == nil {
		return
	}
	if err := a.rt.State.Close(); err != nil {
		a.rt.Log.Warn("close state db", "err", err)
	}
	_ = a.rt.Log.Close()
	a.rt = nil
}

// Run executes dtogen with args and returns the command error.
func Run(ctx context.Context, args []string) error {
	a := &app{}
	defer a.close()

	root := a.newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// Execute runs the CLI and returns the process exit code. Called by main().
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := Run(ctx, os.Args[1:])
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		pprint.Error("interrupted")
		return errs.ExitUser
	}
	if e := errs.As(err); e != nil {
		pprint.Error("%s", e.UserMessage())
	} else {
		pprint.Error("%s", err)
	}
	return errs.ExitCode(err)
}
