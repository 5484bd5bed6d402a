package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/riptide-xdebug/internal/cli"
	"github.com/CodexForgeBR/riptide-xdebug/internal/config"
	"github.com/CodexForgeBR/riptide-xdebug/internal/engine"
	"github.com/CodexForgeBR/riptide-xdebug/internal/exitcode"
	"github.com/CodexForgeBR/riptide-xdebug/internal/logging"
	"github.com/CodexForgeBR/riptide-xdebug/internal/plugin"
	sighandler "github.com/CodexForgeBR/riptide-xdebug/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.NewDefaultConfig()
	pl := plugin.New(cfg, stdoutIsTerminal())

	rootCmd := &cobra.Command{
		Use:     "riptide-xdebug",
		Short:   "Manage Xdebug for Riptide projects",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadSettings(cmd, cfg)
			if err != nil {
				return err
			}
			logging.SetVerbose(loaded.Verbose)
			pl.OnConfigReloaded(loaded)

			docker := engine.NewDocker(loaded.DockerBin, loaded.ContainerPrefix)
			if !docker.Available() {
				logging.Debug(loaded.DockerBin + " not found in PATH")
			}
			pl.OnEngineReady(docker)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindRootFlags(rootCmd, cfg)
	pl.ReloadSettings = func() (*config.Config, error) {
		return loadSettings(rootCmd, cfg)
	}
	pl.OnCliReady(rootCmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted")
	})

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			return exitcode.Interrupted
		}
		logging.Error(err.Error())
		return exitcode.Error
	}
	return exitcode.Success
}

// loadSettings assembles settings from the settings files and the flags the
// user set explicitly. CLI-only values are carried over from flags.
func loadSettings(cmd *cobra.Command, flags *config.Config) (*config.Config, error) {
	loaded, err := config.LoadWithPrecedence(config.GlobalPath(), flags.SettingsFile, cli.SettingsOverrides(cmd, flags))
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	loaded.SettingsFile = flags.SettingsFile
	loaded.ProjectPath = flags.ProjectPath
	return loaded, nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
