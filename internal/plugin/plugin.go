// Package plugin wires the xdebug command into the program through explicit
// lifecycle hooks.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/riptide-xdebug/internal/cli"
	"github.com/CodexForgeBR/riptide-xdebug/internal/config"
	"github.com/CodexForgeBR/riptide-xdebug/internal/engine"
	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
	"github.com/CodexForgeBR/riptide-xdebug/internal/xdebug"
)

// CmdXdebug is the name of the subcommand registered by the plugin.
const CmdXdebug = "xdebug"

const groupPHP = "php"

// ErrUnknownFlag is returned by FlagValue for names it does not provide.
var ErrUnknownFlag = errors.New("unknown flag")

// Hooks are called by the startup sequence at fixed points.
type Hooks interface {
	// OnEngineReady is called once the container engine is constructed.
	OnEngineReady(e engine.Engine)
	// OnCliReady is called with the root command before it executes.
	OnCliReady(root *cobra.Command)
	// OnConfigReloaded is called whenever settings have been (re)loaded.
	OnConfigReloaded(cfg *config.Config)
}

// XdebugPlugin provides the xdebug command.
type XdebugPlugin struct {
	cfg         *config.Config
	engine      engine.Engine
	store       *xdebug.Store
	detector    *xdebug.Detector
	interactive bool

	// ReloadSettings re-reads settings before services are restarted. Nil
	// keeps the current settings.
	ReloadSettings func() (*config.Config, error)
}

var _ Hooks = (*XdebugPlugin)(nil)

// New returns a plugin for one session. interactive controls whether the
// version detection warning may be printed.
func New(cfg *config.Config, interactive bool) *XdebugPlugin {
	def, _ := xdebug.ParseVersion(cfg.DefaultVersion)
	return &XdebugPlugin{
		cfg:         cfg,
		interactive: interactive,
		store:       xdebug.NewStore(cfg.StateFile),
		detector: xdebug.NewDetector(
			cfg.VersionEnv,
			cfg.VersionLabel,
			def,
			cfg.DocsURL,
			interactive && !cfg.NonInteractive,
		),
	}
}

func (pl *XdebugPlugin) OnEngineReady(e engine.Engine) {
	pl.engine = e
	pl.detector.Engine = e
}

func (pl *XdebugPlugin) OnCliReady(root *cobra.Command) {
	if !root.ContainsGroup(groupPHP) {
		root.AddGroup(&cobra.Group{ID: groupPHP, Title: "PHP:"})
	}
	root.AddCommand(pl.xdebugCommand(), pl.flagCommand())
}

// OnConfigReloaded switches to the new settings. A version that was already
// detected is kept for the rest of the session.
func (pl *XdebugPlugin) OnConfigReloaded(cfg *config.Config) {
	pl.cfg = cfg
	pl.store.FileName = cfg.StateFile

	d := pl.detector
	d.EnvVar = cfg.VersionEnv
	d.Label = cfg.VersionLabel
	d.DocsURL = cfg.DocsURL
	d.Interactive = pl.interactive && !cfg.NonInteractive
	if v, ok := xdebug.ParseVersion(cfg.DefaultVersion); ok {
		d.Default = v
	}
}

// LoadProject loads the project named by the settings, or the nearest
// project file above the working directory.
func (pl *XdebugPlugin) LoadProject() (*project.Project, error) {
	path := pl.cfg.ProjectPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = project.Find(wd, pl.cfg.ProjectFile); err != nil {
			return nil, err
		}
	}
	return project.Load(path, pl.cfg.MetaFolder)
}

func (pl *XdebugPlugin) reload() (*project.Project, error) {
	if pl.ReloadSettings != nil {
		cfg, err := pl.ReloadSettings()
		if err != nil {
			return nil, err
		}
		pl.OnConfigReloaded(cfg)
	}
	return pl.LoadProject()
}

// Controller returns a controller bound to the plugin's engine, store and
// session-scoped version detector.
func (pl *XdebugPlugin) Controller(cmd *cobra.Command) *cli.Controller {
	return &cli.Controller{
		Store:    pl.store,
		Detector: pl.detector,
		Engine:   pl.engine,
		Reload:   pl.reload,
		Out:      cmd.OutOrStdout(),
	}
}

func (pl *XdebugPlugin) xdebugCommand() *cobra.Command {
	var flags *cli.XdebugFlags
	cmd := &cobra.Command{
		Use:     CmdXdebug + " [on|off]",
		Short:   "Control Xdebug for this project",
		Long:    cli.XdebugLongHelp(),
		Args:    cobra.MaximumNArgs(1),
		GroupID: groupPHP,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.OptionsFromFlags(cmd, args, flags)
			p, err := pl.LoadProject()
			if err != nil {
				return err
			}
			return pl.Controller(cmd).Run(cmd.Context(), p, opts)
		},
	}
	flags = cli.BindXdebugFlags(cmd)
	cli.SetCustomHelp(cmd)
	return cmd
}

// FlagValue returns the value of a named flag for the project. Known flags
// are "enabled", "mode", "request_trigger", "parameters" and "version".
func (pl *XdebugPlugin) FlagValue(ctx context.Context, p *project.Project, name string) (any, error) {
	if p == nil {
		return false, nil
	}
	if name == "version" {
		return pl.detector.Detect(ctx, p)
	}

	s, err := pl.store.Read(p)
	if err != nil {
		return nil, err
	}
	switch name {
	case "enabled":
		return s.Enabled, nil
	case "mode":
		return s.Mode, nil
	case "request_trigger":
		return s.RequestTrigger, nil
	case "parameters":
		return s.Parameters, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlag, name)
	}
}

func (pl *XdebugPlugin) flagCommand() *cobra.Command {
	return &cobra.Command{
		Use:     CmdXdebug + "-flag NAME",
		Short:   "Print an Xdebug flag value for templates",
		Args:    cobra.ExactArgs(1),
		GroupID: groupPHP,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pl.LoadProject()
			if err != nil {
				return err
			}
			v, err := pl.FlagValue(cmd.Context(), p, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if params, ok := v.(*xdebug.Parameters); ok {
				for pair := params.Oldest(); pair != nil; pair = pair.Next() {
					fmt.Fprintf(out, "%s=%s\n", pair.Key, pair.Value)
				}
				return nil
			}
			fmt.Fprintln(out, v)
			return nil
		},
	}
}
