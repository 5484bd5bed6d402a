// Package cli provides flag binding, help text and the controller of the
// xdebug command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/riptide-xdebug/internal/config"
)

// BindRootFlags registers the persistent flags of the root command.
// The flags directly modify fields in the provided config pointer.
func BindRootFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&cfg.ProjectPath, "project", "p", "", "Path to the project file (default: search upwards for riptide.yml)")
	flags.StringVar(&cfg.SettingsFile, "settings", "", "Path to an additional settings file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print debug output")
	flags.BoolVar(&cfg.NonInteractive, "non-interactive", false, "Suppress advisory warnings")
}

// SettingsOverrides returns the settings explicitly set on the command line,
// keyed by settings variable name. Flags left at their defaults are omitted so
// settings files are not overridden by flag defaults.
func SettingsOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	boolFlags := map[string]struct {
		key string
		val bool
	}{
		"verbose":         {"VERBOSE", cfg.Verbose},
		"non-interactive": {"NON_INTERACTIVE", cfg.NonInteractive},
	}
	for flag, mapping := range boolFlags {
		if f := cmd.Flag(flag); f != nil && f.Changed {
			if mapping.val {
				overrides[mapping.key] = "true"
			} else {
				overrides[mapping.key] = "false"
			}
		}
	}

	return overrides
}

// XdebugFlags holds the raw flag values of the xdebug command.
type XdebugFlags struct {
	Mode           string
	RequestTrigger bool
	Parameters     string
}

// BindXdebugFlags registers the flags of the xdebug command.
func BindXdebugFlags(cmd *cobra.Command) *XdebugFlags {
	f := &XdebugFlags{}
	flags := cmd.Flags()

	flags.StringVarP(&f.Mode, "mode", "m", "", "Xdebug 3 mode, e.g. debug, develop, profile, trace")
	flags.BoolVarP(&f.RequestTrigger, "request-trigger", "t", false, "Only start debugging when a trigger is present (--request-trigger=false to always start)")
	flags.StringVarP(&f.Parameters, "config", "c", "", "Extra Xdebug settings as comma-separated key=value pairs; replaces all previous ones")
	return f
}

// OptionsFromFlags turns parsed arguments and flags into controller options.
// Only flags set explicitly by the user are included.
func OptionsFromFlags(cmd *cobra.Command, args []string, f *XdebugFlags) Options {
	var opts Options
	if len(args) > 0 {
		opts.State = &args[0]
	}
	if cmd.Flags().Changed("mode") {
		opts.Mode = &f.Mode
	}
	if cmd.Flags().Changed("request-trigger") {
		opts.RequestTrigger = &f.RequestTrigger
	}
	if cmd.Flags().Changed("config") {
		opts.Parameters = &f.Parameters
	}
	return opts
}
