package cli

import (
	"github.com/spf13/cobra"
)

const xdebugLong = `Control Xdebug for this project.

If STATE is not set:
  Print whether Xdebug is enabled for this project, together with the
  detected Xdebug version, mode, extra settings and trigger behavior.

If STATE is set:
  "off" disables Xdebug, any other value ("on") enables it.

Changing any setting restarts running services with the role "php".`

const helpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}USAGE
  {{.UseLine}}

FLAGS
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{if .HasAvailableInheritedFlags}}
GLOBAL FLAGS
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
EXAMPLES
  # Show status
  riptide-xdebug xdebug

  # Enable Xdebug and only debug requests carrying a trigger
  riptide-xdebug xdebug on --request-trigger

  # Switch to profiling with extra settings
  riptide-xdebug xdebug --mode profile --config output_dir=/tmp,log_level=10

  # Remove all extra settings
  riptide-xdebug xdebug --config ""
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}

// XdebugLongHelp returns the long description of the xdebug command.
func XdebugLongHelp() string {
	return xdebugLong
}
