// Package banner provides colored status output for the riptide-xdebug CLI.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/riptide-xdebug/internal/xdebug"
)

var (
	enabledColor  = color.New(color.FgGreen).SprintFunc()
	disabledColor = color.New(color.FgRed).SprintFunc()
	headerColor   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// PrintStatus writes the Xdebug status block of a project.
//
// Example output:
//
//	Xdebug status for shop: Enabled.
//	──────────────────────────────────────────────────
//	  Version:          3
//	  Mode:             debug
//	  Parameters:       log=/tmp/x.log, log_level=10
//	  Request trigger:  xdebug.start_with_request=trigger (Xdebug 3)
//	                    xdebug.remote_autostart=0 (Xdebug 2)
//	──────────────────────────────────────────────────
func PrintStatus(w io.Writer, projectName string, s *xdebug.State, version xdebug.Version) {
	state := disabledColor("Disabled")
	if s.Enabled {
		state = enabledColor("Enabled")
	}
	v3, v2 := xdebug.TriggerSettings(s.RequestTrigger)

	sep := headerColor(strings.Repeat("─", 50))
	fmt.Fprintf(w, "Xdebug status for %s: %s.\n", projectName, state)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Version:          %s\n", version)
	fmt.Fprintf(w, "  Mode:             %s\n", s.Mode)
	fmt.Fprintf(w, "  Parameters:       %s\n", xdebug.FormatParameters(s.Parameters))
	fmt.Fprintf(w, "  Request trigger:  %s (Xdebug 3)\n", v3)
	fmt.Fprintf(w, "                    %s (Xdebug 2)\n", v2)
	fmt.Fprintln(w, sep)
}
