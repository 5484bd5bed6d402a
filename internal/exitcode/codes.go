// Package exitcode defines named exit codes for the riptide-xdebug CLI.
package exitcode

// Exit code constants.
const (
	Success     = 0   // Command completed
	Error       = 1   // Invalid arguments, unreadable state, engine failure
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
