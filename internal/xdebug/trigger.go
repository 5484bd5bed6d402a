package xdebug

// Setting is a single php.ini directive.
type Setting struct {
	Name  string
	Value string
}

func (s Setting) String() string {
	return s.Name + "=" + s.Value
}

// TriggerSettings translates the request_trigger flag into the directives it
// implies for Xdebug 3 and Xdebug 2. A stored true means debugging waits for
// a trigger, so neither version starts automatically.
func TriggerSettings(requestTrigger bool) (v3, v2 Setting) {
	if requestTrigger {
		return Setting{"xdebug.start_with_request", "trigger"}, Setting{"xdebug.remote_autostart", "0"}
	}
	return Setting{"xdebug.start_with_request", "yes"}, Setting{"xdebug.remote_autostart", "1"}
}
