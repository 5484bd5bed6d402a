// Package config defines the riptide-xdebug settings model and default values.
//
// Settings are assembled from multiple sources with a strict precedence
// chain: built-in defaults < global settings file < explicit settings file <
// CLI flag overrides.
package config

// WhitelistedVars lists every settings variable name that may appear in
// settings files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [11]string{
	"PROJECT_FILE",
	"META_FOLDER",
	"STATE_FILE",
	"VERSION_ENV",
	"VERSION_LABEL",
	"DEFAULT_VERSION",
	"DOCS_URL",
	"DOCKER_BIN",
	"CONTAINER_PREFIX",
	"VERBOSE",
	"NON_INTERACTIVE",
}

// Config holds every setting of the riptide-xdebug CLI.
type Config struct {
	// Project document location.
	ProjectFile string
	MetaFolder  string
	StateFile   string

	// Version detection.
	VersionEnv     string
	VersionLabel   string
	DefaultVersion string
	DocsURL        string

	// Engine.
	DockerBin       string
	ContainerPrefix string

	// Runtime flags.
	Verbose        bool
	NonInteractive bool

	// CLI-only flags (not loaded from settings files).
	SettingsFile string
	ProjectPath  string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		ProjectFile:     "riptide.yml",
		MetaFolder:      "_riptide",
		StateFile:       ".xdebug.json",
		VersionEnv:      "RIPTIDE_XDEBUG_VERSION",
		VersionLabel:    "riptide_xdebug_version",
		DefaultVersion:  "2",
		DocsURL:         "https://riptide-docs.readthedocs.io/en/latest/plugins/php-xdebug.html",
		DockerBin:       "docker",
		ContainerPrefix: "riptide",
	}
}
