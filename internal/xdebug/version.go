package xdebug

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/CodexForgeBR/riptide-xdebug/internal/engine"
	"github.com/CodexForgeBR/riptide-xdebug/internal/logging"
	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
)

// Version is an Xdebug major version.
type Version string

const (
	Version2 Version = "2"
	Version3 Version = "3"
)

// Default names of the version override variable and image label.
const (
	DefaultVersionEnv   = "RIPTIDE_XDEBUG_VERSION"
	DefaultVersionLabel = "riptide_xdebug_version"
)

// ErrEngineNotReady is returned when version detection runs before an engine
// was provided.
var ErrEngineNotReady = errors.New("engine not loaded")

// ParseVersion accepts "2" and "3".
func ParseVersion(s string) (Version, bool) {
	switch Version(s) {
	case Version2, Version3:
		return Version(s), true
	default:
		return "", false
	}
}

// Detector finds out which Xdebug version a project uses. The result of the
// first successful call is kept for the lifetime of the Detector.
type Detector struct {
	EnvVar      string
	Label       string
	Default     Version
	DocsURL     string
	Interactive bool
	Engine      engine.Engine

	LookupEnv func(string) (string, bool)
	Warn      func(string)

	version  Version
	detected bool
}

// NewDetector returns a Detector reading the process environment and warning
// through the logging package.
func NewDetector(envVar, label string, def Version, docsURL string, interactive bool) *Detector {
	if envVar == "" {
		envVar = DefaultVersionEnv
	}
	if label == "" {
		label = DefaultVersionLabel
	}
	if _, ok := ParseVersion(string(def)); !ok {
		def = Version2
	}
	return &Detector{
		EnvVar:      envVar,
		Label:       label,
		Default:     def,
		DocsURL:     docsURL,
		Interactive: interactive,
		LookupEnv:   os.LookupEnv,
		Warn:        logging.Warn,
	}
}

// Detect returns the Xdebug version of p. Sources are checked in order:
//
//  1. the override environment variable of this process
//  2. the version label on the image of the first php service
//  3. the override variable in the environment of every service, then every command
//
// If none yields a valid version the default is returned and, in interactive
// sessions, a warning is printed.
func (d *Detector) Detect(ctx context.Context, p *project.Project) (Version, error) {
	if d.detected {
		return d.version, nil
	}
	if d.Engine == nil {
		return "", ErrEngineNotReady
	}

	v, ok := d.probe(ctx, p)
	if !ok {
		v = d.Default
		if d.Interactive && d.Warn != nil {
			d.Warn(fmt.Sprintf(
				"Could not determine the Xdebug version of %s, assuming %s. Set %s in the service environment or see %s",
				p.Name, v, d.EnvVar, d.DocsURL))
		}
	}

	d.version = v
	d.detected = true
	return v, nil
}

func (d *Detector) probe(ctx context.Context, p *project.Project) (Version, bool) {
	if value, ok := d.LookupEnv(d.EnvVar); ok {
		if v, ok := ParseVersion(value); ok {
			logging.Debug("Xdebug version from environment: " + value)
			return v, true
		}
	}

	if svc := p.ServiceByRole(project.RolePHP); svc != nil {
		labels, err := d.Engine.ImageLabels(ctx, p, svc)
		if err != nil {
			logging.Debug(fmt.Sprintf("labels of %s: %v", svc.Name, err))
		}
		if v, ok := ParseVersion(labels[d.Label]); ok {
			logging.Debug(fmt.Sprintf("Xdebug version from image label of %s: %s", svc.Name, v))
			return v, true
		}
	}

	for _, obj := range p.Objects() {
		env, err := p.Environment(obj)
		if err != nil {
			logging.Debug(err.Error())
			continue
		}
		if v, ok := ParseVersion(env[d.EnvVar]); ok {
			logging.Debug(fmt.Sprintf("Xdebug version from %s %s: %s", obj.Kind, obj.Name, v))
			return v, true
		}
	}

	return "", false
}
