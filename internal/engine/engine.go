// Package engine abstracts the container runtime that runs project services.
package engine

import (
	"context"

	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
)

// Engine is the subset of the container runtime the xdebug command needs.
type Engine interface {
	// ImageLabels returns the labels of the image obj runs. A nil map with a
	// nil error means the image has no labels or is not available locally.
	ImageLabels(ctx context.Context, p *project.Project, obj *project.Object) (map[string]string, error)

	// ServiceStatus reports whether the named service is running.
	ServiceStatus(ctx context.Context, p *project.Project, name string) (bool, error)

	// StopServices stops the named services and waits until they are stopped.
	StopServices(ctx context.Context, p *project.Project, names []string) error

	// StartServices starts the named services. A quick start skips refreshing
	// the images before starting.
	StartServices(ctx context.Context, p *project.Project, names []string, quick bool) error
}
