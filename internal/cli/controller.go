package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/CodexForgeBR/riptide-xdebug/internal/banner"
	"github.com/CodexForgeBR/riptide-xdebug/internal/engine"
	"github.com/CodexForgeBR/riptide-xdebug/internal/logging"
	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
	"github.com/CodexForgeBR/riptide-xdebug/internal/xdebug"
)

// Options are the inputs of one xdebug invocation. Nil fields are left
// unchanged.
type Options struct {
	State          *string
	Mode           *string
	RequestTrigger *bool
	Parameters     *string
}

// BuildUpdates converts options into state updates. The parameter string is
// validated here, so a malformed value aborts before anything is written.
func BuildUpdates(opts Options) ([]xdebug.Update, error) {
	var updates []xdebug.Update

	if opts.State != nil {
		updates = append(updates, xdebug.SetEnabled(*opts.State != "off"))
	}
	if opts.Mode != nil {
		updates = append(updates, xdebug.SetMode(*opts.Mode))
	}
	if opts.RequestTrigger != nil {
		updates = append(updates, xdebug.SetRequestTrigger(*opts.RequestTrigger))
	}
	if opts.Parameters != nil {
		params, err := xdebug.ParseParameters(*opts.Parameters)
		if err != nil {
			return nil, fmt.Errorf("--config: %w", err)
		}
		updates = append(updates, xdebug.SetParameters{Values: params})
	}
	return updates, nil
}

// Controller runs the xdebug command against one project.
type Controller struct {
	Store    *xdebug.Store
	Detector *xdebug.Detector
	Engine   engine.Engine

	// Reload re-reads the project document and settings before services are
	// restarted. Nil keeps the current project.
	Reload func() (*project.Project, error)

	Out io.Writer
}

// Run applies the requested changes, restarts running php services if the
// configuration changed, and prints the resulting status.
func (c *Controller) Run(ctx context.Context, p *project.Project, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	updates, err := BuildUpdates(opts)
	if err != nil {
		return err
	}

	if len(updates) > 0 {
		before, err := c.Store.Read(p)
		if err != nil {
			return err
		}
		for _, u := range updates {
			logging.Debug("Setting " + u.Field())
			if err := c.Store.Write(p, u); err != nil {
				return fmt.Errorf("update %s: %w", u.Field(), err)
			}
		}
		after, err := c.Store.Read(p)
		if err != nil {
			return err
		}
		if !before.Equal(after) {
			if p, err = c.restartPHPServices(ctx, p); err != nil {
				return err
			}
		}
	}

	s, err := c.Store.Read(p)
	if err != nil {
		return err
	}
	version, err := c.Detector.Detect(ctx, p)
	if err != nil {
		return fmt.Errorf("detect xdebug version: %w", err)
	}

	banner.PrintStatus(c.Out, p.Name, s, version)
	return nil
}

// RunningPHPServices returns the names of php services that are running.
func (c *Controller) RunningPHPServices(ctx context.Context, p *project.Project) ([]string, error) {
	if c.Engine == nil {
		return nil, xdebug.ErrEngineNotReady
	}
	var running []string
	for _, svc := range p.ServicesByRole(project.RolePHP) {
		up, err := c.Engine.ServiceStatus(ctx, p, svc.Name)
		if err != nil {
			return nil, err
		}
		if up {
			running = append(running, svc.Name)
		}
	}
	return running, nil
}

// restartPHPServices stops and quick-starts running php services so they
// pick up the new configuration. It returns the reloaded project.
func (c *Controller) restartPHPServices(ctx context.Context, p *project.Project) (*project.Project, error) {
	running, err := c.RunningPHPServices(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(running) == 0 {
		return p, nil
	}

	if c.Reload != nil {
		reloaded, err := c.Reload()
		if err != nil {
			return nil, fmt.Errorf("reload project: %w", err)
		}
		p = reloaded
	}

	logging.Info("Restarting " + strings.Join(running, ", "))
	if err := c.Engine.StopServices(ctx, p, running); err != nil {
		return nil, err
	}
	if err := c.Engine.StartServices(ctx, p, running, true); err != nil {
		return nil, err
	}
	logging.Success("Services restarted")
	return p, nil
}
