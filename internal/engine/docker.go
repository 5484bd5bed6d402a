package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/CodexForgeBR/riptide-xdebug/internal/logging"
	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
)

// CommandRunner executes the docker binary with args and returns its stdout.
type CommandRunner func(ctx context.Context, bin string, args ...string) ([]byte, error)

// Docker implements Engine on top of the docker CLI.
type Docker struct {
	Bin    string
	Prefix string

	// Run defaults to executing the binary with os/exec.
	Run CommandRunner
}

var _ Engine = (*Docker)(nil)

// NewDocker returns a Docker engine using bin and naming containers
// <prefix>__<project>__<service>.
func NewDocker(bin, prefix string) *Docker {
	return &Docker{Bin: bin, Prefix: prefix, Run: execRunner}
}

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s %s: %w: %s", bin, args[0], err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s %s: %w", bin, args[0], err)
	}
	return stdout.Bytes(), nil
}

// Available reports whether the docker binary can be found in PATH.
func (d *Docker) Available() bool {
	_, err := exec.LookPath(d.Bin)
	return err == nil
}

// ContainerName returns the container name of a service.
func (d *Docker) ContainerName(p *project.Project, service string) string {
	return fmt.Sprintf("%s__%s__%s", d.Prefix, p.Name, service)
}

// ImageLabels inspects the image of obj. Images that are not present
// locally yield no labels.
func (d *Docker) ImageLabels(ctx context.Context, p *project.Project, obj *project.Object) (map[string]string, error) {
	if obj.Image == "" {
		return nil, nil
	}
	out, err := d.Run(ctx, d.Bin, "image", "inspect", "--format", "{{json .Config.Labels}}", obj.Image)
	if err != nil {
		logging.Debug(fmt.Sprintf("image %s not inspectable: %v", obj.Image, err))
		return nil, nil
	}

	out = bytes.TrimSpace(out)
	if len(out) == 0 || string(out) == "null" {
		return nil, nil
	}
	var labels map[string]string
	if err := json.Unmarshal(out, &labels); err != nil {
		return nil, fmt.Errorf("decode labels of %s: %w", obj.Image, err)
	}
	return labels, nil
}

// ServiceStatus reports whether the service container is running. A missing
// container counts as not running.
func (d *Docker) ServiceStatus(ctx context.Context, p *project.Project, name string) (bool, error) {
	out, err := d.Run(ctx, d.Bin, "ps", "--quiet",
		"--filter", "name=^"+d.ContainerName(p, name)+"$",
		"--filter", "status=running")
	if err != nil {
		return false, fmt.Errorf("status of %s: %w", name, err)
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// StopServices stops the service containers.
func (d *Docker) StopServices(ctx context.Context, p *project.Project, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"stop"}, d.containerNames(p, names)...)
	if _, err := d.Run(ctx, d.Bin, args...); err != nil {
		return fmt.Errorf("stop services: %w", err)
	}
	return nil
}

// StartServices starts the service containers. Unless quick is set, the
// images of the services are pulled first.
func (d *Docker) StartServices(ctx context.Context, p *project.Project, names []string, quick bool) error {
	if len(names) == 0 {
		return nil
	}
	if !quick {
		for _, name := range names {
			obj := findService(p, name)
			if obj == nil || obj.Image == "" {
				continue
			}
			if _, err := d.Run(ctx, d.Bin, "pull", "--quiet", obj.Image); err != nil {
				return fmt.Errorf("pull image for %s: %w", name, err)
			}
		}
	}
	args := append([]string{"start"}, d.containerNames(p, names)...)
	if _, err := d.Run(ctx, d.Bin, args...); err != nil {
		return fmt.Errorf("start services: %w", err)
	}
	return nil
}

func (d *Docker) containerNames(p *project.Project, names []string) []string {
	containers := make([]string, 0, len(names))
	for _, name := range names {
		containers = append(containers, d.ContainerName(p, name))
	}
	return containers
}

func findService(p *project.Project, name string) *project.Object {
	for _, s := range p.Services {
		if s.Name == name {
			return s
		}
	}
	return nil
}
