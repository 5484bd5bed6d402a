// Package enginetest provides an in-memory Engine for tests.
package enginetest

import (
	"context"
	"slices"

	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
)

// Call records one lifecycle operation.
type Call struct {
	Op       string
	Services []string
	Quick    bool
}

// Fake is an Engine whose answers are configured through its fields.
type Fake struct {
	// Labels maps image names to their labels.
	Labels map[string]map[string]string
	// Running lists running service names.
	Running []string

	LabelsErr error
	StopErr   error
	StartErr  error

	LabelLookups []string
	Calls        []Call
}

func (f *Fake) ImageLabels(_ context.Context, _ *project.Project, obj *project.Object) (map[string]string, error) {
	f.LabelLookups = append(f.LabelLookups, obj.Name)
	if f.LabelsErr != nil {
		return nil, f.LabelsErr
	}
	return f.Labels[obj.Image], nil
}

func (f *Fake) ServiceStatus(_ context.Context, _ *project.Project, name string) (bool, error) {
	return slices.Contains(f.Running, name), nil
}

func (f *Fake) StopServices(_ context.Context, _ *project.Project, names []string) error {
	f.Calls = append(f.Calls, Call{Op: "stop", Services: slices.Clone(names)})
	return f.StopErr
}

func (f *Fake) StartServices(_ context.Context, _ *project.Project, names []string, quick bool) error {
	f.Calls = append(f.Calls, Call{Op: "start", Services: slices.Clone(names), Quick: quick})
	return f.StartErr
}
