// Package project loads the project document (riptide.yml) and answers the
// questions the xdebug command asks about it: which services and commands
// exist, which roles they carry, what environment they run with, and where the
// project keeps its metadata.
package project

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultMetaFolder is the folder inside a project that holds runtime metadata.
const DefaultMetaFolder = "_riptide"

// RolePHP marks services that run PHP and therefore load Xdebug.
const RolePHP = "php"

// ErrProjectNotFound is returned by Find when no project file exists in the
// directory or any of its parents.
var ErrProjectNotFound = errors.New("project file not found")

// Kind distinguishes long-running services from one-shot commands.
type Kind string

const (
	KindService Kind = "service"
	KindCommand Kind = "command"
)

// Object is a configured service or command.
type Object struct {
	Name        string
	Kind        Kind
	Image       string
	Roles       []string
	Environment map[string]string
	EnvFiles    []string
}

// HasRole reports whether the object is tagged with role.
func (o *Object) HasRole(role string) bool {
	return slices.Contains(o.Roles, role)
}

// Project is a loaded project document.
type Project struct {
	Name    string
	Folder  string
	File    string
	MetaDir string

	// Services and Commands keep the order of the document.
	Services []*Object
	Commands []*Object
}

type document struct {
	Project struct {
		Name string `yaml:"name"`
		App  struct {
			Services orderedObjects `yaml:"services"`
			Commands orderedObjects `yaml:"commands"`
		} `yaml:"app"`
	} `yaml:"project"`
}

type objectSpec struct {
	Image       string            `yaml:"image"`
	Roles       []string          `yaml:"roles"`
	Environment map[string]string `yaml:"environment"`
	EnvFiles    []string          `yaml:"env_files"`
}

type namedSpec struct {
	name string
	spec objectSpec
}

// orderedObjects decodes a YAML mapping while keeping its key order.
type orderedObjects []namedSpec

func (o *orderedObjects) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of names to definitions", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var spec objectSpec
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("%s: %w", value.Content[i].Value, err)
		}
		*o = append(*o, namedSpec{name: value.Content[i].Value, spec: spec})
	}
	return nil
}

// Load parses the project document at path. metaFolder is the name of the
// metadata folder inside the project; empty means DefaultMetaFolder.
func Load(path, metaFolder string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve project file: %w", err)
	}
	if metaFolder == "" {
		metaFolder = DefaultMetaFolder
	}

	p := &Project{
		Name:    doc.Project.Name,
		Folder:  filepath.Dir(abs),
		File:    abs,
		MetaDir: filepath.Join(filepath.Dir(abs), metaFolder),
	}
	if p.Name == "" {
		p.Name = filepath.Base(p.Folder)
	}
	p.Services = buildObjects(doc.Project.App.Services, KindService)
	p.Commands = buildObjects(doc.Project.App.Commands, KindCommand)
	return p, nil
}

func buildObjects(specs orderedObjects, kind Kind) []*Object {
	objects := make([]*Object, 0, len(specs))
	for _, s := range specs {
		objects = append(objects, &Object{
			Name:        s.name,
			Kind:        kind,
			Image:       s.spec.Image,
			Roles:       s.spec.Roles,
			Environment: s.spec.Environment,
			EnvFiles:    s.spec.EnvFiles,
		})
	}
	return objects
}

// Find looks for a file called name in dir and its parents and returns the
// first match.
func Find(dir, name string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrProjectNotFound, name)
		}
		dir = parent
	}
}

// ServicesByRole returns every service tagged with role, in document order.
func (p *Project) ServicesByRole(role string) []*Object {
	var result []*Object
	for _, s := range p.Services {
		if s.HasRole(role) {
			result = append(result, s)
		}
	}
	return result
}

// ServiceByRole returns the first service tagged with role, or nil.
func (p *Project) ServiceByRole(role string) *Object {
	for _, s := range p.Services {
		if s.HasRole(role) {
			return s
		}
	}
	return nil
}

// Objects returns all services followed by all commands.
func (p *Project) Objects() []*Object {
	out := slices.Grow([]*Object(nil), len(p.Services)+len(p.Commands))
	out = append(out, p.Services...)
	return append(out, p.Commands...)
}

// Environment resolves the effective environment of obj: variables from its
// env files, in order, overridden by its explicit environment mapping.
func (p *Project) Environment(obj *Object) (map[string]string, error) {
	env := make(map[string]string)
	for _, f := range obj.EnvFiles {
		path := f
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.Folder, path)
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%s %s: env file: %w", obj.Kind, obj.Name, err)
		}
		maps.Copy(env, values)
	}
	maps.Copy(env, obj.Environment)
	return env, nil
}
