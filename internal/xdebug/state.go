// Package xdebug owns the per-project Xdebug configuration: the persisted
// state document, the updates the CLI may apply to it, and detection of the
// Xdebug major version a project runs.
package xdebug

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMode is the Xdebug mode used when none has been configured.
const DefaultMode = "debug"

// Parameters are extra Xdebug settings in the order the user supplied them.
type Parameters = orderedmap.OrderedMap[string, string]

// NewParameters returns an empty parameter map.
func NewParameters() *Parameters {
	return orderedmap.New[string, string]()
}

// State is the persisted Xdebug configuration of a project.
type State struct {
	Enabled        bool        `json:"enabled"`
	Mode           string      `json:"mode"`
	RequestTrigger bool        `json:"request_trigger"`
	Parameters     *Parameters `json:"parameters"`
}

// DefaultState returns the configuration of a project that never set anything.
func DefaultState() *State {
	return &State{
		Enabled:        false,
		Mode:           DefaultMode,
		RequestTrigger: false,
		Parameters:     NewParameters(),
	}
}

// normalize fills fields an older or hand-edited document left empty.
func (s *State) normalize() {
	if s.Mode == "" {
		s.Mode = DefaultMode
	}
	if s.Parameters == nil {
		s.Parameters = NewParameters()
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Parameters = NewParameters()
	if s.Parameters != nil {
		for pair := s.Parameters.Oldest(); pair != nil; pair = pair.Next() {
			c.Parameters.Set(pair.Key, pair.Value)
		}
	}
	return &c
}

// Equal reports whether two states configure Xdebug identically. The order of
// parameters is not significant.
func (s *State) Equal(o *State) bool {
	if s.Enabled != o.Enabled || s.Mode != o.Mode || s.RequestTrigger != o.RequestTrigger {
		return false
	}
	return parametersEqual(s.Parameters, o.Parameters)
}

func parametersEqual(a, b *Parameters) bool {
	if paramLen(a) != paramLen(b) {
		return false
	}
	if a == nil {
		return true
	}
	for pair := a.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := b.Get(pair.Key)
		if !ok || v != pair.Value {
			return false
		}
	}
	return true
}

func paramLen(p *Parameters) int {
	if p == nil {
		return 0
	}
	return p.Len()
}

// LoadState reads the state document at path. A missing file yields the
// default state; fields missing from the document take their default values.
func LoadState(path string) (*State, error) {
	s := DefaultState()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read xdebug state: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse xdebug state %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

// SaveState writes the full state document to path as indented JSON,
// creating the parent directory if needed.
func SaveState(s *State, path string) error {
	s.normalize()

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal xdebug state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create meta folder: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write xdebug state: %w", err)
	}
	return nil
}
