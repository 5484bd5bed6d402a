package xdebug

import (
	"path/filepath"

	"github.com/CodexForgeBR/riptide-xdebug/internal/project"
)

// DefaultStateFile is the name of the state document inside the meta folder.
const DefaultStateFile = ".xdebug.json"

// Update changes exactly one field of a State.
type Update interface {
	// Field names the state field the update writes.
	Field() string
	apply(s *State)
}

// SetEnabled turns Xdebug on or off.
type SetEnabled bool

func (u SetEnabled) Field() string  { return "enabled" }
func (u SetEnabled) apply(s *State) { s.Enabled = bool(u) }

// SetMode sets the Xdebug 3 mode.
type SetMode string

func (u SetMode) Field() string  { return "mode" }
func (u SetMode) apply(s *State) { s.Mode = string(u) }

// SetRequestTrigger selects whether debugging requires a trigger.
type SetRequestTrigger bool

func (u SetRequestTrigger) Field() string  { return "request_trigger" }
func (u SetRequestTrigger) apply(s *State) { s.RequestTrigger = bool(u) }

// SetParameters replaces all extra parameters.
type SetParameters struct {
	Values *Parameters
}

func (u SetParameters) Field() string { return "parameters" }

func (u SetParameters) apply(s *State) {
	c := (&State{Parameters: u.Values}).Clone()
	s.Parameters = c.Parameters
}

// Store reads and writes state documents of projects. It keeps nothing in
// memory between calls.
type Store struct {
	FileName string
}

// NewStore returns a Store using fileName inside each project's meta folder.
func NewStore(fileName string) *Store {
	if fileName == "" {
		fileName = DefaultStateFile
	}
	return &Store{FileName: fileName}
}

// Path returns the location of the state document of p.
func (st *Store) Path(p *project.Project) string {
	return filepath.Join(p.MetaDir, st.FileName)
}

// Read returns the state of p with defaults applied.
func (st *Store) Read(p *project.Project) (*State, error) {
	return LoadState(st.Path(p))
}

// Write applies u to the current state of p and persists the whole document.
func (st *Store) Write(p *project.Project, u Update) error {
	s, err := st.Read(p)
	if err != nil {
		return err
	}
	u.apply(s)
	return SaveState(s, st.Path(p))
}
