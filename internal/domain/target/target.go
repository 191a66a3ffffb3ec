// Package target models the biological targets a campaign docks against.
package target

import (
	"fmt"
	"sort"

	"github.com/turtacn/tinydock/pkg/errors"
)

// Role says whether binding to a target is desired or to be avoided.
type Role string

const (
	RoleOnTarget  Role = "on_target"
	RoleOffTarget Role = "off_target"
)

// Target is a docking target.  ConfigPath is the engine's search-box
// configuration; ReceptorPath may be empty when the configuration file names
// the receptor itself.
type Target struct {
	Name         string `json:"name" yaml:"name"`
	ConfigPath   string `json:"config" yaml:"config"`
	ReceptorPath string `json:"receptor,omitempty" yaml:"receptor,omitempty"`
	Role         Role   `json:"role" yaml:"role"`
}

// Set is an immutable collection of targets with disjoint roles.
type Set struct {
	byName map[string]Target
	on     []Target
	off    []Target
}

// NewSet validates and indexes targets.  Names must be unique; a target whose
// role is neither on- nor off-target is rejected.
func NewSet(targets ...Target) (*Set, error) {
	s := &Set{byName: make(map[string]Target, len(targets))}
	for _, t := range targets {
		if t.Name == "" {
			return nil, errors.InvalidParam("target name must not be empty")
		}
		if _, dup := s.byName[t.Name]; dup {
			return nil, errors.InvalidParam(fmt.Sprintf("target %q defined twice", t.Name))
		}
		switch t.Role {
		case RoleOnTarget:
			s.on = append(s.on, t)
		case RoleOffTarget:
			s.off = append(s.off, t)
		default:
			return nil, errors.InvalidParam(fmt.Sprintf("target %q has unknown role %q", t.Name, t.Role))
		}
		s.byName[t.Name] = t
	}
	return s, nil
}

// Get returns the named target.
func (s *Set) Get(name string) (Target, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// OnTargets returns the on-target targets in declaration order.
func (s *Set) OnTargets() []Target { return append([]Target(nil), s.on...) }

// OffTargets returns the off-target targets in declaration order.
func (s *Set) OffTargets() []Target { return append([]Target(nil), s.off...) }

// All returns every target, on-targets first.
func (s *Set) All() []Target {
	return append(s.OnTargets(), s.off...)
}

// Names returns the sorted target names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of targets.
func (s *Set) Len() int { return len(s.byName) }

//Personal.AI order the ending
