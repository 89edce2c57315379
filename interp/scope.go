package interp

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Scope is a symbol table. Lookups fall through to the parent scope.
type Scope struct {
	parent  *Scope
	symbols map[string]Value
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: map[string]Value{}}
}

func (s *Scope) Lookup(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.symbols[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in this scope, shadowing any outer binding.
func (s *Scope) Set(name string, v Value) {
	s.symbols[name] = v
}

// Names returns the sorted names bound directly in this scope.
func (s *Scope) Names() []string {
	names := maps.Keys(s.symbols)
	slices.Sort(names)
	return names
}
