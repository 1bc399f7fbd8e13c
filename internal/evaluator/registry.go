package evaluator

import (
	"errors"
	"fmt"
	"pangea/internal/object"
	"sort"
)

var ErrInvalidArity = errors.New("invalid arity")

// Registry maps names to function entries. Re-registering a name replaces
// the previous entry together with its aliases.
type Registry struct {
	entries map[string]*object.FunctionEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*object.FunctionEntry)}
}

// Register adds an entry under its name and each of its aliases.
func (r *Registry) Register(entry *object.FunctionEntry) error {
	if entry == nil || entry.Name == "" {
		return errors.New("registry: entry must have a name")
	}
	if entry.Arity < 0 {
		return fmt.Errorf("%w: %q declared with arity %d", ErrInvalidArity, entry.Name, entry.Arity)
	}

	if old, ok := r.entries[entry.Name]; ok && old != entry && old.Name == entry.Name {
		r.drop(old)
	}

	r.entries[entry.Name] = entry
	for _, alias := range entry.Aliases {
		r.entries[alias] = entry
	}
	return nil
}

// drop removes every key bound to entry.
func (r *Registry) drop(entry *object.FunctionEntry) {
	for name, e := range r.entries {
		if e == entry {
			delete(r.entries, name)
		}
	}
}

func (r *Registry) Lookup(name string) (*object.FunctionEntry, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Arity reports the effective arity for name, satisfying parser.ArityOracle.
func (r *Registry) Arity(name string) (int, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return 0, false
	}
	return entry.EffectiveArity(), true
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns each distinct entry once, ordered by name.
func (r *Registry) Entries() []*object.FunctionEntry {
	seen := make(map[*object.FunctionEntry]bool, len(r.entries))
	out := make([]*object.FunctionEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		if seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Snapshot copies the name table. Entries are shared since they never change
// after registration.
func (r *Registry) Snapshot() *Registry {
	entries := make(map[string]*object.FunctionEntry, len(r.entries))
	for name, entry := range r.entries {
		entries[name] = entry
	}
	return &Registry{entries: entries}
}
