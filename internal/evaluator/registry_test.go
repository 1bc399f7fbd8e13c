package evaluator

import (
	"errors"
	"pangea/internal/object"
	"testing"
)

func TestRegistryAliases(t *testing.T) {
	r := NewRegistry()
	entry := object.NewBuiltin("plus", 2, nil, "add")
	if err := r.Register(entry); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"plus", "add"} {
		got, ok := r.Lookup(name)
		if !ok || got != entry {
			t.Errorf("Lookup(%q) did not resolve to the registered entry", name)
		}
	}

	if n := len(r.Entries()); n != 1 {
		t.Errorf("expected 1 distinct entry, got %d", n)
	}
	if n := r.Len(); n != 2 {
		t.Errorf("expected 2 keys, got %d", n)
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(object.NewBuiltin("f", 1, nil))
	_ = r.Register(object.NewBuiltin("f", 3, nil))

	arity, ok := r.Arity("f")
	if !ok || arity != 3 {
		t.Errorf("expected arity 3, got %d (%t)", arity, ok)
	}
}

func TestRegistryReplacementDropsAliases(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(object.NewBuiltin("plus", 2, nil, "add"))
	replacement := object.NewBuiltin("plus", 1, nil)
	_ = r.Register(replacement)

	if _, ok := r.Lookup("add"); ok {
		t.Errorf("alias of the replaced entry still resolves")
	}
	if got, _ := r.Lookup("plus"); got != replacement {
		t.Errorf("plus does not resolve to the replacement")
	}
	if n := len(r.Entries()); n != 1 {
		t.Errorf("expected 1 distinct entry, got %d", n)
	}
}

func TestRegistryAliasRebindKeepsOwner(t *testing.T) {
	r := NewRegistry()
	minus := object.NewBuiltin("minus", 2, nil, "sub")
	_ = r.Register(minus)
	_ = r.Register(object.NewBuiltin("subtract", 2, nil, "sub"))

	if got, _ := r.Lookup("minus"); got != minus {
		t.Errorf("claiming an alias must not remove the entry that owned it")
	}
	if got, _ := r.Lookup("sub"); got == minus {
		t.Errorf("sub should resolve to the newer entry")
	}
}

func TestRegistryValidation(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(object.NewBuiltin("neg", -2, nil)); !errors.Is(err, ErrInvalidArity) {
		t.Errorf("expected ErrInvalidArity, got %v", err)
	}
	if err := r.Register(&object.FunctionEntry{}); err == nil {
		t.Errorf("expected an error for an unnamed entry")
	}
	if err := r.Register(nil); err == nil {
		t.Errorf("expected an error for a nil entry")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(object.NewBuiltin("f", 1, nil))

	snap := r.Snapshot()
	_ = r.Register(object.NewBuiltin("f", 2, nil))
	_ = r.Register(object.NewBuiltin("g", 0, nil))

	if arity, _ := snap.Arity("f"); arity != 1 {
		t.Errorf("snapshot arity changed to %d", arity)
	}
	if _, ok := snap.Lookup("g"); ok {
		t.Errorf("snapshot sees a later registration")
	}
}

func TestBuiltinArities(t *testing.T) {
	it := New(Options{})
	expected := map[string]int{
		"plus": 2, "minus": 2, "times": 2, "divide": 2, "power": 2,
		"add": 2, "sub": 2, "mul": 2, "div": 2, "pow": 2,
		"equal": 2, "less": 2, "greater": 2,
		"and": 2, "or": 2, "not": 1,
		"print": 1, "println": 1, "input": 0,
		"if": 3, "times_loop": 2, "each": 2,
		"length": 1, "type": 1, "string": 1, "number": 1,
		"get": 2, "set": 3, "push": 2, "put": 3, "array": 0, "object": 0,
	}

	for name, want := range expected {
		got, ok := it.Registry().Arity(name)
		if !ok {
			t.Errorf("builtin %q is not registered", name)
			continue
		}
		if got != want {
			t.Errorf("builtin %q arity expected=%d, got=%d", name, want, got)
		}
	}
	if n := it.Registry().Len(); n != len(expected) {
		t.Errorf("expected %d registry keys, got %d", len(expected), n)
	}
}
