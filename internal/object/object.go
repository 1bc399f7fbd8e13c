package object

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"
)

type ObjectType string

const (
	NULL_OBJ     = "null"
	NUMBER_OBJ   = "number"
	STRING_OBJ   = "string"
	BOOLEAN_OBJ  = "boolean"
	ARRAY_OBJ    = "array"
	MAP_OBJ      = "object"
	FUNCTION_OBJ = "function"
)

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// Object is a runtime value. The set of implementations is closed to this package.
type Object interface {
	Type() ObjectType
	Inspect() string
	object()
}

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }
func (n *Null) object()          {}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return FormatNumber(n.Value) }
func (n *Number) object()          {}

// FormatNumber renders integral values without a fraction and everything
// else with the shortest decimal that round-trips. Magnitudes from 1e21 up
// switch to exponent form.
func FormatNumber(f float64) string {
	abs := math.Abs(f)
	if f == math.Trunc(f) && abs < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	if abs >= 1e21 && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) object()          {}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) object()          {}

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out bytes.Buffer

	elements := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elements = append(elements, inspect(e))
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}
func (a *Array) object() {}

type Map struct {
	Pairs map[string]Object
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string {
	var out bytes.Buffer

	pairs := make([]string, 0, len(m.Pairs))
	for _, k := range m.Keys() {
		pairs = append(pairs, strconv.Quote(k)+": "+inspect(m.Pairs[k]))
	}

	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")

	return out.String()
}
func (m *Map) object() {}

// Keys returns the map keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.Pairs))
	for k := range m.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FunctionRef is a non-owning handle to a registry entry.
type FunctionRef struct {
	Entry *FunctionEntry
}

func (f *FunctionRef) Type() ObjectType { return FUNCTION_OBJ }
func (f *FunctionRef) Inspect() string {
	arity := 0
	if f.Entry != nil {
		arity = f.Entry.Arity
	}
	return "[Function:" + strconv.Itoa(arity) + "]"
}
func (f *FunctionRef) object() {}

func NewNumber(f float64) *Number { return &Number{Value: f} }
func NewString(s string) *String  { return &String{Value: s} }

func NewBoolean(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

func NewArray(elements ...Object) *Array {
	if elements == nil {
		elements = []Object{}
	}
	return &Array{Elements: elements}
}

func NewMap() *Map {
	return &Map{Pairs: map[string]Object{}}
}

func inspect(o Object) string {
	if o == nil {
		return NULL.Inspect()
	}
	return o.Inspect()
}

// Inspect is the nil-safe canonical string form of o.
func Inspect(o Object) string {
	return inspect(o)
}

func AsNumber(o Object) (float64, error) {
	if n, ok := o.(*Number); ok {
		return n.Value, nil
	}
	return 0, typeMismatch(NUMBER_OBJ, o)
}

func AsString(o Object) (string, error) {
	if s, ok := o.(*String); ok {
		return s.Value, nil
	}
	return "", typeMismatch(STRING_OBJ, o)
}

func AsBoolean(o Object) (bool, error) {
	if b, ok := o.(*Boolean); ok {
		return b.Value, nil
	}
	return false, typeMismatch(BOOLEAN_OBJ, o)
}

// AsArray returns the array itself so callers may mutate Elements in place.
func AsArray(o Object) (*Array, error) {
	if a, ok := o.(*Array); ok {
		return a, nil
	}
	return nil, typeMismatch(ARRAY_OBJ, o)
}

// AsMap returns the map itself so callers may mutate Pairs in place.
func AsMap(o Object) (*Map, error) {
	if m, ok := o.(*Map); ok {
		return m, nil
	}
	return nil, typeMismatch(MAP_OBJ, o)
}

func AsFunction(o Object) (*FunctionEntry, error) {
	if f, ok := o.(*FunctionRef); ok {
		return f.Entry, nil
	}
	return nil, typeMismatch(FUNCTION_OBJ, o)
}

// Truthy follows the usual dynamic-language rules: null, zero, and empty
// containers are false.
func Truthy(o Object) bool {
	switch v := o.(type) {
	case nil, *Null:
		return false
	case *Number:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *Boolean:
		return v.Value
	case *Array:
		return len(v.Elements) > 0
	case *Map:
		return len(v.Pairs) > 0
	case *FunctionRef:
		return v.Entry != nil
	default:
		return false
	}
}

// Equals compares structurally. Values of different types are never equal.
func Equals(a, b Object) bool {
	if a == nil {
		a = NULL
	}
	if b == nil {
		b = NULL
	}
	if a.Type() != b.Type() {
		return false
	}

	switch x := a.(type) {
	case *Null:
		return true
	case *Number:
		return x.Value == b.(*Number).Value
	case *String:
		return x.Value == b.(*String).Value
	case *Boolean:
		return x.Value == b.(*Boolean).Value
	case *Array:
		y := b.(*Array)
		if len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equals(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if len(x.Pairs) != len(y.Pairs) {
			return false
		}
		for k, v := range x.Pairs {
			w, ok := y.Pairs[k]
			if !ok || !Equals(v, w) {
				return false
			}
		}
		return true
	case *FunctionRef:
		return x.Entry == b.(*FunctionRef).Entry
	default:
		return false
	}
}
