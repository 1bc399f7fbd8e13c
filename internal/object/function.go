package object

import "fmt"

type OperatorType int

const (
	Prefix OperatorType = iota
	Infix
	Postfix
)

type FunctionType int

const (
	Native FunctionType = iota
	UserDef
	Lambda
	Method
)

// BuiltinFunction receives exactly the arguments the evaluator collected,
// which may be fewer than the declared arity.
type BuiltinFunction func(args ...Object) (Object, error)

// FunctionEntry is the registry record for a callable. Entries are
// immutable once registered.
type FunctionEntry struct {
	Name         string
	Arity        int
	OperatorType OperatorType
	FunctionType FunctionType
	Fn           BuiltinFunction
	Aliases      []string

	// method support, unused by the builtins
	IsMethod     bool
	MethodArity  int // arity without the receiver, -1 when unset
	BoundContext Object
}

// NewBuiltin returns a prefix native entry.
func NewBuiltin(name string, arity int, fn BuiltinFunction, aliases ...string) *FunctionEntry {
	return &FunctionEntry{
		Name:         name,
		Arity:        arity,
		OperatorType: Prefix,
		FunctionType: Native,
		Fn:           fn,
		Aliases:      aliases,
		MethodArity:  -1,
	}
}

// EffectiveArity is the number of argument phrases a call site consumes.
func (f *FunctionEntry) EffectiveArity() int {
	switch f.FunctionType {
	case Lambda:
		// lambda stored on an object: declared arity counts the receiver
		if f.IsMethod && f.MethodArity >= 0 {
			return f.MethodArity
		}
		return f.Arity
	default:
		return f.Arity
	}
}

// InternalArity is the number of arguments the callable itself expects.
func (f *FunctionEntry) InternalArity() int {
	if f.FunctionType == Method {
		return f.Arity + 1
	}
	return f.Arity
}

func (f *FunctionEntry) OperatorTypeString() string {
	switch f.OperatorType {
	case Prefix:
		return "prefix"
	case Infix:
		return "infix"
	case Postfix:
		return "postfix"
	default:
		return "unknown"
	}
}

func (f *FunctionEntry) FunctionTypeString() string {
	switch f.FunctionType {
	case Native:
		return "built-in function"
	case UserDef:
		return "user-defined function"
	case Lambda:
		if f.IsMethod {
			return "lambda method"
		}
		return "lambda function"
	case Method:
		return "method"
	default:
		return "function"
	}
}

func (f *FunctionEntry) Invoke(args ...Object) (Object, error) {
	if f == nil || f.Fn == nil {
		name := "<nil>"
		if f != nil {
			name = f.Name
		}
		return nil, fmt.Errorf("%w: %s", ErrNullCallable, name)
	}
	return f.Fn(args...)
}

func (f *FunctionEntry) String() string {
	return fmt.Sprintf("%s/%d (%s %s)", f.Name, f.EffectiveArity(), f.OperatorTypeString(), f.FunctionTypeString())
}
