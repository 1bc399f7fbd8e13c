package evaluator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"pangea/internal/object"
	"pangea/internal/parser"
	"strings"
	"unicode/utf8"
)

func (it *Interpreter) builtins() []*object.FunctionEntry {
	return []*object.FunctionEntry{
		// arithmetic
		object.NewBuiltin("plus", 2, funcPlus(), "add"),
		object.NewBuiltin("minus", 2, funcNumeric(func(a, b float64) (float64, error) { return a - b, nil }), "sub"),
		object.NewBuiltin("times", 2, funcNumeric(func(a, b float64) (float64, error) { return a * b, nil }), "mul"),
		object.NewBuiltin("divide", 2, funcNumeric(divide), "div"),
		object.NewBuiltin("power", 2, funcNumeric(func(a, b float64) (float64, error) { return math.Pow(a, b), nil }), "pow"),

		// comparison
		object.NewBuiltin("equal", 2, funcEqual()),
		object.NewBuiltin("less", 2, funcCompare(func(c int) bool { return c < 0 })),
		object.NewBuiltin("greater", 2, funcCompare(func(c int) bool { return c > 0 })),

		// logic
		object.NewBuiltin("and", 2, funcLogical(func(a, b bool) bool { return a && b })),
		object.NewBuiltin("or", 2, funcLogical(func(a, b bool) bool { return a || b })),
		object.NewBuiltin("not", 1, funcNot()),

		// io
		object.NewBuiltin("print", 1, funcPrint(it.out, "")),
		object.NewBuiltin("println", 1, funcPrint(it.out, "\n")),
		object.NewBuiltin("input", 0, funcInput(it.in)),

		// control flow, arguments arrive already evaluated
		object.NewBuiltin("if", 3, funcIf()),
		object.NewBuiltin("times_loop", 2, funcTimesLoop()),
		object.NewBuiltin("each", 2, funcEach()),

		// utility
		object.NewBuiltin("length", 1, funcLength()),
		object.NewBuiltin("type", 1, funcType()),
		object.NewBuiltin("string", 1, funcString()),
		object.NewBuiltin("number", 1, funcNumber()),

		// collections
		object.NewBuiltin("get", 2, funcGet()),
		object.NewBuiltin("set", 3, funcSet()),
		object.NewBuiltin("push", 2, funcPush()),
		object.NewBuiltin("put", 3, funcPut()),
		object.NewBuiltin("array", 0, funcArray()),
		object.NewBuiltin("object", 0, funcObject()),
	}
}

// arg returns the i-th argument, or null when the call site ran out of tokens.
func arg(args []object.Object, i int) object.Object {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return object.NULL
}

func funcPlus() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		a, b := arg(args, 0), arg(args, 1)
		x, xok := a.(*object.Number)
		y, yok := b.(*object.Number)
		if xok && yok {
			return object.NewNumber(x.Value + y.Value), nil
		}
		return object.NewString(a.Inspect() + b.Inspect()), nil
	}
}

func funcNumeric(op func(a, b float64) (float64, error)) object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		a, err := object.AsNumber(arg(args, 0))
		if err != nil {
			return nil, err
		}
		b, err := object.AsNumber(arg(args, 1))
		if err != nil {
			return nil, err
		}
		result, err := op(a, b)
		if err != nil {
			return nil, err
		}
		return object.NewNumber(result), nil
	}
}

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, object.ErrDivisionByZero
	}
	return a / b, nil
}

func funcEqual() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return object.NewBoolean(object.Equals(arg(args, 0), arg(args, 1))), nil
	}
}

// funcCompare orders numbers numerically and anything else by canonical string.
func funcCompare(accept func(c int) bool) object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		a, b := arg(args, 0), arg(args, 1)
		x, xok := a.(*object.Number)
		y, yok := b.(*object.Number)
		if xok && yok {
			switch {
			case x.Value < y.Value:
				return object.NewBoolean(accept(-1)), nil
			case x.Value > y.Value:
				return object.NewBoolean(accept(1)), nil
			default:
				// equal, or NaN involved
				return object.FALSE, nil
			}
		}
		return object.NewBoolean(accept(strings.Compare(a.Inspect(), b.Inspect()))), nil
	}
}

func funcLogical(op func(a, b bool) bool) object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		a, err := object.AsBoolean(arg(args, 0))
		if err != nil {
			return nil, err
		}
		b, err := object.AsBoolean(arg(args, 1))
		if err != nil {
			return nil, err
		}
		return object.NewBoolean(op(a, b)), nil
	}
}

func funcNot() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		a, err := object.AsBoolean(arg(args, 0))
		if err != nil {
			return nil, err
		}
		return object.NewBoolean(!a), nil
	}
}

func funcPrint(out io.Writer, suffix string) object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		if _, err := io.WriteString(out, arg(args, 0).Inspect()+suffix); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return object.NULL, nil
	}
}

func funcInput(in *bufio.Reader) object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("input: %w", err)
		}
		return object.NewString(strings.TrimRight(line, "\r\n")), nil
	}
}

func funcIf() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		cond, err := object.AsBoolean(arg(args, 0))
		if err != nil {
			return nil, err
		}
		if cond {
			return arg(args, 1), nil
		}
		return arg(args, 2), nil
	}
}

// funcTimesLoop cannot repeat its body since the body has already been
// evaluated once; it yields that value when the count is positive.
func funcTimesLoop() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		count, err := object.AsNumber(arg(args, 0))
		if err != nil {
			return nil, err
		}
		// NaN and counts below one skip the body
		if !(count >= 1) {
			return object.NULL, nil
		}
		return arg(args, 1), nil
	}
}

func funcEach() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return arg(args, 1), nil
	}
}

func funcLength() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		switch v := arg(args, 0).(type) {
		case *object.String:
			return object.NewNumber(float64(utf8.RuneCountInString(v.Value))), nil
		case *object.Array:
			return object.NewNumber(float64(len(v.Elements))), nil
		case *object.Map:
			return object.NewNumber(float64(len(v.Pairs))), nil
		default:
			return object.NewNumber(0), nil
		}
	}
}

func funcType() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return object.NewString(string(arg(args, 0).Type())), nil
	}
}

func funcString() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return object.NewString(arg(args, 0).Inspect()), nil
	}
}

func funcNumber() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		switch v := arg(args, 0).(type) {
		case *object.Number:
			return v, nil
		case *object.String:
			n, ok := parser.ParseNumber(strings.TrimSpace(v.Value))
			if !ok {
				return nil, fmt.Errorf("%w: cannot convert %q to number", object.ErrTypeMismatch, v.Value)
			}
			return object.NewNumber(n), nil
		case *object.Boolean:
			if v.Value {
				return object.NewNumber(1), nil
			}
			return object.NewNumber(0), nil
		default:
			return nil, fmt.Errorf("%w: cannot convert %s to number", object.ErrTypeMismatch, v.Type())
		}
	}
}

func funcGet() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		switch coll := arg(args, 0).(type) {
		case *object.Array:
			idx, ok := arg(args, 1).(*object.Number)
			if !ok || math.IsNaN(idx.Value) {
				return object.NULL, nil
			}
			i := math.Trunc(idx.Value)
			if i < 0 || i >= float64(len(coll.Elements)) {
				return object.NULL, nil
			}
			return coll.Elements[int(i)], nil
		case *object.Map:
			key, ok := arg(args, 1).(*object.String)
			if !ok {
				return object.NULL, nil
			}
			if v, ok := coll.Pairs[key.Value]; ok {
				return v, nil
			}
			return object.NULL, nil
		default:
			return object.NULL, nil
		}
	}
}

// funcSet yields the assigned value and leaves the collection untouched.
func funcSet() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return arg(args, 2), nil
	}
}

func funcPush() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		arr, err := object.AsArray(arg(args, 0))
		if err != nil {
			return nil, err
		}
		elements := make([]object.Object, len(arr.Elements), len(arr.Elements)+1)
		copy(elements, arr.Elements)
		return object.NewArray(append(elements, arg(args, 1))...), nil
	}
}

func funcPut() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		m, err := object.AsMap(arg(args, 0))
		if err != nil {
			return nil, err
		}
		out := object.NewMap()
		for k, v := range m.Pairs {
			out.Pairs[k] = v
		}
		out.Pairs[arg(args, 1).Inspect()] = arg(args, 2)
		return out, nil
	}
}

func funcArray() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return object.NewArray(), nil
	}
}

func funcObject() object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		return object.NewMap(), nil
	}
}
