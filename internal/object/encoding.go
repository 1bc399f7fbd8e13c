package object

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// functionTag marks a function reference; the tag content is the entry name.
const functionTag = 40100

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("object: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("object: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// EncodeCBOR serializes a value to canonical CBOR.
func EncodeCBOR(o Object) ([]byte, error) {
	return cborEncMode.Marshal(toPlain(o))
}

// DecodeCBOR rebuilds a value. lookup resolves function names and may be nil.
func DecodeCBOR(data []byte, lookup func(name string) *FunctionEntry) (Object, error) {
	var v any
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("object: unmarshal value: %w", err)
	}
	return fromPlain(v, lookup)
}

func toPlain(o Object) any {
	switch v := o.(type) {
	case nil, *Null:
		return nil
	case *Number:
		return v.Value
	case *String:
		return v.Value
	case *Boolean:
		return v.Value
	case *Array:
		out := make([]any, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = toPlain(e)
		}
		return out
	case *Map:
		out := make(map[string]any, len(v.Pairs))
		for k, e := range v.Pairs {
			out[k] = toPlain(e)
		}
		return out
	case *FunctionRef:
		name := ""
		if v.Entry != nil {
			name = v.Entry.Name
		}
		return cbor.Tag{Number: functionTag, Content: name}
	default:
		return nil
	}
}

func fromPlain(v any, lookup func(string) *FunctionEntry) (Object, error) {
	switch x := v.(type) {
	case nil:
		return NULL, nil
	case float64:
		return NewNumber(x), nil
	case float32:
		return NewNumber(float64(x)), nil
	case uint64:
		return NewNumber(float64(x)), nil
	case int64:
		return NewNumber(float64(x)), nil
	case string:
		return NewString(x), nil
	case bool:
		return NewBoolean(x), nil
	case []any:
		elements := make([]Object, len(x))
		for i, e := range x {
			o, err := fromPlain(e, lookup)
			if err != nil {
				return nil, err
			}
			elements[i] = o
		}
		return NewArray(elements...), nil
	case map[string]any:
		m := NewMap()
		for k, e := range x {
			o, err := fromPlain(e, lookup)
			if err != nil {
				return nil, err
			}
			m.Pairs[k] = o
		}
		return m, nil
	case cbor.Tag:
		if x.Number != functionTag {
			return nil, fmt.Errorf("object: unexpected CBOR tag %d", x.Number)
		}
		name, _ := x.Content.(string)
		ref := &FunctionRef{}
		if lookup != nil {
			ref.Entry = lookup(name)
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("object: unsupported CBOR value of type %T", v)
	}
}
