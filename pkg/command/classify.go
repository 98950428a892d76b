package command

import (
	"fmt"
	"reflect"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Value is a classified configuration value: a callback group to register
// as an interpreter command, or flag tokens for a creation instruction.
// Callers that already know the shape can pass a Callback or Flag directly
// instead of relying on Classify.
type Value interface {
	isValue()
}

// Callback is a configuration value registered as an interpreter command.
type Callback struct {
	Chain *Chain
}

// Flag is a configuration value rendered as positional tokens.
type Flag struct {
	Tokens []string
}

func (Callback) isValue() {}
func (Flag) isValue()     {}

// Classify maps an arbitrary configuration value by callable shape: a
// single callable or a slice whose members are all callable becomes a
// Callback; anything else becomes a Flag. A callable of unsupported
// signature, or a slice mixing callables and plain values, cannot be
// classified.
func Classify(value any) (Value, error) {
	const op = "command.Classify"

	if value == nil {
		return Flag{}, nil
	}
	if chain, ok := value.(*Chain); ok {
		return Callback{Chain: chain}, nil
	}
	if fn, ok := asFunc(value); ok {
		return Callback{Chain: NewChain(fn)}, nil
	}
	if reflect.ValueOf(value).Kind() == reflect.Func {
		return nil, errors.Errorf(op, errors.KindUnsupported,
			"unsupported callable signature %T", value)
	}

	if fns, ok, err := asFuncSlice(value); err != nil {
		return nil, err
	} else if ok {
		return Callback{Chain: NewChain(fns...)}, nil
	}

	return Flag{Tokens: Tokens(value)}, nil
}

// asFunc adapts the supported callable shapes to Func.
func asFunc(value any) (Func, bool) {
	switch fn := value.(type) {
	case Func:
		return fn, true
	case func(args ...any) (any, error):
		return fn, true
	case func():
		return func(...any) (any, error) { fn(); return nil, nil }, true
	case func() error:
		return func(...any) (any, error) { return nil, fn() }, true
	case func(args ...any) any:
		return func(args ...any) (any, error) { return fn(args...), nil }, true
	}
	return nil, false
}

// asFuncSlice classifies slice values: all-callable slices become a chain,
// mixed slices are unsupported, and any other slice is a plain flag value.
func asFuncSlice(value any) ([]Func, bool, error) {
	const op = "command.Classify"

	switch fns := value.(type) {
	case []Func:
		out := make([]Func, len(fns))
		copy(out, fns)
		return out, true, nil
	case []any:
		var out []Func
		callables := 0
		for _, member := range fns {
			if _, isChain := member.(*Chain); isChain {
				callables++
				continue
			}
			if fn, ok := asFunc(member); ok {
				out = append(out, fn)
				callables++
			}
		}
		if callables == 0 {
			return nil, false, nil
		}
		if callables != len(fns) {
			return nil, false, errors.Errorf(op, errors.KindUnsupported,
				"slice mixes callables and plain values")
		}
		if len(out) != len(fns) {
			// Chains inside a slice would need flattening semantics the
			// registry does not define.
			return nil, false, errors.Errorf(op, errors.KindUnsupported,
				"slice of chains is not a supported callback group")
		}
		return out, true, nil
	}
	return nil, false, nil
}

// Tokens renders a plain configuration value as interpreter argument tokens.
func Tokens(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case bool:
		// Interpreter booleans are 1/0.
		if v {
			return []string{"1"}
		}
		return []string{"0"}
	case fmt.Stringer:
		return []string{v.String()}
	default:
		return []string{fmt.Sprint(v)}
	}
}
