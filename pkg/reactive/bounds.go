package reactive

import (
	"fmt"
	"reflect"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Bounds enforces a closed interval on a Variable. It registers itself as
// an observer keyed by its own identity at construction, so every write to
// the variable re-checks the interval. A violation is a terminal failure
// surfaced through Variable.Set; the variable keeps the violating value.
type Bounds struct {
	minimum  any
	maximum  any
	enforces *Variable
	key      string
}

// NewBounds constructs a bounds constraint on v and registers it as an
// observer. Either bound may be nil, leaving that side unchecked. The
// interval must not invert and each bound's type must match the variable's
// current value.
func NewBounds(v *Variable, minimum, maximum any) (*Bounds, error) {
	const op = "reactive.NewBounds"
	if v == nil {
		return nil, errors.Errorf(op, errors.KindStructure,
			"bounds requires a reactive variable")
	}

	b := &Bounds{enforces: v}
	b.key = fmt.Sprintf("%p", b)
	if err := v.Observers().Add(b.key, func(...any) (any, error) {
		return nil, b.Enforce()
	}); err != nil {
		return nil, err
	}

	if minimum != nil {
		if err := b.SetMinimum(minimum); err != nil {
			v.Observers().Remove(b.key)
			return nil, err
		}
	}
	if maximum != nil {
		if err := b.SetMaximum(maximum); err != nil {
			v.Observers().Remove(b.key)
			return nil, err
		}
	}
	return b, nil
}

// Minimum returns the lower bound, or nil if unset.
func (b *Bounds) Minimum() any { return b.minimum }

// Maximum returns the upper bound, or nil if unset.
func (b *Bounds) Maximum() any { return b.maximum }

// Enforces returns the variable this constraint observes.
func (b *Bounds) Enforces() *Variable { return b.enforces }

// SetMinimum assigns the lower bound after validating its type against the
// variable's current value and the interval ordering.
func (b *Bounds) SetMinimum(value any) error {
	const op = "reactive.Bounds.SetMinimum"
	if err := b.checkType(op, value); err != nil {
		return err
	}
	if b.maximum != nil {
		if cmp, err := compare(value, b.maximum); err != nil {
			return errors.E(op, errors.KindType, err)
		} else if cmp > 0 {
			return errors.Errorf(op, errors.KindValue,
				"minimum %v exceeds maximum %v", value, b.maximum)
		}
	}
	b.minimum = value
	return nil
}

// SetMaximum assigns the upper bound after validating its type against the
// variable's current value and the interval ordering.
func (b *Bounds) SetMaximum(value any) error {
	const op = "reactive.Bounds.SetMaximum"
	if err := b.checkType(op, value); err != nil {
		return err
	}
	if b.minimum != nil {
		if cmp, err := compare(value, b.minimum); err != nil {
			return errors.E(op, errors.KindType, err)
		} else if cmp < 0 {
			return errors.Errorf(op, errors.KindValue,
				"maximum %v below minimum %v", value, b.minimum)
		}
	}
	b.maximum = value
	return nil
}

// Enforce re-checks minimum <= value <= maximum against the variable's
// current value. Called on every write through the observer registration.
func (b *Bounds) Enforce() error {
	const op = "reactive.Bounds.Enforce"
	value := b.enforces.Value()
	if b.minimum != nil {
		cmp, err := compare(value, b.minimum)
		if err != nil {
			return errors.E(op, errors.KindType, err)
		}
		if cmp < 0 {
			return errors.Errorf(op, errors.KindValue,
				"value %v below minimum %v", value, b.minimum)
		}
	}
	if b.maximum != nil {
		cmp, err := compare(value, b.maximum)
		if err != nil {
			return errors.E(op, errors.KindType, err)
		}
		if cmp > 0 {
			return errors.Errorf(op, errors.KindValue,
				"value %v exceeds maximum %v", value, b.maximum)
		}
	}
	return nil
}

// checkType rejects a bound whose dynamic type differs from the variable's
// current value.
func (b *Bounds) checkType(op string, value any) error {
	current := b.enforces.Value()
	if current == nil {
		return nil
	}
	if reflect.TypeOf(value) != reflect.TypeOf(current) {
		return errors.Errorf(op, errors.KindType,
			"bound type %T does not match value type %T", value, current)
	}
	return nil
}

// compare orders two values of the same comparable scalar type.
// It returns <0, 0, or >0, or an error for unsupported or mixed types.
func compare(a, b any) (int, error) {
	switch x := a.(type) {
	case int:
		if y, ok := b.(int); ok {
			return cmpOrdered(x, y), nil
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y), nil
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return cmpOrdered(x, y), nil
		}
	}
	return 0, fmt.Errorf("cannot order %T against %T", a, b)
}

func cmpOrdered[T int | int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
