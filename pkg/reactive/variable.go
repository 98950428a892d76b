package reactive

import (
	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Variable is a single mutable value with synchronous observer broadcast.
// Every write, including the initializing one, notifies every observer
// before Set returns. There is no way to suppress a single write: a derived
// constraint must see every value transition.
type Variable struct {
	value     any
	observers *Observers
}

// NewVariable creates a variable holding value. The initializing write
// broadcasts like any other; the observer set is empty at that point.
func NewVariable(value any) *Variable {
	v := &Variable{observers: NewObservers()}
	v.Set(value) //nolint:errcheck // no observers registered yet
	return v
}

// NewVariableDefault creates a variable whose initial value is produced by
// calling def. A nil def is a value error.
func NewVariableDefault(def func() any) (*Variable, error) {
	if def == nil {
		return nil, errors.Errorf("reactive.NewVariableDefault", errors.KindValue,
			"default must be callable")
	}
	return NewVariable(def()), nil
}

// Value returns the current value.
func (v *Variable) Value() any {
	return v.value
}

// Set assigns the value, then broadcasts to every observer. An observer
// error propagates out of Set with the value already assigned: the last
// write wins even when a constraint rejects it.
func (v *Variable) Set(value any) error {
	v.value = value
	_, err := v.observers.Notify()
	return err
}

// Observers returns the variable's observer registry. External code may add
// or remove observers at any time.
func (v *Variable) Observers() *Observers {
	return v.observers
}
