// Package reactive provides the reactive-variable and constraint subsystem.
//
// A Variable is a single mutable value whose every write synchronously
// notifies a named set of observers. Observers are re-check callbacks, not
// value consumers: a broadcast passes no arguments, and a constraint such as
// Bounds reads the variable it watches directly. Targeted notification with
// arguments is available through the Observers call surface.
package reactive

import (
	"fmt"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Observer is a callback invoked on writes to a reactive value. Broadcast
// invocations pass no arguments; targeted invocations may pass values.
type Observer func(args ...any) (any, error)

// Observers is a named registry of observers with a broadcast-or-targeted
// notification surface. Keys are coerced to strings. Notification order is
// registration order.
type Observers struct {
	names []string
	fns   map[string]Observer
}

// NewObservers returns an empty observer registry.
func NewObservers() *Observers {
	return &Observers{fns: make(map[string]Observer)}
}

// Add registers fn under key, coercing key to a string. Re-adding an
// existing key replaces the observer without changing its position.
func (o *Observers) Add(key any, fn Observer) error {
	if fn == nil {
		return errors.Errorf("reactive.Observers.Add", errors.KindValue,
			"observer must be callable")
	}
	name := coerceKey(key)
	if _, exists := o.fns[name]; !exists {
		o.names = append(o.names, name)
	}
	o.fns[name] = fn
	return nil
}

// Remove deletes the observer registered under key, if any.
func (o *Observers) Remove(key any) {
	name := coerceKey(key)
	if _, exists := o.fns[name]; !exists {
		return
	}
	delete(o.fns, name)
	for i, n := range o.names {
		if n == name {
			o.names = append(o.names[:i], o.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers.
func (o *Observers) Len() int {
	return len(o.names)
}

// Notify invokes every observer with no arguments, in registration order,
// and returns a name-to-result map. The first observer error stops the
// broadcast and propagates; earlier observers have already run.
func (o *Observers) Notify() (map[string]any, error) {
	results := make(map[string]any, len(o.names))
	for _, name := range o.names {
		result, err := o.fns[name]()
		if err != nil {
			return results, err
		}
		results[name] = result
	}
	return results, nil
}

// NotifyNamed invokes only the named observers, with no arguments.
// An unknown name is a lookup error.
func (o *Observers) NotifyNamed(names ...string) (map[string]any, error) {
	results := make(map[string]any, len(names))
	for _, name := range names {
		fn, ok := o.fns[name]
		if !ok {
			return results, errors.Errorf("reactive.Observers.NotifyNamed",
				errors.KindLookup, "no observer %q", name)
		}
		result, err := fn()
		if err != nil {
			return results, err
		}
		results[name] = result
	}
	return results, nil
}

// NotifyWith invokes the named observer with the given arguments.
// An unknown name is a lookup error.
func (o *Observers) NotifyWith(name string, args ...any) (any, error) {
	fn, ok := o.fns[name]
	if !ok {
		return nil, errors.Errorf("reactive.Observers.NotifyWith",
			errors.KindLookup, "no observer %q", name)
	}
	return fn(args...)
}

func coerceKey(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
