// Package interp defines the boundary with the native display interpreter.
//
// The interpreter is an external collaborator: it accepts flat string
// commands, owns string-named variables, and can invoke named callback
// commands registered from Go. Everything above this package talks to the
// interpreter exclusively through the Interp interface; concrete transports
// (the out-of-process WishDriver, the in-memory Recorder) plug in behind a
// process-global Driver slot.
package interp

import (
	"fmt"
	"sync"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// CommandFunc is a Go callback reachable by name from interpreter-issued
// events. Arguments arrive as the interpreter's positional string tokens.
type CommandFunc func(args ...string) (any, error)

// Tracer observes every command executed against the interpreter.
type Tracer interface {
	// Trace is called after each command with the tokens sent and the
	// result or error returned by the interpreter.
	Trace(tokens []string, result string, err error)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(tokens []string, result string, err error)

func (f TracerFunc) Trace(tokens []string, result string, err error) {
	f(tokens, result, err)
}

// Interp is one live connection to a native display interpreter.
type Interp interface {
	// Call executes one command; tokens is a flat sequence of strings.
	// It returns the interpreter's result string, or an error if the
	// interpreter rejected the command.
	Call(tokens ...string) (string, error)

	// SplitList parses an interpreter list literal into its elements.
	SplitList(s string) ([]string, error)

	// CreateCommand registers a callback reachable by name from
	// interpreter-issued events.
	CreateCommand(name string, fn CommandFunc) error

	// DeleteCommand unregisters a previously created callback.
	DeleteCommand(name string) error

	// SetTrace attaches an optional debug observer to every call.
	// Pass nil to detach.
	SetTrace(t Tracer)

	// Close releases the interpreter connection.
	Close() error
}

// CreateOptions carries the arguments of the native create() entry point.
type CreateOptions struct {
	// Screen names the display to create windows on; empty means default.
	Screen string
	// BaseName is the application base name. Unused by the interpreter
	// beyond registration, but required at the create boundary.
	BaseName string
	// ClassName is the application class name.
	ClassName string
	// Interactive is forwarded unused; required at the create boundary.
	Interactive bool
	// WantObjects is forwarded unused; required at the create boundary.
	WantObjects bool
	// InitTk controls whether the display toolkit is initialized.
	// When false the interpreter runs headless.
	InitTk bool
	// Sync requests synchronous display protocol mode.
	Sync bool
	// Use names an existing window to embed into; empty means none.
	Use string
}

// Driver creates interpreter connections. Set by a transport package or by
// test setup before any session is created.
type Driver interface {
	Create(opts CreateOptions) (Interp, error)
}

var (
	driverMu sync.RWMutex
	driver   Driver
)

// SetDriver installs the process-wide interpreter driver.
// Passing nil removes the current driver.
func SetDriver(d Driver) {
	driverMu.Lock()
	driver = d
	driverMu.Unlock()
}

// Create obtains one interpreter connection from the registered driver.
func Create(opts CreateOptions) (Interp, error) {
	driverMu.RLock()
	d := driver
	driverMu.RUnlock()
	if d == nil {
		return nil, errors.E("interp.Create", errors.KindInterp,
			fmt.Errorf("no interpreter driver registered"))
	}
	in, err := d.Create(opts)
	if err != nil {
		return nil, errors.E("interp.Create", errors.KindInterp, err)
	}
	return in, nil
}
