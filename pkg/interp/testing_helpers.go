package interp

import (
	"fmt"
	"sync"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Op is one recorded interaction with a Recorder.
type Op struct {
	// Name is "call", "createcommand", or "deletecommand".
	Name string
	// Tokens holds the call tokens, or the command name for
	// createcommand/deletecommand.
	Tokens []string
}

// Recorder is an in-memory Interp that records every interaction in order.
// It stands in for the native interpreter in tests across all packages.
type Recorder struct {
	mu       sync.Mutex
	ops      []Op
	commands map[string]CommandFunc
	tracer   Tracer
	closed   bool

	// FailCalls, when non-nil, is consulted before each Call; returning a
	// non-nil error makes the Call fail without being recorded as applied.
	FailCalls func(tokens []string) error

	// Respond, when non-nil, supplies the result string of each
	// successful Call.
	Respond func(tokens []string) string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{commands: make(map[string]CommandFunc)}
}

// Ops returns a copy of every recorded interaction, in order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Calls returns only the recorded "call" interactions.
func (r *Recorder) Calls() [][]string {
	var calls [][]string
	for _, op := range r.Ops() {
		if op.Name == "call" {
			calls = append(calls, op.Tokens)
		}
	}
	return calls
}

// Commands returns the names of currently registered callbacks.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}

// Invoke dispatches a registered callback by name, as the native
// interpreter would from an event.
func (r *Recorder) Invoke(name string, args ...string) (any, error) {
	r.mu.Lock()
	fn, ok := r.commands[name]
	r.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("interp.Recorder.Invoke", errors.KindLookup,
			"no command %q", name)
	}
	return fn(args...)
}

func (r *Recorder) Call(tokens ...string) (string, error) {
	if fail := r.FailCalls; fail != nil {
		if err := fail(tokens); err != nil {
			if r.tracer != nil {
				r.tracer.Trace(tokens, "", err)
			}
			return "", err
		}
	}
	r.mu.Lock()
	r.ops = append(r.ops, Op{Name: "call", Tokens: tokens})
	r.mu.Unlock()
	result := ""
	if r.Respond != nil {
		result = r.Respond(tokens)
	}
	if r.tracer != nil {
		r.tracer.Trace(tokens, result, nil)
	}
	return result, nil
}

func (r *Recorder) SplitList(s string) ([]string, error) {
	return SplitList(s)
}

func (r *Recorder) CreateCommand(name string, fn CommandFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.commands[name]; dup {
		return fmt.Errorf("command %q already exists", name)
	}
	r.commands[name] = fn
	r.ops = append(r.ops, Op{Name: "createcommand", Tokens: []string{name}})
	return nil
}

func (r *Recorder) DeleteCommand(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[name]; !ok {
		return fmt.Errorf("no command %q", name)
	}
	delete(r.commands, name)
	r.ops = append(r.ops, Op{Name: "deletecommand", Tokens: []string{name}})
	return nil
}

func (r *Recorder) SetTrace(t Tracer) {
	r.tracer = t
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// RecorderDriver is a Driver that hands out independent Recorders.
type RecorderDriver struct {
	mu      sync.Mutex
	created []*Recorder
}

// Create returns a fresh Recorder and remembers it.
func (d *RecorderDriver) Create(opts CreateOptions) (Interp, error) {
	r := NewRecorder()
	d.mu.Lock()
	d.created = append(d.created, r)
	d.mu.Unlock()
	return r, nil
}

// Created returns every Recorder handed out so far.
func (d *RecorderDriver) Created() []*Recorder {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Recorder, len(d.created))
	copy(out, d.created)
	return out
}

// SetupTestDriver installs a RecorderDriver for the duration of a test.
// The cleanup function should be testing.T.Cleanup or equivalent.
//
//	driver := interp.SetupTestDriver(t.Cleanup)
func SetupTestDriver(cleanup func(func())) *RecorderDriver {
	d := &RecorderDriver{}
	SetDriver(d)
	cleanup(func() { SetDriver(nil) })
	return d
}
