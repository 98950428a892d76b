// Package widget implements the non-root nodes of the display tree.
//
// A widget corresponds to exactly one interpreter-side display object. It
// cannot exist without a parent that already has an interpreter handle:
// construction flows parent to child, destruction unwinds children before
// the parent proceeds. A widget's interpreter-visible tree path derives
// from its parent's path plus an instance-tracked local name.
package widget

import (
	"strconv"
	"strings"

	"github.com/go-tkbind/tkbind/pkg/command"
	"github.com/go-tkbind/tkbind/pkg/errors"
	"github.com/go-tkbind/tkbind/pkg/interp"
	"github.com/go-tkbind/tkbind/pkg/tree"
)

// Config carries the configuration keyword arguments of one widget.
// Callable-shaped values become registered commands; everything else
// becomes creation-instruction flags. The reserved key "name" overrides
// the derived instance name verbatim.
type Config map[string]any

// Parent is the contract a widget requires of its owner: child ownership
// plus handle and tree-path access.
type Parent interface {
	AdoptChild(node tree.Node)
	RemoveChild(node tree.Node)
	Interp() interp.Interp
	Path() string
}

// Widget is one interpreter-side display object.
type Widget struct {
	kind  string
	class string
	name  string
	path  string
	index int

	in       interp.Interp
	parent   tree.ParentRef
	children tree.Children
	registry *command.Registry
	tracker  *Tracker

	destroyed bool
}

// New creates a widget of the given interpreter kind under parent,
// configured by config, and issues exactly one native creation
// instruction. The widget's class is the kind's final name segment,
// lower-cased; the instance name appends the class's live-instance index
// (omitted for the first instance) unless config supplies an explicit
// "name".
func New(kind string, parent Parent, config Config) (*Widget, error) {
	const op = "widget.New"

	if parent == nil {
		return nil, errors.Errorf(op, errors.KindStructure,
			"widget requires a parent")
	}
	in := parent.Interp()
	if in == nil {
		return nil, errors.Errorf(op, errors.KindStructure,
			"parent %q has no interpreter handle", parent.Path())
	}
	if parent.Path() == "" {
		return nil, errors.Errorf(op, errors.KindStructure,
			"parent has no tree path")
	}

	w := &Widget{
		kind:    kind,
		class:   classOf(kind),
		in:      in,
		tracker: DefaultTracker(),
		index:   -1,
	}
	if err := w.parent.Set(parent); err != nil {
		return nil, err
	}
	if err := w.children.Init(); err != nil {
		return nil, err
	}

	explicit := ""
	if raw, ok := config["name"]; ok {
		explicit, ok = raw.(string)
		if !ok || explicit == "" {
			return nil, errors.Errorf(op, errors.KindValue,
				"explicit name must be a non-empty string, got %T", raw)
		}
		config = cloneWithout(config, "name")
	}

	if explicit != "" {
		w.name = explicit
	} else {
		w.index = w.tracker.Acquire(w.class, w)
		w.name = w.class
		if w.index > 0 {
			w.name += strconv.Itoa(w.index)
		}
	}
	w.path = parent.Path() + "!" + w.name + "."

	registry, err := command.NewRegistry(in)
	if err != nil {
		w.abort()
		return nil, err
	}
	w.registry = registry
	if _, err := registry.Configure(config); err != nil {
		w.abort()
		return nil, err
	}

	tokens := append([]string{kind, w.path}, registry.FlagTokens()...)
	if _, err := in.Call(tokens...); err != nil {
		w.abort()
		return nil, err
	}

	parent.AdoptChild(w)
	if explicit != "" {
		// Explicitly named widgets still count as live instances.
		w.index = w.tracker.Acquire(w.class, w)
	}
	return w, nil
}

// release frees the widget's tracker index.
func (w *Widget) release() {
	if w.index >= 0 {
		w.tracker.Release(w.class, w.index)
		w.index = -1
	}
}

// abort unwinds a failed construction: any commands Configure already
// registered are deleted from the interpreter and the tracker index is
// freed, so nothing of the half-built widget survives.
func (w *Widget) abort() {
	if w.registry != nil {
		w.registry.UnregisterAll() //nolint:errcheck
	}
	w.release()
}

// Kind returns the interpreter widget kind (the creation instruction verb).
func (w *Widget) Kind() string { return w.kind }

// Class returns the lower-cased class used for instance tracking.
func (w *Widget) Class() string { return w.class }

// Name returns the local instance name.
func (w *Widget) Name() string { return w.name }

// Path returns the interpreter-visible tree path.
func (w *Widget) Path() string { return w.path }

// Interp returns the interpreter handle, shared with the parent.
func (w *Widget) Interp() interp.Interp { return w.in }

// ParentNode returns the owning node.
func (w *Widget) ParentNode() Parent {
	parent, _ := w.parent.Get().(Parent)
	return parent
}

// Registry returns the widget's command/flag registry.
func (w *Widget) Registry() *command.Registry { return w.registry }

// AdoptChild adds a child node to this widget.
func (w *Widget) AdoptChild(node tree.Node) { w.children.Add(node) }

// RemoveChild removes a child node from this widget.
func (w *Widget) RemoveChild(node tree.Node) { w.children.Remove(node) }

// ChildCount returns the number of owned children.
func (w *Widget) ChildCount() int { return w.children.Len() }

// Do executes one command directly against the interpreter.
func (w *Widget) Do(tokens ...string) (string, error) {
	return w.in.Call(tokens...)
}

// Configure applies additional configuration to a live widget: callables
// register as commands, flags are sent in one native configure instruction.
func (w *Widget) Configure(config Config) error {
	keys, err := w.registry.Configure(config)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	tokens := []string{w.path, "configure"}
	for _, key := range keys {
		flag, _ := w.registry.Flag(key)
		tokens = append(tokens, flag...)
	}
	_, err = w.in.Call(tokens...)
	return err
}

// Destroy tears down the widget: every descendant first (post-order), then
// instance-tracker and parent bookkeeping, then command unregistration, and
// finally the widget's own native destroy instruction. A failed teardown
// leaves the widget destroyable: calling Destroy again resumes from the
// step that failed, and only a fully unwound widget becomes a no-op.
func (w *Widget) Destroy() error {
	if w.destroyed {
		return nil
	}

	if err := w.children.DestroyAll(); err != nil {
		return err
	}
	w.release()
	if parent := w.ParentNode(); parent != nil {
		parent.RemoveChild(w)
	}
	if err := w.registry.UnregisterAll(); err != nil {
		return err
	}
	if _, err := w.in.Call("destroy", w.path); err != nil {
		return err
	}
	w.destroyed = true
	return nil
}

// classOf derives the tracking class from an interpreter widget kind,
// taking the final namespace segment lower-cased.
func classOf(kind string) string {
	if i := strings.LastIndex(kind, "::"); i >= 0 {
		kind = kind[i+2:]
	}
	return strings.ToLower(kind)
}

func cloneWithout(config Config, key string) Config {
	out := make(Config, len(config))
	for k, v := range config {
		if k != key {
			out[k] = v
		}
	}
	return out
}

