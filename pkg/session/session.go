// Package session implements the root of the display tree: one live
// interpreter connection wrapped as a tree node, plus the process-wide
// pool of such roots.
//
// A session owns the command/flag registry for top-level bindings and the
// child set every widget ultimately hangs from. Its handle, tree path,
// child set, and registry are each assigned exactly once; a second
// assignment is a re-instantiation error, modeling the native handle's
// singleton-per-slot nature.
package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-tkbind/tkbind/pkg/command"
	"github.com/go-tkbind/tkbind/pkg/errors"
	"github.com/go-tkbind/tkbind/pkg/interp"
	"github.com/go-tkbind/tkbind/pkg/tree"
)

// Options configures session creation.
type Options struct {
	// BaseName is the application base name; defaults to the running
	// file's name. Required at the create boundary but otherwise unused.
	BaseName string
	// ClassName is the application class name; defaults to "Root". The
	// session's tree path is "." plus the lower-cased class name.
	ClassName string
	// Screen names the display to use; empty means default.
	Screen string
	// NoInitTk skips display toolkit initialization (headless mode).
	NoInitTk bool
	// Sync requests synchronous display protocol mode.
	Sync bool
	// Use names an existing window to embed into.
	Use string
	// Debugger, when non-nil, is attached as a trace observer on every
	// interpreter call.
	Debugger interp.Tracer
}

// Session is the root node of one display tree, bound to one native
// interpreter handle.
type Session struct {
	in       interp.Interp
	path     string
	children tree.Children
	registry *command.Registry

	pool      *Pool
	destroyed bool
}

// New creates a session by obtaining a fresh interpreter handle from the
// registered driver.
func New(opts Options) (*Session, error) {
	classname := opts.ClassName
	if classname == "" {
		classname = "Root"
	}
	basename := opts.BaseName
	if basename == "" {
		basename = runningFile(".exe", ".test")
	}

	in, err := interp.Create(interp.CreateOptions{
		Screen:      opts.Screen,
		BaseName:    basename,
		ClassName:   classname,
		Interactive: false,
		WantObjects: true,
		InitTk:      !opts.NoInitTk,
		Sync:        opts.Sync,
		Use:         opts.Use,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{}
	if err := s.Bind(in); err != nil {
		return nil, err
	}
	if err := s.setPath("." + strings.ToLower(classname)); err != nil {
		return nil, err
	}
	if err := s.children.Init(); err != nil {
		return nil, err
	}
	registry, err := command.NewRegistry(in)
	if err != nil {
		return nil, err
	}
	s.registry = registry

	if opts.Debugger != nil {
		in.SetTrace(opts.Debugger)
	}
	return s, nil
}

// Bind assigns the session's interpreter handle. A second Bind fails and
// leaves the existing handle in place.
func (s *Session) Bind(in interp.Interp) error {
	const op = "session.Bind"
	if s.in != nil {
		return errors.Reinstantiated(op, "handle")
	}
	if in == nil {
		return errors.Errorf(op, errors.KindStructure, "nil interpreter handle")
	}
	s.in = in
	return nil
}

// setPath assigns the session's tree path exactly once.
func (s *Session) setPath(path string) error {
	if s.path != "" {
		return errors.Reinstantiated("session.setPath", "path")
	}
	s.path = path
	return nil
}

// Interp returns the native handle.
func (s *Session) Interp() interp.Interp { return s.in }

// Path returns the session's tree path, the prefix of every descendant's
// interpreter-visible name.
func (s *Session) Path() string { return s.path }

// Registry returns the session's top-level command/flag registry.
func (s *Session) Registry() *command.Registry { return s.registry }

// AdoptChild adds a child node to the session.
func (s *Session) AdoptChild(node tree.Node) { s.children.Add(node) }

// RemoveChild removes a child node from the session.
func (s *Session) RemoveChild(node tree.Node) { s.children.Remove(node) }

// ChildCount returns the number of owned children.
func (s *Session) ChildCount() int { return s.children.Len() }

// Do executes one command directly against the interpreter.
func (s *Session) Do(tokens ...string) (string, error) {
	return s.in.Call(tokens...)
}

// SetTrace attaches a trace observer to every interpreter call.
func (s *Session) SetTrace(t interp.Tracer) {
	s.in.SetTrace(t)
}

// Destroy tears the session down: every live registered command is deleted
// first (one instruction each), then every child widget recursively, then
// one native destroy instruction against the session's path, and finally
// the session leaves its pool and the connection is closed. The pool exit
// and the close happen even when an earlier step fails; a session that has
// started destroying always ends up out of its pool with a dead connection,
// so a pool drain never re-encounters it.
func (s *Session) Destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true

	err := s.registry.UnregisterAll()
	if err == nil {
		err = s.children.DestroyAll()
	}
	if err == nil {
		if _, callErr := s.in.Call("destroy", s.path); callErr != nil {
			err = callErr
		}
	}

	if s.pool != nil {
		s.pool.remove(s)
		s.pool = nil
	}
	if closeErr := s.in.Close(); err == nil {
		err = closeErr
	}
	return err
}

// runningFile returns the base name of the running executable, dropping
// the extension when it is one of exempt.
func runningFile(exempt ...string) string {
	full := filepath.Base(os.Args[0])
	ext := filepath.Ext(full)
	for _, e := range exempt {
		if ext == e {
			return strings.TrimSuffix(full, ext)
		}
	}
	return full
}
