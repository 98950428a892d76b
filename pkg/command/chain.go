// Package command implements the command/flag registry that every tree node
// uses to talk to the interpreter.
//
// Callables become named interpreter commands, reachable from
// interpreter-issued events; every other configuration value becomes a
// "flag", a positional token sequence passed to the node's creation
// instruction. Registration order matters for callables: a Chain runs its
// members last-registered-first, threading each result into the next.
package command

import "github.com/go-tkbind/tkbind/pkg/errors"

// Func is one member of a callback chain.
type Func func(args ...any) (any, error)

// Chain composes one or more Funcs behind a single invocation surface.
// Invocation runs the members in reverse registration order: the
// last-registered member receives the original arguments, and each member's
// result becomes the sole argument of the next.
type Chain struct {
	name string
	fns  []Func
}

// NewChain builds a chain from fns, skipping nil members.
func NewChain(fns ...Func) *Chain {
	c := &Chain{}
	for _, fn := range fns {
		if fn != nil {
			c.fns = append(c.fns, fn)
		}
	}
	return c
}

// Named returns c with a declared name, used when generating the chain's
// interpreter command name.
func (c *Chain) Named(name string) *Chain {
	c.name = name
	return c
}

// Name returns the chain's declared name, if any.
func (c *Chain) Name() string { return c.name }

// Len returns the number of members.
func (c *Chain) Len() int { return len(c.fns) }

// Invoke runs the chain. The last-registered member runs first with args;
// each member's result threads forward as the next member's argument. A nil
// result threads as no arguments. The final member's result is returned.
func (c *Chain) Invoke(args ...any) (any, error) {
	if len(c.fns) == 0 {
		return nil, errors.Errorf("command.Chain.Invoke", errors.KindValue,
			"empty callback chain")
	}

	var result any
	current := args
	for i := len(c.fns) - 1; i >= 0; i-- {
		var err error
		result, err = c.fns[i](current...)
		if err != nil {
			return nil, err
		}
		if result == nil {
			current = nil
		} else {
			current = []any{result}
		}
	}
	return result, nil
}
