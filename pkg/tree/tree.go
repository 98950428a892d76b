// Package tree provides the ownership capabilities shared by sessions and
// widgets: a write-once parent reference and an ordered child set whose
// teardown fully unwinds each subtree before the owner proceeds.
//
// Ownership is strictly tree-shaped and single-owner. There is no locking:
// correctness depends on construction and destruction ordering, enforced by
// the owners of these capabilities.
package tree

import (
	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Node is any tree member that can be destroyed. Destruction must unwind
// the node's own subtree before returning.
type Node interface {
	Destroy() error
}

// Children is an insertion-ordered set of owned child nodes. The set is
// initialized exactly once.
type Children struct {
	nodes []Node
	init  bool
}

// Init allocates the child set. A second Init is a re-instantiation error
// and leaves the existing set intact.
func (c *Children) Init() error {
	if c.init {
		return errors.Reinstantiated("tree.Children.Init", "children")
	}
	c.init = true
	return nil
}

// Initialized reports whether Init has run.
func (c *Children) Initialized() bool { return c.init }

// Add appends a child to the set.
func (c *Children) Add(node Node) {
	c.nodes = append(c.nodes, node)
}

// Remove deletes a child from the set, if present.
func (c *Children) Remove(node Node) {
	for i, n := range c.nodes {
		if n == node {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return
		}
	}
}

// Len returns the number of children.
func (c *Children) Len() int { return len(c.nodes) }

// List returns the children in insertion order.
func (c *Children) List() []Node {
	out := make([]Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// DestroyAll destroys every child, fully unwinding each subtree before
// moving to the next. Children remove themselves from the set as they
// die; any left behind are dropped afterwards. The first destruction
// error stops the sweep.
func (c *Children) DestroyAll() error {
	for len(c.nodes) > 0 {
		node := c.nodes[0]
		if err := node.Destroy(); err != nil {
			return err
		}
		// A well-behaved child removed itself; guard against one that
		// did not, so the sweep always terminates.
		if len(c.nodes) > 0 && c.nodes[0] == node {
			c.nodes = c.nodes[1:]
		}
	}
	return nil
}

// ParentRef is a write-once reference to an owning node.
type ParentRef struct {
	parent any
	set    bool
}

// Set assigns the parent. A second assignment is a re-instantiation error
// and leaves the existing reference unchanged.
func (p *ParentRef) Set(parent any) error {
	if p.set {
		return errors.Reinstantiated("tree.ParentRef.Set", "parent")
	}
	if parent == nil {
		return errors.Errorf("tree.ParentRef.Set", errors.KindStructure,
			"parent must not be nil")
	}
	p.parent = parent
	p.set = true
	return nil
}

// Get returns the parent reference, or nil if unset.
func (p *ParentRef) Get() any { return p.parent }

// IsSet reports whether the reference has been assigned.
func (p *ParentRef) IsSet() bool { return p.set }
