package command

import (
	"testing"
)

// TestChain_ReverseComposition verifies the documented policy: with members
// [f, g], invoking with (1) runs g(1) first, then f with g's result.
func TestChain_ReverseComposition(t *testing.T) {
	var order []string

	f := func(args ...any) (any, error) {
		order = append(order, "f")
		return args[0].(int) * 10, nil
	}
	g := func(args ...any) (any, error) {
		order = append(order, "g")
		return args[0].(int) + 1, nil
	}

	chain := NewChain(f, g)
	result, err := chain.Invoke(1)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if len(order) != 2 || order[0] != "g" || order[1] != "f" {
		t.Errorf("call order = %v, want [g f]", order)
	}
	// g(1) = 2, then f(2) = 20.
	if result != 20 {
		t.Errorf("result = %v, want 20", result)
	}
}

// TestChain_NilResultThreadsNoArguments verifies a nil return calls the
// next member with no arguments.
func TestChain_NilResultThreadsNoArguments(t *testing.T) {
	var got []any
	first := func(args ...any) (any, error) {
		got = args
		return "done", nil
	}
	last := func(args ...any) (any, error) {
		return nil, nil
	}

	result, err := NewChain(first, last).Invoke(1, 2)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("first member should receive no arguments, got %v", got)
	}
	if result != "done" {
		t.Errorf("result = %v", result)
	}
}

// TestChain_SkipsNilMembers verifies construction filters nil funcs.
func TestChain_SkipsNilMembers(t *testing.T) {
	chain := NewChain(nil, func(...any) (any, error) { return 1, nil }, nil)
	if chain.Len() != 1 {
		t.Errorf("expected 1 member, got %d", chain.Len())
	}
}

// TestChain_EmptyInvokeFails verifies invoking an empty chain errors.
func TestChain_EmptyInvokeFails(t *testing.T) {
	if _, err := NewChain().Invoke(); err == nil {
		t.Error("expected error invoking empty chain")
	}
}

// TestChain_SingleMember verifies the degenerate composition.
func TestChain_SingleMember(t *testing.T) {
	chain := NewChain(func(args ...any) (any, error) {
		return len(args), nil
	})
	result, err := chain.Invoke("a", "b", "c")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != 3 {
		t.Errorf("result = %v, want 3", result)
	}
}
