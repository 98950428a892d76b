package reactive

import (
	"testing"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// TestVariable_SetBroadcastsToAllObservers verifies every observer runs
// exactly once per write, in registration order, before Set returns.
func TestVariable_SetBroadcastsToAllObservers(t *testing.T) {
	v := NewVariable(0)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		v.Observers().Add(name, func(...any) (any, error) {
			order = append(order, name)
			return nil, nil
		})
	}

	if err := v.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(order))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("notification %d = %s, want %s", i, order[i], name)
		}
	}
}

// TestVariable_EveryWriteRebroadcasts verifies there is no write suppression.
func TestVariable_EveryWriteRebroadcasts(t *testing.T) {
	v := NewVariable(0)

	count := 0
	v.Observers().Add("counter", func(...any) (any, error) {
		count++
		return nil, nil
	})

	v.Set(1)
	v.Set(1) // same value still broadcasts
	v.Set(2)

	if count != 3 {
		t.Errorf("expected 3 notifications, got %d", count)
	}
}

// TestVariable_ObserverErrorLeavesValueMutated verifies the last write wins
// even when an observer rejects it.
func TestVariable_ObserverErrorLeavesValueMutated(t *testing.T) {
	v := NewVariable(0)
	v.Observers().Add("reject", func(...any) (any, error) {
		return nil, errors.Errorf("test", errors.KindValue, "rejected")
	})

	if err := v.Set(42); err == nil {
		t.Fatal("expected observer error")
	}
	if v.Value() != 42 {
		t.Errorf("value should be mutated before failure, got %v", v.Value())
	}
}

// TestNewVariableDefault verifies the callable-default constructor.
func TestNewVariableDefault(t *testing.T) {
	v, err := NewVariableDefault(func() any { return "hello" })
	if err != nil {
		t.Fatalf("NewVariableDefault: %v", err)
	}
	if v.Value() != "hello" {
		t.Errorf("value = %v", v.Value())
	}

	if _, err := NewVariableDefault(nil); !errors.IsKind(err, errors.KindValue) {
		t.Errorf("expected KindValue for nil default, got %v", err)
	}
}

// TestObservers_KeyCoercion verifies non-string keys are coerced.
func TestObservers_KeyCoercion(t *testing.T) {
	o := NewObservers()
	o.Add(42, func(...any) (any, error) { return "hit", nil })

	result, err := o.NotifyWith("42")
	if err != nil {
		t.Fatalf("NotifyWith: %v", err)
	}
	if result != "hit" {
		t.Errorf("result = %v", result)
	}
}

// TestObservers_NotifyNamed verifies targeted notification and the lookup
// error for unknown names.
func TestObservers_NotifyNamed(t *testing.T) {
	o := NewObservers()
	calls := map[string]int{}
	for _, name := range []string{"a", "b"} {
		name := name
		o.Add(name, func(...any) (any, error) {
			calls[name]++
			return name, nil
		})
	}

	results, err := o.NotifyNamed("b")
	if err != nil {
		t.Fatalf("NotifyNamed: %v", err)
	}
	if calls["a"] != 0 || calls["b"] != 1 {
		t.Errorf("unexpected calls %v", calls)
	}
	if results["b"] != "b" {
		t.Errorf("unexpected results %v", results)
	}

	if _, err := o.NotifyNamed("missing"); !errors.IsKind(err, errors.KindLookup) {
		t.Errorf("expected KindLookup, got %v", err)
	}
}

// TestObservers_NotifyWithArguments verifies argument passing.
func TestObservers_NotifyWithArguments(t *testing.T) {
	o := NewObservers()
	o.Add("sum", func(args ...any) (any, error) {
		total := 0
		for _, a := range args {
			total += a.(int)
		}
		return total, nil
	})

	result, err := o.NotifyWith("sum", 1, 2, 3)
	if err != nil {
		t.Fatalf("NotifyWith: %v", err)
	}
	if result != 6 {
		t.Errorf("result = %v, want 6", result)
	}
}

// TestObservers_Remove verifies removal mid-life.
func TestObservers_Remove(t *testing.T) {
	o := NewObservers()
	o.Add("a", func(...any) (any, error) { return nil, nil })
	o.Add("b", func(...any) (any, error) { return nil, nil })

	o.Remove("a")
	if o.Len() != 1 {
		t.Errorf("expected 1 observer, got %d", o.Len())
	}
	if _, err := o.NotifyNamed("a"); err == nil {
		t.Error("removed observer should be unknown")
	}
}
