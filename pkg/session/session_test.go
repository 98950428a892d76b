package session

import (
	"testing"

	"github.com/go-tkbind/tkbind/pkg/command"
	"github.com/go-tkbind/tkbind/pkg/errors"
	"github.com/go-tkbind/tkbind/pkg/interp"
	"github.com/go-tkbind/tkbind/pkg/widget"
)

func newTestSession(t *testing.T) (*Session, *interp.Recorder) {
	t.Helper()
	driver := interp.SetupTestDriver(t.Cleanup)
	widget.ResetForTest(t.Cleanup)

	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	recs := driver.Created()
	return s, recs[len(recs)-1]
}

// TestNew_DefaultPath verifies the tree path derives from the class name.
func TestNew_DefaultPath(t *testing.T) {
	s, _ := newTestSession(t)
	if s.Path() != ".root" {
		t.Errorf("path = %q, want .root", s.Path())
	}
}

// TestNew_CustomClassName verifies the class name flows into the path and
// the create options.
func TestNew_CustomClassName(t *testing.T) {
	interp.SetupTestDriver(t.Cleanup)

	s, err := New(Options{ClassName: "Studio"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Path() != ".studio" {
		t.Errorf("path = %q, want .studio", s.Path())
	}
}

// TestBind_SecondAssignmentFails verifies the handle slot is write-once and
// keeps its original value.
func TestBind_SecondAssignmentFails(t *testing.T) {
	s, rec := newTestSession(t)

	other := interp.NewRecorder()
	if err := s.Bind(other); !errors.IsKind(err, errors.KindReinstantiate) {
		t.Fatalf("expected KindReinstantiate, got %v", err)
	}
	if s.Interp() != interp.Interp(rec) {
		t.Error("failed rebind must leave the original handle")
	}
}

// TestDestroy_CommandDeletesThenDestroy verifies the documented teardown
// side effect: exactly K delete instructions, then one destroy.
func TestDestroy_CommandDeletesThenDestroy(t *testing.T) {
	s, rec := newTestSession(t)

	fn := func(...any) (any, error) { return nil, nil }
	for i := 0; i < 4; i++ {
		if _, err := s.Registry().AddCallback(command.NewChain(fn)); err != nil {
			t.Fatalf("AddCallback: %v", err)
		}
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	deletes := 0
	destroys := 0
	for _, op := range rec.Ops() {
		switch {
		case op.Name == "deletecommand":
			if destroys > 0 {
				t.Error("delete instruction after destroy instruction")
			}
			deletes++
		case op.Name == "call" && op.Tokens[0] == "destroy":
			destroys++
		}
	}
	if deletes != 4 {
		t.Errorf("expected 4 delete instructions, got %d", deletes)
	}
	if destroys != 1 {
		t.Errorf("expected exactly 1 destroy instruction, got %d", destroys)
	}
	if !rec.Closed() {
		t.Error("destroy should close the interpreter connection")
	}
}

// TestDestroy_UnwindsWidgetSubtree verifies children are destroyed before
// the session's own destroy instruction.
func TestDestroy_UnwindsWidgetSubtree(t *testing.T) {
	s, rec := newTestSession(t)

	frame, err := widget.New("frame", s, nil)
	if err != nil {
		t.Fatalf("widget.New: %v", err)
	}
	if _, err := widget.New("button", frame, nil); err != nil {
		t.Fatalf("widget.New: %v", err)
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	var destroys []string
	for _, call := range rec.Calls() {
		if call[0] == "destroy" {
			destroys = append(destroys, call[1])
		}
	}
	want := []string{".root!frame.!button.", ".root!frame.", ".root"}
	if len(destroys) != len(want) {
		t.Fatalf("destroys = %v, want %v", destroys, want)
	}
	for i := range want {
		if destroys[i] != want[i] {
			t.Errorf("destroy %d = %q, want %q", i, destroys[i], want[i])
		}
	}
}

// TestDestroy_FailedTeardownLeavesPool verifies a session whose native
// destroy instruction fails still exits its pool with a closed connection,
// so a later drain terminates instead of re-destroying it forever.
func TestDestroy_FailedTeardownLeavesPool(t *testing.T) {
	driver := interp.SetupTestDriver(t.Cleanup)

	pool := NewPool()
	s, err := pool.GetOrCreate(Options{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	recs := driver.Created()
	rec := recs[len(recs)-1]
	rec.FailCalls = func(tokens []string) error {
		if tokens[0] == "destroy" {
			return errors.Errorf("test", errors.KindInterp, "display gone")
		}
		return nil
	}

	if err := s.Destroy(); err == nil {
		t.Fatal("expected destroy failure")
	}
	if pool.Len() != 0 {
		t.Errorf("failed destroy left the session pooled, pool has %d", pool.Len())
	}
	if !rec.Closed() {
		t.Error("failed destroy left the connection open")
	}
	if err := pool.Drain(); err != nil {
		t.Errorf("Drain after failed destroy: %v", err)
	}
}

// TestPool_GetOrCreate_Lazy verifies index 0 is created on first access
// and reused afterwards.
func TestPool_GetOrCreate_Lazy(t *testing.T) {
	interp.SetupTestDriver(t.Cleanup)

	pool := NewPool()
	if pool.Len() != 0 {
		t.Fatalf("fresh pool has %d sessions", pool.Len())
	}

	first, err := pool.GetOrCreate(Options{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := pool.GetOrCreate(Options{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != second {
		t.Error("GetOrCreate should return the pooled session")
	}
	if pool.Len() != 1 {
		t.Errorf("pool has %d sessions, want 1", pool.Len())
	}
}

// TestPool_Release_NoSubtreeCheck verifies release removes without
// inspecting the subtree.
func TestPool_Release_NoSubtreeCheck(t *testing.T) {
	interp.SetupTestDriver(t.Cleanup)
	widget.ResetForTest(t.Cleanup)

	pool := NewPool()
	s, err := pool.GetOrCreate(Options{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := widget.New("button", s, nil); err != nil {
		t.Fatalf("widget.New: %v", err)
	}

	released, err := pool.Release(0)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if released != s {
		t.Error("Release returned a different session")
	}
	if pool.Len() != 0 {
		t.Errorf("pool has %d sessions after release", pool.Len())
	}
	// The subtree is untouched; teardown stays the caller's concern.
	if s.ChildCount() != 1 {
		t.Errorf("released session lost its subtree")
	}

	if _, err := pool.Release(0); !errors.IsKind(err, errors.KindLookup) {
		t.Errorf("expected KindLookup on empty pool, got %v", err)
	}
}

// TestPool_DestroyLeavesPool verifies a destroyed session removes itself.
func TestPool_DestroyLeavesPool(t *testing.T) {
	interp.SetupTestDriver(t.Cleanup)

	pool := NewPool()
	s, err := pool.GetOrCreate(Options{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if pool.Len() != 0 {
		t.Errorf("pool has %d sessions after destroy", pool.Len())
	}
}

// TestPool_Drain verifies every pooled session is destroyed.
func TestPool_Drain(t *testing.T) {
	driver := interp.SetupTestDriver(t.Cleanup)

	pool := NewPool()
	if _, err := pool.GetOrCreate(Options{}); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	extra, err := New(Options{ClassName: "Second"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool.Add(extra)

	if err := pool.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if pool.Len() != 0 {
		t.Errorf("pool has %d sessions after drain", pool.Len())
	}
	for _, rec := range driver.Created() {
		if !rec.Closed() {
			t.Error("drained session left its connection open")
		}
	}
}

// TestSession_DebuggerAttached verifies the trace observer wiring.
func TestSession_DebuggerAttached(t *testing.T) {
	interp.SetupTestDriver(t.Cleanup)

	var traced int
	s, err := New(Options{
		Debugger: interp.TracerFunc(func([]string, string, error) { traced++ }),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := s.Do("wm", "title", s.Path(), "hello"); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if traced != 1 {
		t.Errorf("expected 1 traced call, got %d", traced)
	}
}
