package session

import (
	"sync"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Pool is an explicit registry of live sessions. Index 0 is the default
// session, created lazily on first access. Code that wants default-session
// behavior takes a *Pool by reference rather than reaching for ambient
// global state; Default returns the process-wide instance.
type Pool struct {
	mu       sync.Mutex
	sessions []*Session
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// GetOrCreate returns the session at index 0, creating one with opts if
// the pool is empty.
func (p *Pool) GetOrCreate(opts Options) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sessions) == 0 {
		s, err := New(opts)
		if err != nil {
			return nil, err
		}
		s.pool = p
		p.sessions = append(p.sessions, s)
	}
	return p.sessions[0], nil
}

// Add registers an externally created session with the pool.
func (p *Pool) Add(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.pool = p
	p.sessions = append(p.sessions, s)
}

// Get returns the session at index. An out-of-range index is a lookup
// error.
func (p *Pool) Get(index int) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.sessions) {
		return nil, errors.Errorf("session.Pool.Get", errors.KindLookup,
			"no session at index %d", index)
	}
	return p.sessions[index], nil
}

// Len returns the number of pooled sessions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// Release removes the session at index from the pool and returns it,
// without checking whether its subtree is empty; tearing the session down
// remains the caller's responsibility.
func (p *Pool) Release(index int) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.sessions) {
		return nil, errors.Errorf("session.Pool.Release", errors.KindLookup,
			"no session at index %d", index)
	}
	s := p.sessions[index]
	p.sessions = append(p.sessions[:index], p.sessions[index+1:]...)
	s.pool = nil
	return s, nil
}

// ReleaseSession removes a specific session from the pool, reporting
// whether it was pooled.
func (p *Pool) ReleaseSession(s *Session) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeLocked(s)
}

// remove is Destroy's hook for leaving the pool.
func (p *Pool) remove(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(s)
}

func (p *Pool) removeLocked(s *Session) bool {
	for i, pooled := range p.sessions {
		if pooled == s {
			p.sessions = append(p.sessions[:i], p.sessions[i+1:]...)
			s.pool = nil
			return true
		}
	}
	return false
}

// Drain destroys every pooled session, front to back. The first failure
// stops the sweep.
func (p *Pool) Drain() error {
	for {
		p.mu.Lock()
		if len(p.sessions) == 0 {
			p.mu.Unlock()
			return nil
		}
		s := p.sessions[0]
		p.mu.Unlock()

		if err := s.Destroy(); err != nil {
			return err
		}
	}
}

var (
	defaultPool   *Pool
	defaultPoolMu sync.Mutex
)

// Default returns the process-wide session pool, created on first access.
// It should be drained at shutdown.
func Default() *Pool {
	defaultPoolMu.Lock()
	defer defaultPoolMu.Unlock()
	if defaultPool == nil {
		defaultPool = NewPool()
	}
	return defaultPool
}

// ResetForTest replaces the process-wide pool with an empty one.
// The cleanup function should be testing.T.Cleanup or equivalent.
func ResetForTest(cleanup func(func())) {
	defaultPoolMu.Lock()
	previous := defaultPool
	defaultPool = NewPool()
	defaultPoolMu.Unlock()
	cleanup(func() {
		defaultPoolMu.Lock()
		defaultPool = previous
		defaultPoolMu.Unlock()
	})
}
