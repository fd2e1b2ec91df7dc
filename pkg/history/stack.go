package history

import (
	"sync"
	"sync/atomic"
)

// listener is one registration made through Listen.
type listener struct {
	fn      func(Location)
	removed atomic.Bool
}

// delivery is a committed location together with the listeners that were
// registered at commit time.
type delivery struct {
	loc       Location
	listeners []*listener
}

// stack is the entry stack and listener registry shared by every backend.
//
// Commits happen under mu. Listener callbacks run outside mu from a single
// drain loop so a callback may read Location or navigate again without
// deadlocking; its own navigation is queued behind the current delivery.
type stack struct {
	mu          sync.Mutex
	entries     []Location
	index       int
	listeners   []*listener
	pending     []delivery
	dispatching bool
	closed      bool

	// mirror reflects application commits onto the platform. It runs under
	// mu so the platform sees commits in the same order as the stack.
	mirror func(op Op, loc Location, delta int)
}

func newStack(initial Location, mirror func(op Op, loc Location, delta int)) *stack {
	return &stack{entries: []Location{initial}, mirror: mirror}
}

func (s *stack) location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.index]
}

func (s *stack) push(loc Location) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries[:s.index+1], loc)
	s.index++
	s.mirrorLocked(OpPush, loc, 0)
	s.enqueueLocked(loc)
	s.mu.Unlock()
	s.drain()
}

func (s *stack) replace(loc Location) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.entries[s.index] = loc
	s.mirrorLocked(OpReplace, loc, 0)
	s.enqueueLocked(loc)
	s.mu.Unlock()
	s.drain()
}

// move traverses delta entries. It reports false when the target is out of
// range, in which case nothing is committed.
func (s *stack) move(delta int) bool {
	s.mu.Lock()
	target := s.index + delta
	if s.closed || delta == 0 || target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return false
	}
	s.index = target
	s.mirrorLocked(OpGo, s.entries[target], delta)
	s.enqueueLocked(s.entries[target])
	s.mu.Unlock()
	s.drain()
	return true
}

// pop applies a navigation reported by the platform. A report that matches
// the current entry is the echo of our own traversal and is ignored. A
// report matching another entry moves to the nearest such entry; anything
// else replaces the current entry.
func (s *stack) pop(loc Location) {
	s.mu.Lock()
	if s.closed || sameURL(s.entries[s.index], loc) {
		s.mu.Unlock()
		return
	}

	found := -1
	for dist := 1; dist < len(s.entries); dist++ {
		if i := s.index - dist; i >= 0 && sameURL(s.entries[i], loc) {
			found = i
			break
		}
		if i := s.index + dist; i < len(s.entries) && sameURL(s.entries[i], loc) {
			found = i
			break
		}
	}
	if found >= 0 {
		s.index = found
	} else {
		s.entries[s.index] = loc
	}
	s.enqueueLocked(s.entries[s.index])
	s.mu.Unlock()
	s.drain()
}

func (s *stack) listen(fn func(Location)) (Unlisten, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	l := &listener{fn: fn}
	s.listeners = append(s.listeners, l)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.removed.Store(true)
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, existing := range s.listeners {
				if existing == l {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					break
				}
			}
		})
	}, nil
}

func (s *stack) listenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *stack) size() (length, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), s.index
}

func (s *stack) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, l := range s.listeners {
		l.removed.Store(true)
	}
	s.listeners = nil
	s.pending = nil
}

func (s *stack) mirrorLocked(op Op, loc Location, delta int) {
	if s.mirror != nil {
		s.mirror(op, loc, delta)
	}
}

func (s *stack) enqueueLocked(loc Location) {
	if len(s.listeners) == 0 {
		return
	}
	ls := make([]*listener, len(s.listeners))
	copy(ls, s.listeners)
	s.pending = append(s.pending, delivery{loc: loc, listeners: ls})
}

// drain delivers pending commits in order. Only one drain loop runs at a
// time; callers that find one running leave their commit to it.
func (s *stack) drain() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	// A panicking listener must not leave the loop marked as running.
	completed := false
	defer func() {
		if !completed {
			s.mu.Lock()
			s.dispatching = false
			s.mu.Unlock()
		}
	}()

	for len(s.pending) > 0 {
		d := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, l := range d.listeners {
			if !l.removed.Load() {
				l.fn(d.loc)
			}
		}

		s.mu.Lock()
	}
	s.dispatching = false
	completed = true
	s.mu.Unlock()
}
