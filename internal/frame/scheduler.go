// Package frame drives per-frame work: the host scheduler, resize detection
// and the render loop.
package frame

import "sync"

// Scheduler is a minimal main-thread event loop. Frame callbacks run at most
// once per host frame; posted tasks come from any goroutine and run on the
// main thread before the frame callback.
type Scheduler struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool

	next func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// RequestFrame asks for fn to run on the next frame. Requests made during the
// same frame coalesce into the latest one.
// Must be called from the main thread.
func (s *Scheduler) RequestFrame(fn func()) {
	s.next = fn
}

// Post queues fn to run on the main thread. It is safe for concurrent use.
// Tasks posted after Close are dropped and Post returns false.
func (s *Scheduler) Post(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.tasks = append(s.tasks, fn)
	return true
}

// RunFrame drains posted tasks, then runs the pending frame callback if any.
// It returns false when no frame was pending, i.e. the loop is idle.
func (s *Scheduler) RunFrame() bool {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t()
	}

	fn := s.next
	s.next = nil
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Close stops accepting posted tasks and drops queued ones.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.tasks = nil
	s.mu.Unlock()
	s.next = nil
}
