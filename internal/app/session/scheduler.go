/*
Package session contains the core logic for presentation rooms.

This file defines the timeout scheduler: one-shot expiry timers keyed by
string, with at most one live timer per key. Room session timers and
per-connection inactivity timers both run through it.
*/
package session

import (
	"sync"
	"time"
)

// Scheduler schedules one-shot callbacks keyed by string. After replaces
// any pending timer for the key (cancel-then-reschedule, atomically);
// Cancel of an unknown key is a no-op. The interface exists so tests can
// substitute a manual clock for wall time.
type Scheduler interface {
	After(key string, d time.Duration, fn func())
	Cancel(key string)
}

// TimerScheduler is the wall-clock Scheduler used in production, backed by
// time.AfterFunc.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTimerScheduler returns an empty TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
	}
}

// After schedules fn to run after d, replacing any pending timer for key.
// The callback runs on the timer goroutine; callers are responsible for
// their own locking.
func (s *TimerScheduler) After(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		// Stop cannot stop a timer whose function is already in flight, so
		// the map entry is the source of truth: only the live timer for the
		// key may run its callback. A reset or cancel that raced the fire
		// wins, and the stale callback returns without running.
		if s.timers[key] != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		fn()
	})

	s.timers[key] = t
}

// Cancel stops and removes the pending timer for key, if any.
func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// Pending reports whether a timer is currently scheduled for key.
func (s *TimerScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.timers[key]
	return ok
}
