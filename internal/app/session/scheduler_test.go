package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerScheduler_FiresOnce(t *testing.T) {
	req := require.New(t)
	s := NewTimerScheduler()

	fired := make(chan struct{}, 2)
	s.After("k", 20*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	select {
	case <-fired:
		t.Fatal("timer fired twice")
	case <-time.After(100 * time.Millisecond):
	}

	req.False(s.Pending("k"))
}

func TestTimerScheduler_AfterReplacesPendingTimer(t *testing.T) {
	req := require.New(t)
	s := NewTimerScheduler()

	firstFired := make(chan struct{}, 1)
	secondFired := make(chan struct{}, 1)

	s.After("k", 50*time.Millisecond, func() { firstFired <- struct{}{} })
	s.After("k", 50*time.Millisecond, func() { secondFired <- struct{}{} })

	select {
	case <-secondFired:
	case <-time.After(time.Second):
		t.Fatal("replacement timer did not fire")
	}

	select {
	case <-firstFired:
		t.Fatal("replaced timer still fired")
	case <-time.After(100 * time.Millisecond):
	}

	req.False(s.Pending("k"))
}

// A reset timer must not fire before the full duration has elapsed from the
// last reset.
func TestTimerScheduler_ResetRestartsFullDuration(t *testing.T) {
	s := NewTimerScheduler()

	fired := make(chan struct{}, 1)
	fn := func() { fired <- struct{}{} }

	s.After("k", 200*time.Millisecond, fn)
	time.Sleep(120 * time.Millisecond)
	s.After("k", 200*time.Millisecond, fn)

	// 120ms into the second window; the original deadline has passed.
	select {
	case <-fired:
		t.Fatal("timer fired before the full duration elapsed from the reset")
	case <-time.After(120 * time.Millisecond):
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("reset timer never fired")
	}
}

// A callback whose underlying timer already fired when a reset raced it
// must not run: Stop cannot stop an in-flight fire, so the callback has to
// notice its key was rescheduled and back out.
func TestTimerScheduler_ResetSuppressesInFlightFire(t *testing.T) {
	s := NewTimerScheduler()

	fired := make(chan struct{}, 1)
	s.After("k", 30*time.Millisecond, func() { fired <- struct{}{} })

	// Emulate a reset winning the race after the fire is already committed
	// inside the runtime: swap the live timer out from under the callback.
	s.mu.Lock()
	s.timers["k"] = time.NewTimer(time.Hour)
	s.mu.Unlock()

	select {
	case <-fired:
		t.Fatal("stale callback ran after its key was rescheduled")
	case <-time.After(150 * time.Millisecond):
	}
}

// Same race on the cancel side: a cancel that loses the Stop race must
// still suppress the in-flight callback via the missing map entry.
func TestTimerScheduler_CancelSuppressesInFlightFire(t *testing.T) {
	s := NewTimerScheduler()

	fired := make(chan struct{}, 1)
	s.After("k", 30*time.Millisecond, func() { fired <- struct{}{} })

	s.mu.Lock()
	delete(s.timers, "k")
	s.mu.Unlock()

	select {
	case <-fired:
		t.Fatal("stale callback ran after its key was cancelled")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTimerScheduler_CancelPreventsFire(t *testing.T) {
	req := require.New(t)
	s := NewTimerScheduler()

	fired := make(chan struct{}, 1)
	s.After("k", 50*time.Millisecond, func() { fired <- struct{}{} })
	req.True(s.Pending("k"))

	s.Cancel("k")
	req.False(s.Pending("k"))

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTimerScheduler_CancelUnknownKeyIsNoOp(t *testing.T) {
	s := NewTimerScheduler()
	s.Cancel("never-scheduled")
	s.Cancel("never-scheduled")
}

func TestTimerScheduler_IndependentKeys(t *testing.T) {
	req := require.New(t)
	s := NewTimerScheduler()

	fired := make(chan string, 2)
	s.After("a", 30*time.Millisecond, func() { fired <- "a" })
	s.After("b", 30*time.Millisecond, func() { fired <- "b" })

	s.Cancel("a")

	select {
	case key := <-fired:
		req.Equal("b", key)
	case <-time.After(time.Second):
		t.Fatal("independent timer did not fire")
	}
}
