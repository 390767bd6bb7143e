package nv

import (
	"sync"
	"time"
)

// Timer is a pending scheduled call
type Timer interface {
	Stop() bool
}

// Scheduler abstracts the clock so the auto-hide deadline can be driven by
// virtual time in tests
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler returns a Scheduler backed by the time package
func RealScheduler() Scheduler {
	return realScheduler{}
}

// ControlsConfig configures ControlsTimer
type ControlsConfig struct {
	ShowControls bool
	AutoHide     bool
	Timeout      time.Duration
}

// VisibilityState is a snapshot of the controls overlay state
type VisibilityState struct {
	Visible  bool
	Deadline time.Time // zero when no hide is pending
}

// ControlsTimer tracks whether the overlay controls are visible and hides
// them after a period without activity. At most one hide deadline is pending
type ControlsTimer struct {
	sched    Scheduler
	onChange func(visible bool)

	mu       sync.Mutex
	cfg      ControlsConfig
	visible  bool
	pending  Timer
	deadline time.Time
	gen      uint64
	closed   bool
}

// NewControlsTimer creates a timer in the state described by cfg. onChange
// is called, outside the lock, each time visibility flips
func NewControlsTimer(cfg ControlsConfig, sched Scheduler, onChange func(visible bool)) *ControlsTimer {
	if sched == nil {
		sched = RealScheduler()
	}
	t := &ControlsTimer{
		sched:    sched,
		onChange: onChange,
		cfg:      cfg,
		visible:  cfg.ShowControls,
	}
	t.mu.Lock()
	if t.visible && cfg.AutoHide {
		t.scheduleLocked()
	}
	t.mu.Unlock()
	return t
}

// OnActivity records user activity. With auto-hide on, the controls are shown
// and the hide deadline restarts; otherwise nothing changes
func (t *ControlsTimer) OnActivity() {
	t.mu.Lock()
	if t.closed || !t.cfg.AutoHide {
		t.mu.Unlock()
		return
	}
	changed := !t.visible
	t.visible = true
	t.scheduleLocked()
	t.mu.Unlock()

	if changed {
		t.notify(true)
	}
}

// Toggle flips visibility. Showing with auto-hide on starts a deadline;
// hiding cancels any pending one
func (t *ControlsTimer) Toggle() bool {
	t.mu.Lock()
	if t.closed {
		visible := t.visible
		t.mu.Unlock()
		return visible
	}
	t.visible = !t.visible
	if t.visible && t.cfg.AutoHide {
		t.scheduleLocked()
	} else {
		t.cancelLocked()
	}
	visible := t.visible
	t.mu.Unlock()

	t.notify(visible)
	return visible
}

// Reconfigure applies a new configuration as if the timer were freshly
// created. A deadline pending under the previous configuration is cancelled
func (t *ControlsTimer) Reconfigure(cfg ControlsConfig) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.cfg = cfg
	changed := t.visible != cfg.ShowControls
	t.visible = cfg.ShowControls
	if t.visible && cfg.AutoHide {
		t.scheduleLocked()
	}
	visible := t.visible
	t.mu.Unlock()

	if changed {
		t.notify(visible)
	}
}

// Config returns the current configuration
func (t *ControlsTimer) Config() ControlsConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Visible reports whether the controls are shown
func (t *ControlsTimer) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// State returns a snapshot of visibility and the pending deadline
func (t *ControlsTimer) State() VisibilityState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return VisibilityState{Visible: t.visible, Deadline: t.deadline}
}

// Close cancels any pending deadline; no state changes happen afterwards.
// Calling Close more than once is harmless
func (t *ControlsTimer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.closed = true
}

// scheduleLocked replaces the pending deadline. Timeouts <= 0 never schedule
func (t *ControlsTimer) scheduleLocked() {
	t.cancelLocked()
	if t.cfg.Timeout <= 0 {
		return
	}
	gen := t.gen
	t.deadline = t.sched.Now().Add(t.cfg.Timeout)
	t.pending = t.sched.AfterFunc(t.cfg.Timeout, func() {
		t.fire(gen)
	})
}

func (t *ControlsTimer) cancelLocked() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.deadline = time.Time{}
}

// fire runs when a deadline elapses. A stale generation means the deadline
// was superseded or cancelled after the timer had already started
func (t *ControlsTimer) fire(gen uint64) {
	t.mu.Lock()
	if t.closed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.pending = nil
	t.deadline = time.Time{}
	changed := t.visible
	t.visible = false
	t.mu.Unlock()

	if changed {
		debugLog("Controls auto-hidden")
		t.notify(false)
	}
}

func (t *ControlsTimer) notify(visible bool) {
	if t.onChange != nil {
		t.onChange(visible)
	}
}
