package nv

import (
	"sync"
)

// KeyEvent is a key chord delivered by the host UI
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool

	defaultPrevented bool
}

// PreventDefault marks the event so the host skips its own handling
func (e *KeyEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called
func (e *KeyEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// KeySource is a focusable surface that emits key events. Subscribe returns a
// function that removes the subscription
type KeySource interface {
	Subscribe(handler func(*KeyEvent)) (unsubscribe func())
}

// ActionHandler receives the matched action and the raw event
type ActionHandler func(action Action, ev *KeyEvent)

// KeyDispatcher turns key events into actions using a ShortcutTable. It is
// attached to at most one KeySource at a time
type KeyDispatcher struct {
	onAction ActionHandler

	mu          sync.Mutex
	table       *ShortcutTable
	source      KeySource
	unsubscribe func()
}

// NewKeyDispatcher creates a dispatcher delivering matches to onAction
func NewKeyDispatcher(table *ShortcutTable, onAction ActionHandler) *KeyDispatcher {
	return &KeyDispatcher{
		table:    table,
		onAction: onAction,
	}
}

// Bind attaches the dispatcher to source with table, tearing down any previous
// attachment first. A nil source leaves the dispatcher inert
func (d *KeyDispatcher) Bind(source KeySource, table *ShortcutTable) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.detachLocked()
	d.table = table
	d.source = source
	if source == nil {
		return
	}
	d.unsubscribe = source.Subscribe(func(ev *KeyEvent) {
		d.Dispatch(ev)
	})
}

// SetShortcuts swaps the table, re-binding to the current source
func (d *KeyDispatcher) SetShortcuts(table *ShortcutTable) {
	d.mu.Lock()
	source := d.source
	d.mu.Unlock()
	d.Bind(source, table)
}

// Shortcuts returns the table in use
func (d *KeyDispatcher) Shortcuts() *ShortcutTable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.table
}

// Close detaches from the current source. It is safe to call more than once
func (d *KeyDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detachLocked()
	d.source = nil
}

func (d *KeyDispatcher) detachLocked() {
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

// Dispatch processes one event. It returns true if an action matched
func (d *KeyDispatcher) Dispatch(ev *KeyEvent) bool {
	if ev == nil {
		return false
	}

	d.mu.Lock()
	table := d.table
	d.mu.Unlock()

	if !table.Enabled() {
		return false
	}

	action, shortcut, ok := table.Lookup(ev)
	if !ok {
		return false
	}

	if !shortcut.AllowDefault {
		ev.PreventDefault()
	}

	debugLog("Key %s -> %s", Describe(Shortcut{Key: ev.Key, Ctrl: ev.Ctrl, Shift: ev.Shift, Alt: ev.Alt, Meta: ev.Meta}), action)
	if d.onAction != nil {
		d.onAction(action, ev)
	}
	return true
}

// KeyEventFeed is an in-process KeySource. Hosts push translated events
// through Emit; every current subscriber receives them in subscription order
type KeyEventFeed struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(*KeyEvent)
	order    []int
}

// NewKeyEventFeed creates an empty feed
func NewKeyEventFeed() *KeyEventFeed {
	return &KeyEventFeed{handlers: make(map[int]func(*KeyEvent))}
}

// Subscribe implements KeySource
func (f *KeyEventFeed) Subscribe(handler func(*KeyEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	f.order = append(f.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.handlers, id)
			for i, existing := range f.order {
				if existing == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions
func (f *KeyEventFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// Emit delivers ev to every subscriber
func (f *KeyEventFeed) Emit(ev *KeyEvent) {
	f.mu.Lock()
	handlers := make([]func(*KeyEvent), 0, len(f.order))
	for _, id := range f.order {
		handlers = append(handlers, f.handlers[id])
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
