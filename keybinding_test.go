package nv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actionRecorder struct {
	actions []Action
}

func (r *actionRecorder) handle(action Action, _ *KeyEvent) {
	r.actions = append(r.actions, action)
}

func TestKeyDispatcherDispatch(t *testing.T) {
	rec := &actionRecorder{}
	d := NewKeyDispatcher(DefaultShortcuts(), rec.handle)

	ev := &KeyEvent{Key: "ArrowRight"}
	assert.True(t, d.Dispatch(ev))
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []Action{ActionNextImage}, rec.actions)

	unbound := &KeyEvent{Key: "x"}
	assert.False(t, d.Dispatch(unbound))
	assert.False(t, unbound.DefaultPrevented(), "unmatched keys keep their default")

	assert.False(t, d.Dispatch(nil))
	assert.Len(t, rec.actions, 1)
}

func TestKeyDispatcherExactModifiers(t *testing.T) {
	table := NewShortcutTable(
		Binding{Action: "ctrlPlus", Shortcuts: []Shortcut{{Key: "+", Ctrl: true}}},
		Binding{Action: "shiftPlus", Shortcuts: []Shortcut{{Key: "+", Shift: true}}},
	)
	rec := &actionRecorder{}
	d := NewKeyDispatcher(table, rec.handle)

	d.Dispatch(&KeyEvent{Key: "+", Shift: true})
	d.Dispatch(&KeyEvent{Key: "+", Ctrl: true})
	d.Dispatch(&KeyEvent{Key: "+", Ctrl: true, Shift: true})
	d.Dispatch(&KeyEvent{Key: "+"})

	assert.Equal(t, []Action{"shiftPlus", "ctrlPlus"}, rec.actions)
}

func TestKeyDispatcherDisabledTable(t *testing.T) {
	rec := &actionRecorder{}
	d := NewKeyDispatcher(DefaultShortcuts().WithEnabled(false), rec.handle)

	ev := &KeyEvent{Key: "ArrowRight"}
	assert.False(t, d.Dispatch(ev))
	assert.False(t, ev.DefaultPrevented())
	assert.Empty(t, rec.actions)

	nilTable := NewKeyDispatcher(nil, rec.handle)
	assert.False(t, nilTable.Dispatch(&KeyEvent{Key: "ArrowRight"}))
	assert.Empty(t, rec.actions)
}

func TestKeyDispatcherAllowDefault(t *testing.T) {
	table := NewShortcutTable(Binding{Action: "copy", Shortcuts: []Shortcut{{Key: "c", Ctrl: true, AllowDefault: true}}})
	rec := &actionRecorder{}
	d := NewKeyDispatcher(table, rec.handle)

	ev := &KeyEvent{Key: "c", Ctrl: true}
	assert.True(t, d.Dispatch(ev))
	assert.False(t, ev.DefaultPrevented())
	assert.Equal(t, []Action{"copy"}, rec.actions)
}

func TestKeyDispatcherBind(t *testing.T) {
	t.Run("DeliversFromSource", func(t *testing.T) {
		feed := NewKeyEventFeed()
		rec := &actionRecorder{}
		d := NewKeyDispatcher(nil, rec.handle)

		d.Bind(feed, DefaultShortcuts())
		feed.Emit(&KeyEvent{Key: "Home"})
		assert.Equal(t, []Action{ActionFirstImage}, rec.actions)
	})

	t.Run("RebindTearsDownPrevious", func(t *testing.T) {
		first := NewKeyEventFeed()
		second := NewKeyEventFeed()
		rec := &actionRecorder{}
		d := NewKeyDispatcher(nil, rec.handle)

		d.Bind(first, DefaultShortcuts())
		d.Bind(second, DefaultShortcuts())
		assert.Zero(t, first.Subscribers())
		assert.Equal(t, 1, second.Subscribers())

		first.Emit(&KeyEvent{Key: "Home"})
		assert.Empty(t, rec.actions)
		second.Emit(&KeyEvent{Key: "Home"})
		assert.Equal(t, []Action{ActionFirstImage}, rec.actions)
	})

	t.Run("SameSourceNoDoubleDelivery", func(t *testing.T) {
		feed := NewKeyEventFeed()
		rec := &actionRecorder{}
		d := NewKeyDispatcher(nil, rec.handle)

		d.Bind(feed, DefaultShortcuts())
		d.SetShortcuts(DefaultShortcuts())
		d.Bind(feed, DefaultShortcuts())
		require.Equal(t, 1, feed.Subscribers())

		feed.Emit(&KeyEvent{Key: "End"})
		assert.Equal(t, []Action{ActionLastImage}, rec.actions)
	})

	t.Run("SetShortcutsSwapsTable", func(t *testing.T) {
		feed := NewKeyEventFeed()
		rec := &actionRecorder{}
		d := NewKeyDispatcher(nil, rec.handle)
		d.Bind(feed, DefaultShortcuts())

		custom := CustomShortcuts(map[Action][]Shortcut{ActionFirstImage: {{Key: "a"}}}, nil)
		d.SetShortcuts(custom)
		assert.Same(t, custom, d.Shortcuts())

		feed.Emit(&KeyEvent{Key: "Home"})
		feed.Emit(&KeyEvent{Key: "a"})
		assert.Equal(t, []Action{ActionFirstImage}, rec.actions)
	})

	t.Run("NilSourceIsInert", func(t *testing.T) {
		feed := NewKeyEventFeed()
		rec := &actionRecorder{}
		d := NewKeyDispatcher(nil, rec.handle)

		d.Bind(feed, DefaultShortcuts())
		d.Bind(nil, DefaultShortcuts())
		assert.Zero(t, feed.Subscribers())
		feed.Emit(&KeyEvent{Key: "Home"})
		assert.Empty(t, rec.actions)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		feed := NewKeyEventFeed()
		rec := &actionRecorder{}
		d := NewKeyDispatcher(nil, rec.handle)

		d.Bind(feed, DefaultShortcuts())
		d.Close()
		d.Close()
		assert.Zero(t, feed.Subscribers())
		feed.Emit(&KeyEvent{Key: "Home"})
		assert.Empty(t, rec.actions)
	})
}

func TestKeyEventFeed(t *testing.T) {
	feed := NewKeyEventFeed()
	var got []string

	unsubA := feed.Subscribe(func(ev *KeyEvent) { got = append(got, "a:"+ev.Key) })
	feed.Subscribe(func(ev *KeyEvent) { got = append(got, "b:"+ev.Key) })
	assert.Equal(t, 2, feed.Subscribers())

	feed.Emit(&KeyEvent{Key: "x"})
	unsubA()
	unsubA()
	feed.Emit(&KeyEvent{Key: "y"})

	assert.Equal(t, []string{"a:x", "b:x", "b:y"}, got)
	assert.Equal(t, 1, feed.Subscribers())
}
