package nv

import (
	"fmt"
	"sort"
	"strings"
)

// Shortcut is a key chord bound to an action
type Shortcut struct {
	Key   string // Logical key name, e.g. "ArrowRight", " ", "g"
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool

	// AllowDefault leaves the platform default behaviour alone when the chord
	// matches. The zero value suppresses it
	AllowDefault bool

	Description string
}

// chord is the identity used for matching and conflict detection
type chord struct {
	key                    string
	ctrl, shift, alt, meta bool
}

func (s Shortcut) chord() chord {
	return chord{s.Key, s.Ctrl, s.Shift, s.Alt, s.Meta}
}

// SameChord reports whether two shortcuts are the same key and modifiers
func (s Shortcut) SameChord(other Shortcut) bool {
	return s.chord() == other.chord()
}

// Matches reports whether the event is exactly this chord. An empty key never
// matches
func (s Shortcut) Matches(ev *KeyEvent) bool {
	if s.Key == "" || ev == nil {
		return false
	}
	return s.Key == ev.Key &&
		s.Ctrl == ev.Ctrl &&
		s.Shift == ev.Shift &&
		s.Alt == ev.Alt &&
		s.Meta == ev.Meta
}

// String returns the human readable chord label
func (s Shortcut) String() string {
	return Describe(s)
}

// Binding is one row of a ShortcutTable
type Binding struct {
	Action    Action
	Shortcuts []Shortcut
}

// ShortcutTable maps actions to chords in insertion order. Tables are
// immutable once built: every accessor hands out copies, and customisation
// produces a new table
type ShortcutTable struct {
	bindings []Binding
	enabled  bool
}

// NewShortcutTable builds an enabled table from bindings, in the given order.
// A later binding for an action already present replaces the earlier list in
// place
func NewShortcutTable(bindings ...Binding) *ShortcutTable {
	t := &ShortcutTable{enabled: true}
	for _, b := range bindings {
		t.set(b.Action, b.Shortcuts)
	}
	return t
}

// DefaultShortcuts returns the default catalog table
func DefaultShortcuts() *ShortcutTable {
	t := &ShortcutTable{enabled: true}
	for _, def := range actionDefinitions {
		shortcuts := make([]Shortcut, len(def.Shortcuts))
		for i, s := range def.Shortcuts {
			if s.Description == "" {
				s.Description = def.Description
			}
			shortcuts[i] = s
		}
		t.set(def.Action, shortcuts)
	}
	return t
}

// CustomShortcuts returns a table starting from base (DefaultShortcuts when
// nil) in which every action present in overrides has its list replaced
// wholesale. A nil list leaves the base binding alone; an empty non-nil list
// clears it. Actions unknown to base are appended in name order
func CustomShortcuts(overrides map[Action][]Shortcut, base *ShortcutTable) *ShortcutTable {
	if base == nil {
		base = DefaultShortcuts()
	}
	t := base.clone()

	var added []Action
	for action, shortcuts := range overrides {
		if shortcuts == nil {
			continue
		}
		if t.index(action) < 0 {
			added = append(added, action)
			continue
		}
		t.set(action, shortcuts)
	}

	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	for _, action := range added {
		t.set(action, overrides[action])
	}
	return t
}

// WithEnabled returns a copy of the table with the enabled flag set
func (t *ShortcutTable) WithEnabled(enabled bool) *ShortcutTable {
	c := t.clone()
	c.enabled = enabled
	return c
}

// Enabled reports whether the dispatcher should act on this table
func (t *ShortcutTable) Enabled() bool {
	return t != nil && t.enabled
}

// Len returns the number of actions in the table
func (t *ShortcutTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

// Actions returns the actions in insertion order
func (t *ShortcutTable) Actions() []Action {
	if t == nil {
		return nil
	}
	actions := make([]Action, len(t.bindings))
	for i, b := range t.bindings {
		actions[i] = b.Action
	}
	return actions
}

// Shortcuts returns a copy of the chords bound to action
func (t *ShortcutTable) Shortcuts(action Action) ([]Shortcut, bool) {
	if t == nil {
		return nil, false
	}
	i := t.index(action)
	if i < 0 {
		return nil, false
	}
	return append([]Shortcut{}, t.bindings[i].Shortcuts...), true
}

// Bindings returns a copy of every row in insertion order
func (t *ShortcutTable) Bindings() []Binding {
	if t == nil {
		return nil
	}
	return t.clone().bindings
}

// Lookup returns the first action whose chord matches ev, scanning actions in
// table order and each action's chords in list order
func (t *ShortcutTable) Lookup(ev *KeyEvent) (Action, Shortcut, bool) {
	if t == nil {
		return "", Shortcut{}, false
	}
	for _, b := range t.bindings {
		for _, s := range b.Shortcuts {
			if s.Matches(ev) {
				return b.Action, s, true
			}
		}
	}
	return "", Shortcut{}, false
}

func (t *ShortcutTable) index(action Action) int {
	for i, b := range t.bindings {
		if b.Action == action {
			return i
		}
	}
	return -1
}

func (t *ShortcutTable) set(action Action, shortcuts []Shortcut) {
	list := append([]Shortcut{}, shortcuts...)
	if i := t.index(action); i >= 0 {
		t.bindings[i].Shortcuts = list
		return
	}
	t.bindings = append(t.bindings, Binding{Action: action, Shortcuts: list})
}

func (t *ShortcutTable) clone() *ShortcutTable {
	c := &ShortcutTable{enabled: t.enabled, bindings: make([]Binding, len(t.bindings))}
	for i, b := range t.bindings {
		c.bindings[i] = Binding{Action: b.Action, Shortcuts: append([]Shortcut{}, b.Shortcuts...)}
	}
	return c
}

// Conflict is a chord bound to more than one action
type Conflict struct {
	Shortcut Shortcut
	Actions  []Action
}

// String returns a readable description of the conflict
func (c Conflict) String() string {
	names := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		names[i] = string(a)
	}
	return fmt.Sprintf("'%s' is bound to %s", Describe(c.Shortcut), strings.Join(names, ", "))
}

// FindConflicts groups every chord in the table and reports each chord shared
// by two or more distinct actions once, in order of first appearance
func FindConflicts(t *ShortcutTable) []Conflict {
	if t == nil {
		return nil
	}

	type group struct {
		shortcut Shortcut
		actions  []Action
	}
	groups := make(map[chord]*group)
	var order []chord

	for _, b := range t.bindings {
		for _, s := range b.Shortcuts {
			c := s.chord()
			g, ok := groups[c]
			if !ok {
				g = &group{shortcut: s}
				groups[c] = g
				order = append(order, c)
			}
			if !containsAction(g.actions, b.Action) {
				g.actions = append(g.actions, b.Action)
			}
		}
	}

	var conflicts []Conflict
	for _, c := range order {
		g := groups[c]
		if len(g.actions) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{Shortcut: g.shortcut, Actions: g.actions})
	}
	return conflicts
}

func containsAction(actions []Action, a Action) bool {
	for _, existing := range actions {
		if existing == a {
			return true
		}
	}
	return false
}

// Describe renders a chord label such as "Ctrl+Shift+Space"
func Describe(s Shortcut) string {
	var parts []string
	if s.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if s.Shift {
		parts = append(parts, "Shift")
	}
	if s.Alt {
		parts = append(parts, "Alt")
	}
	if s.Meta {
		parts = append(parts, "Cmd")
	}

	key := s.Key
	if key == " " {
		key = "Space"
	}
	parts = append(parts, key)
	return strings.Join(parts, "+")
}

// ParseShortcut parses a chord label like "Ctrl+Shift+Space" or "Ctrl++".
// Modifier names are case-insensitive; "Meta", "Cmd" and "Super" are aliases
func ParseShortcut(label string) (Shortcut, error) {
	if label == "" {
		return Shortcut{}, fmt.Errorf("empty key string")
	}

	var key string
	var mods []string
	switch {
	case label == "+":
		key = "+"
	case strings.HasSuffix(label, "++"):
		key = "+"
		if rest := strings.TrimSuffix(label, "++"); rest != "" {
			mods = strings.Split(rest, "+")
		}
	default:
		parts := strings.Split(label, "+")
		key = parts[len(parts)-1]
		mods = parts[:len(parts)-1]
	}
	if key == "" {
		return Shortcut{}, fmt.Errorf("missing key in %q", label)
	}
	if strings.EqualFold(key, "Space") {
		key = " "
	}

	s := Shortcut{Key: key}
	for _, m := range mods {
		switch strings.ToLower(m) {
		case "ctrl", "control":
			s.Ctrl = true
		case "shift":
			s.Shift = true
		case "alt", "option":
			s.Alt = true
		case "cmd", "meta", "super":
			s.Meta = true
		default:
			return Shortcut{}, fmt.Errorf("unknown modifier: %s", m)
		}
	}
	return s, nil
}
