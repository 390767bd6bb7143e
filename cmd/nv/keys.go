package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nekomimist/nv"
)

// namedKeys are keys whose event name does not depend on Shift
var namedKeys = map[ebiten.Key]string{
	ebiten.KeySpace:      " ",
	ebiten.KeyEnter:      "Enter",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeyTab:        "Tab",
	ebiten.KeyBackspace:  "Backspace",
	ebiten.KeyDelete:     "Delete",
	ebiten.KeyInsert:     "Insert",
	ebiten.KeyHome:       "Home",
	ebiten.KeyEnd:        "End",
	ebiten.KeyPageUp:     "PageUp",
	ebiten.KeyPageDown:   "PageDown",
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",

	ebiten.KeyF1: "F1", ebiten.KeyF2: "F2", ebiten.KeyF3: "F3", ebiten.KeyF4: "F4",
	ebiten.KeyF5: "F5", ebiten.KeyF6: "F6", ebiten.KeyF7: "F7", ebiten.KeyF8: "F8",
	ebiten.KeyF9: "F9", ebiten.KeyF10: "F10", ebiten.KeyF11: "F11", ebiten.KeyF12: "F12",

	// Numpad
	ebiten.KeyNumpad0: "0", ebiten.KeyNumpad1: "1", ebiten.KeyNumpad2: "2",
	ebiten.KeyNumpad3: "3", ebiten.KeyNumpad4: "4", ebiten.KeyNumpad5: "5",
	ebiten.KeyNumpad6: "6", ebiten.KeyNumpad7: "7", ebiten.KeyNumpad8: "8",
	ebiten.KeyNumpad9: "9",
	ebiten.KeyNumpadAdd:      "+",
	ebiten.KeyNumpadSubtract: "-",
	ebiten.KeyNumpadMultiply: "*",
	ebiten.KeyNumpadDivide:   "/",
	ebiten.KeyNumpadDecimal:  ".",
	ebiten.KeyNumpadEnter:    "Enter",
}

// printableKeys maps keys to their unshifted and shifted characters on a US
// layout
var printableKeys = map[ebiten.Key][2]string{
	// Letters
	ebiten.KeyA: {"a", "A"}, ebiten.KeyB: {"b", "B"}, ebiten.KeyC: {"c", "C"}, ebiten.KeyD: {"d", "D"},
	ebiten.KeyE: {"e", "E"}, ebiten.KeyF: {"f", "F"}, ebiten.KeyG: {"g", "G"}, ebiten.KeyH: {"h", "H"},
	ebiten.KeyI: {"i", "I"}, ebiten.KeyJ: {"j", "J"}, ebiten.KeyK: {"k", "K"}, ebiten.KeyL: {"l", "L"},
	ebiten.KeyM: {"m", "M"}, ebiten.KeyN: {"n", "N"}, ebiten.KeyO: {"o", "O"}, ebiten.KeyP: {"p", "P"},
	ebiten.KeyQ: {"q", "Q"}, ebiten.KeyR: {"r", "R"}, ebiten.KeyS: {"s", "S"}, ebiten.KeyT: {"t", "T"},
	ebiten.KeyU: {"u", "U"}, ebiten.KeyV: {"v", "V"}, ebiten.KeyW: {"w", "W"}, ebiten.KeyX: {"x", "X"},
	ebiten.KeyY: {"y", "Y"}, ebiten.KeyZ: {"z", "Z"},

	// Numbers
	ebiten.Key0: {"0", ")"}, ebiten.Key1: {"1", "!"}, ebiten.Key2: {"2", "@"}, ebiten.Key3: {"3", "#"},
	ebiten.Key4: {"4", "$"}, ebiten.Key5: {"5", "%"}, ebiten.Key6: {"6", "^"}, ebiten.Key7: {"7", "&"},
	ebiten.Key8: {"8", "*"}, ebiten.Key9: {"9", "("},

	// Punctuation
	ebiten.KeyMinus:        {"-", "_"},
	ebiten.KeyEqual:        {"=", "+"},
	ebiten.KeyBracketLeft:  {"[", "{"},
	ebiten.KeyBracketRight: {"]", "}"},
	ebiten.KeyBackslash:    {"\\", "|"},
	ebiten.KeySemicolon:    {";", ":"},
	ebiten.KeyQuote:        {"'", "\""},
	ebiten.KeyBackquote:    {"`", "~"},
	ebiten.KeyComma:        {",", "<"},
	ebiten.KeyPeriod:       {".", ">"},
	ebiten.KeySlash:        {"/", "?"},
}

// keyName returns the event key name for k, or false for modifiers and keys
// the viewer never binds
func keyName(k ebiten.Key, shift bool) (string, bool) {
	if name, ok := namedKeys[k]; ok {
		return name, true
	}
	if chars, ok := printableKeys[k]; ok {
		if shift {
			return chars[1], true
		}
		return chars[0], true
	}
	return "", false
}

// modifiers is the modifier state accompanying a key press
type modifiers struct {
	Ctrl, Shift, Alt, Meta bool
}

func currentModifiers() modifiers {
	return modifiers{
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Meta:  ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}

// translateKeys converts the keys pressed this frame into key events
func translateKeys(keys []ebiten.Key, mods modifiers) []*nv.KeyEvent {
	events := make([]*nv.KeyEvent, 0, len(keys))
	for _, k := range keys {
		name, ok := keyName(k, mods.Shift)
		if !ok {
			continue
		}
		events = append(events, &nv.KeyEvent{
			Key:   name,
			Ctrl:  mods.Ctrl,
			Shift: mods.Shift,
			Alt:   mods.Alt,
			Meta:  mods.Meta,
		})
	}
	return events
}

// pollKeyEvents returns the key events of the current frame
func pollKeyEvents(buf []ebiten.Key) ([]*nv.KeyEvent, []ebiten.Key) {
	buf = inpututil.AppendJustPressedKeys(buf[:0])
	return translateKeys(buf, currentModifiers()), buf
}
