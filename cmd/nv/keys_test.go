package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/nekomimist/nv"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		key      ebiten.Key
		shift    bool
		expected string
		ok       bool
	}{
		{ebiten.KeySpace, false, " ", true},
		{ebiten.KeySpace, true, " ", true},
		{ebiten.KeyArrowRight, false, "ArrowRight", true},
		{ebiten.KeyF11, false, "F11", true},
		{ebiten.KeyG, false, "g", true},
		{ebiten.KeyG, true, "G", true},
		{ebiten.KeyEqual, false, "=", true},
		{ebiten.KeyEqual, true, "+", true},
		{ebiten.KeyNumpadAdd, false, "+", true},
		{ebiten.Key0, false, "0", true},
		{ebiten.KeyShiftLeft, true, "", false},
		{ebiten.KeyControlLeft, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			name, ok := keyName(tt.key, tt.shift)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestTranslateKeys(t *testing.T) {
	events := translateKeys(
		[]ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyR, ebiten.KeySpace},
		modifiers{Shift: true},
	)

	assert.Equal(t, []*nv.KeyEvent{
		{Key: "R", Shift: true},
		{Key: " ", Shift: true},
	}, events)

	events = translateKeys([]ebiten.Key{ebiten.KeyR}, modifiers{Ctrl: true})
	assert.Equal(t, []*nv.KeyEvent{{Key: "r", Ctrl: true}}, events)

	assert.Empty(t, translateKeys(nil, modifiers{}))
}

func TestTranslatedKeysMatchDefaultShortcuts(t *testing.T) {
	table := nv.DefaultShortcuts()
	tests := []struct {
		key      ebiten.Key
		mods     modifiers
		expected nv.Action
	}{
		{ebiten.KeySpace, modifiers{}, nv.ActionNextImage},
		{ebiten.KeySpace, modifiers{Shift: true}, nv.ActionPreviousImage},
		{ebiten.KeyG, modifiers{Shift: true}, nv.ActionLastImage},
		{ebiten.KeyEqual, modifiers{Shift: true}, nv.ActionZoomIn},
		{ebiten.KeyR, modifiers{Shift: true}, nv.ActionRotateLeft},
		{ebiten.KeyR, modifiers{Ctrl: true}, nv.ActionResetRotation},
		{ebiten.KeyF11, modifiers{}, nv.ActionToggleFullscreen},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			events := translateKeys([]ebiten.Key{tt.key}, tt.mods)
			if assert.Len(t, events, 1) {
				action, _, ok := table.Lookup(events[0])
				assert.True(t, ok)
				assert.Equal(t, tt.expected, action)
			}
		})
	}
}
