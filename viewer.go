package nv

import (
	"math"
	"sync"
)

// ViewerCallbacks are notified after each successful transition. Every
// callback is optional and runs outside the viewer lock
type ViewerCallbacks struct {
	OnImageChange              func(index int, image ImageEntry)
	OnZoomChange               func(zoom float64)
	OnRotationChange           func(rotation int)
	OnFitModeChange            func(mode FitMode)
	OnFullscreenChange         func(fullscreen bool)
	OnSettingsChange           func(settings ViewerSettings)
	OnControlsVisibilityChange func(visible bool)

	// OnUnhandledAction receives dispatched actions the viewer does not know
	OnUnhandledAction func(action Action, ev *KeyEvent)
}

// ViewerOptions configures NewViewer
type ViewerOptions struct {
	Callbacks ViewerCallbacks
	Shortcuts *ShortcutTable // DefaultShortcuts when nil
	Scheduler Scheduler      // RealScheduler when nil
	KeySource KeySource      // Optional; the dispatcher stays inert without one
}

// Viewer holds the state of one viewer session: the image list, the current
// position and the display settings. Transitions at a boundary are silent
// no-ops
type Viewer struct {
	cb ViewerCallbacks

	mu         sync.Mutex
	images     []ImageEntry
	index      int
	settings   ViewerSettings
	fullscreen bool

	dispatcher *KeyDispatcher
	controls   *ControlsTimer
}

// NewViewer creates a viewer over images positioned at startIndex. The index
// is taken as given; callers clamp it. patch is merged over the defaults
func NewViewer(images []ImageEntry, startIndex int, patch SettingsPatch, opts ViewerOptions) *Viewer {
	v := &Viewer{
		cb:       opts.Callbacks,
		images:   append([]ImageEntry{}, images...),
		index:    startIndex,
		settings: patch.Apply(DefaultViewerSettings()),
	}

	v.controls = NewControlsTimer(v.settings.controlsConfig(), opts.Scheduler, func(visible bool) {
		if v.cb.OnControlsVisibilityChange != nil {
			v.cb.OnControlsVisibilityChange(visible)
		}
	})

	table := opts.Shortcuts
	if table == nil {
		table = DefaultShortcuts()
	}
	v.dispatcher = NewKeyDispatcher(table, func(action Action, ev *KeyEvent) {
		// Toggling would otherwise undo the reveal that activity just did
		if action != ActionToggleControls {
			v.controls.OnActivity()
		}
		v.HandleAction(action, ev)
	})
	v.dispatcher.Bind(opts.KeySource, table)

	return v
}

// Dispatcher returns the key dispatcher bound to this viewer
func (v *Viewer) Dispatcher() *KeyDispatcher {
	return v.dispatcher
}

// Controls returns the controls visibility timer
func (v *Viewer) Controls() *ControlsTimer {
	return v.controls
}

// Close detaches key input and stops the controls timer
func (v *Viewer) Close() {
	v.dispatcher.Close()
	v.controls.Close()
}

// Activity records mouse or keyboard activity for the controls timer
func (v *Viewer) Activity() {
	v.controls.OnActivity()
}

// HandleAction executes action. It returns false for actions the viewer does
// not implement, after handing them to OnUnhandledAction
func (v *Viewer) HandleAction(action Action, ev *KeyEvent) bool {
	switch action {
	case ActionNextImage:
		v.Next()
	case ActionPreviousImage:
		v.Previous()
	case ActionFirstImage:
		v.First()
	case ActionLastImage:
		v.Last()

	// Zoom
	case ActionZoomIn:
		v.ZoomIn()
	case ActionZoomOut:
		v.ZoomOut()
	case ActionResetZoom:
		v.ResetZoom()

	// Rotation
	case ActionRotateLeft:
		v.RotateLeft()
	case ActionRotateRight:
		v.RotateRight()
	case ActionResetRotation:
		v.ResetRotation()

	// Display toggles
	case ActionToggleFullscreen:
		v.ToggleFullscreen()
	case ActionToggleControls:
		v.ToggleControls()
	case ActionToggleFitMode:
		v.CycleFitMode()

	default:
		if v.cb.OnUnhandledAction != nil {
			v.cb.OnUnhandledAction(action, ev)
		}
		return false
	}
	return true
}

// Navigation

// Next moves to the following image unless already at the last one
func (v *Viewer) Next() bool {
	v.mu.Lock()
	if v.index < 0 || v.index >= len(v.images)-1 {
		v.mu.Unlock()
		return false
	}
	return v.moveLocked(v.index + 1)
}

// Previous moves to the preceding image unless already at the first one. A
// position past the end moves to the last image
func (v *Viewer) Previous() bool {
	v.mu.Lock()
	if v.index <= 0 || len(v.images) == 0 {
		v.mu.Unlock()
		return false
	}
	if v.index >= len(v.images) {
		return v.moveLocked(len(v.images) - 1)
	}
	return v.moveLocked(v.index - 1)
}

// First jumps to the first image
func (v *Viewer) First() bool {
	return v.JumpTo(0)
}

// Last jumps to the last image
func (v *Viewer) Last() bool {
	v.mu.Lock()
	last := len(v.images) - 1
	v.mu.Unlock()
	return v.JumpTo(last)
}

// JumpTo moves to index. Out of range or unchanged positions are no-ops
func (v *Viewer) JumpTo(index int) bool {
	v.mu.Lock()
	if index < 0 || index >= len(v.images) || index == v.index {
		v.mu.Unlock()
		return false
	}
	return v.moveLocked(index)
}

// moveLocked sets the index, unlocks and notifies
func (v *Viewer) moveLocked(index int) bool {
	v.index = index
	image := v.images[index]
	v.mu.Unlock()

	debugLog("Image [%d/%d] %s", index+1, v.Len(), image.Name)
	if v.cb.OnImageChange != nil {
		v.cb.OnImageChange(index, image)
	}
	return true
}

// ReplaceImages swaps in a re-listed image list. The current image keeps its
// position by ID; when it is gone the index is clamped. OnImageChange fires
// only if the displayed image changed
func (v *Viewer) ReplaceImages(images []ImageEntry) {
	v.mu.Lock()
	var currentID string
	if v.index >= 0 && v.index < len(v.images) {
		currentID = v.images[v.index].ID
	}
	v.images = append([]ImageEntry{}, images...)
	index := IndexOfImage(v.images, currentID)
	if index < 0 {
		index = ClampIndex(v.index, len(v.images))
	}
	v.index = index
	if len(v.images) == 0 || v.images[index].ID == currentID {
		v.mu.Unlock()
		return
	}
	image := v.images[index]
	v.mu.Unlock()

	if v.cb.OnImageChange != nil {
		v.cb.OnImageChange(index, image)
	}
}

// Zoom

// ZoomIn multiplies zoom by ZoomStep up to MaxZoom
func (v *Viewer) ZoomIn() bool {
	return v.updateZoom(func(z float64) (float64, bool) {
		if z >= MaxZoom {
			return z, false
		}
		return math.Min(z*ZoomStep, MaxZoom), true
	})
}

// ZoomOut divides zoom by ZoomStep down to MinZoom
func (v *Viewer) ZoomOut() bool {
	return v.updateZoom(func(z float64) (float64, bool) {
		if z <= MinZoom {
			return z, false
		}
		return math.Max(z/ZoomStep, MinZoom), true
	})
}

// ResetZoom returns to 100%
func (v *Viewer) ResetZoom() bool {
	return v.updateZoom(func(z float64) (float64, bool) {
		return 1.0, z != 1.0
	})
}

func (v *Viewer) updateZoom(step func(float64) (float64, bool)) bool {
	v.mu.Lock()
	zoom, ok := step(v.settings.Zoom)
	if !ok {
		v.mu.Unlock()
		return false
	}
	v.settings.Zoom = zoom
	v.mu.Unlock()

	if v.cb.OnZoomChange != nil {
		v.cb.OnZoomChange(zoom)
	}
	return true
}

// Rotation

// RotateLeft rotates 90 degrees counter-clockwise
func (v *Viewer) RotateLeft() bool {
	return v.updateRotation(func(r int) (int, bool) { return r - RotateStep, true })
}

// RotateRight rotates 90 degrees clockwise
func (v *Viewer) RotateRight() bool {
	return v.updateRotation(func(r int) (int, bool) { return r + RotateStep, true })
}

// ResetRotation returns to 0 degrees
func (v *Viewer) ResetRotation() bool {
	return v.updateRotation(func(r int) (int, bool) { return 0, r != 0 })
}

func (v *Viewer) updateRotation(step func(int) (int, bool)) bool {
	v.mu.Lock()
	rotation, ok := step(v.settings.Rotation)
	if !ok {
		v.mu.Unlock()
		return false
	}
	v.settings.Rotation = rotation
	v.mu.Unlock()

	if v.cb.OnRotationChange != nil {
		v.cb.OnRotationChange(rotation)
	}
	return true
}

// Display toggles

// CycleFitMode advances width -> height -> both -> none -> width
func (v *Viewer) CycleFitMode() FitMode {
	v.mu.Lock()
	mode := v.settings.FitMode.Next()
	v.settings.FitMode = mode
	v.mu.Unlock()

	if v.cb.OnFitModeChange != nil {
		v.cb.OnFitModeChange(mode)
	}
	return mode
}

// ToggleFullscreen flips the fullscreen flag; the host applies it
func (v *Viewer) ToggleFullscreen() bool {
	v.mu.Lock()
	v.fullscreen = !v.fullscreen
	fullscreen := v.fullscreen
	v.mu.Unlock()

	if v.cb.OnFullscreenChange != nil {
		v.cb.OnFullscreenChange(fullscreen)
	}
	return fullscreen
}

// SetFullscreen sets the fullscreen flag without notifying, for hosts that
// start in fullscreen
func (v *Viewer) SetFullscreen(fullscreen bool) {
	v.mu.Lock()
	v.fullscreen = fullscreen
	v.mu.Unlock()
}

// ToggleControls shows or hides the overlay controls immediately
func (v *Viewer) ToggleControls() bool {
	return v.controls.Toggle()
}

// ApplySettings merges a partial override from the host over the current
// settings. Controls changes reconfigure the timer
func (v *Viewer) ApplySettings(patch SettingsPatch) ViewerSettings {
	v.mu.Lock()
	v.settings = patch.Apply(v.settings)
	settings := v.settings
	v.mu.Unlock()

	if patch.touchesControls() {
		v.controls.Reconfigure(settings.controlsConfig())
	}
	if v.cb.OnSettingsChange != nil {
		v.cb.OnSettingsChange(settings)
	}
	return settings
}

// ViewState

// CurrentIndex returns the position in the image list
func (v *Viewer) CurrentIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.index
}

// CurrentImage returns the image at the current position
func (v *Viewer) CurrentImage() (ImageEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.index < 0 || v.index >= len(v.images) {
		return ImageEntry{}, false
	}
	return v.images[v.index], true
}

// Images returns a copy of the image list
func (v *Viewer) Images() []ImageEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]ImageEntry{}, v.images...)
}

// Len returns the number of images
func (v *Viewer) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.images)
}

// Settings returns the current settings
func (v *Viewer) Settings() ViewerSettings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settings
}

// IsFullscreen reports the fullscreen flag
func (v *Viewer) IsFullscreen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fullscreen
}

// ControlsVisible reports whether the overlay controls are shown
func (v *Viewer) ControlsVisible() bool {
	return v.controls.Visible()
}

var _ ViewState = (*Viewer)(nil)
