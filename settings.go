package nv

import (
	"fmt"
	"math"
	"time"
)

// FitMode is the strategy for scaling an image into the viewport
type FitMode int

const (
	FitWidth  FitMode = iota // Scale to viewport width
	FitHeight                // Scale to viewport height
	FitBoth                  // Contain within the viewport
	FitNone                  // Actual size
)

var fitModeNames = []string{"width", "height", "both", "none"}

// String returns the configuration name of the mode
func (m FitMode) String() string {
	if m < FitWidth || m > FitNone {
		return fmt.Sprintf("FitMode(%d)", int(m))
	}
	return fitModeNames[m]
}

// Next returns the mode that follows m in the toggle cycle
func (m FitMode) Next() FitMode {
	return (m + 1) % FitMode(len(fitModeNames))
}

// ParseFitMode parses a configuration name
func ParseFitMode(s string) (FitMode, error) {
	for i, name := range fitModeNames {
		if name == s {
			return FitMode(i), nil
		}
	}
	return FitBoth, fmt.Errorf("unknown fit mode: %q", s)
}

// Zoom bounds and step
const (
	MinZoom    = 0.1
	MaxZoom    = 5.0
	ZoomStep   = 1.2
	RotateStep = 90
)

// Default controls timeout
const defaultControlsTimeout = 3 * time.Second

// ViewerSettings is the display state of a viewer session
type ViewerSettings struct {
	FitMode          FitMode
	Zoom             float64
	Rotation         int // Degrees, interpreted mod 360
	BackgroundColor  string
	ShowControls     bool
	AutoHideControls bool
	ControlsTimeout  time.Duration
}

// DefaultViewerSettings returns the settings a session starts from
func DefaultViewerSettings() ViewerSettings {
	return ViewerSettings{
		FitMode:          FitBoth,
		Zoom:             1.0,
		Rotation:         0,
		BackgroundColor:  "#000000",
		ShowControls:     true,
		AutoHideControls: true,
		ControlsTimeout:  defaultControlsTimeout,
	}
}

// NormalizedRotation returns the rotation in [0, 360)
func (s ViewerSettings) NormalizedRotation() int {
	r := s.Rotation % 360
	if r < 0 {
		r += 360
	}
	return r
}

// controlsConfig extracts the part of the settings the controls timer uses
func (s ViewerSettings) controlsConfig() ControlsConfig {
	return ControlsConfig{
		ShowControls: s.ShowControls,
		AutoHide:     s.AutoHideControls,
		Timeout:      s.ControlsTimeout,
	}
}

// SettingsPatch is a partial override. Nil fields are left unchanged
type SettingsPatch struct {
	FitMode          *FitMode
	Zoom             *float64
	Rotation         *int
	BackgroundColor  *string
	ShowControls     *bool
	AutoHideControls *bool
	ControlsTimeout  *time.Duration
}

// Apply returns s with the patch shallow-merged over it. Zoom is clamped
func (p SettingsPatch) Apply(s ViewerSettings) ViewerSettings {
	if p.FitMode != nil {
		s.FitMode = *p.FitMode
	}
	if p.Zoom != nil {
		s.Zoom = clampZoom(*p.Zoom)
	}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.ShowControls != nil {
		s.ShowControls = *p.ShowControls
	}
	if p.AutoHideControls != nil {
		s.AutoHideControls = *p.AutoHideControls
	}
	if p.ControlsTimeout != nil {
		s.ControlsTimeout = *p.ControlsTimeout
	}
	return s
}

// touchesControls reports whether applying p may change the controls timer
func (p SettingsPatch) touchesControls() bool {
	return p.ShowControls != nil || p.AutoHideControls != nil || p.ControlsTimeout != nil
}

// PatchFrom returns a patch that sets every field to the value in s
func PatchFrom(s ViewerSettings) SettingsPatch {
	return SettingsPatch{
		FitMode:          &s.FitMode,
		Zoom:             &s.Zoom,
		Rotation:         &s.Rotation,
		BackgroundColor:  &s.BackgroundColor,
		ShowControls:     &s.ShowControls,
		AutoHideControls: &s.AutoHideControls,
		ControlsTimeout:  &s.ControlsTimeout,
	}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1.0
	}
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
