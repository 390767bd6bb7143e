package nv

// Action names a semantic viewer operation. The set is open: hosts may bind
// their own actions and receive them through the dispatcher callback
type Action string

// Known actions
const (
	ActionNextImage        Action = "nextImage"
	ActionPreviousImage    Action = "previousImage"
	ActionFirstImage       Action = "firstImage"
	ActionLastImage        Action = "lastImage"
	ActionZoomIn           Action = "zoomIn"
	ActionZoomOut          Action = "zoomOut"
	ActionResetZoom        Action = "resetZoom"
	ActionRotateLeft       Action = "rotateLeft"
	ActionRotateRight      Action = "rotateRight"
	ActionResetRotation    Action = "resetRotation"
	ActionToggleFullscreen Action = "toggleFullscreen"
	ActionToggleControls   Action = "toggleControls"
	ActionToggleFitMode    Action = "toggleFitMode"
)

// ActionDefinition defines an action with its default shortcuts and description
type ActionDefinition struct {
	Action      Action
	Shortcuts   []Shortcut
	Description string
}

// actionDefinitions is the default catalog, in dispatch order
var actionDefinitions = []ActionDefinition{
	{ActionNextImage, []Shortcut{{Key: "ArrowRight"}, {Key: " "}, {Key: "j"}}, "Next image"},
	{ActionPreviousImage, []Shortcut{{Key: "ArrowLeft"}, {Key: " ", Shift: true}, {Key: "k"}}, "Previous image"},
	{ActionFirstImage, []Shortcut{{Key: "Home"}, {Key: "g"}}, "Jump to first image"},
	{ActionLastImage, []Shortcut{{Key: "End"}, {Key: "G", Shift: true}}, "Jump to last image"},

	// Zoom
	{ActionZoomIn, []Shortcut{{Key: "+"}, {Key: "+", Shift: true}, {Key: "="}}, "Zoom in"},
	{ActionZoomOut, []Shortcut{{Key: "-"}}, "Zoom out"},
	{ActionResetZoom, []Shortcut{{Key: "0"}}, "Reset to 100% zoom"},

	// Rotation
	{ActionRotateLeft, []Shortcut{{Key: "R", Shift: true}}, "Rotate left 90 degrees"},
	{ActionRotateRight, []Shortcut{{Key: "r"}}, "Rotate right 90 degrees"},
	{ActionResetRotation, []Shortcut{{Key: "r", Ctrl: true}}, "Reset rotation"},

	// Display toggles
	{ActionToggleFullscreen, []Shortcut{{Key: "f"}, {Key: "F11"}}, "Toggle fullscreen"},
	{ActionToggleControls, []Shortcut{{Key: "c"}}, "Show/hide controls"},
	{ActionToggleFitMode, []Shortcut{{Key: "m"}}, "Cycle fit mode (width/height/both/none)"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[Action]string {
	descriptions := make(map[Action]string, len(actionDefinitions))
	for _, def := range actionDefinitions {
		descriptions[def.Action] = def.Description
	}
	return descriptions
}

// KnownActions returns the catalog actions in dispatch order
func KnownActions() []Action {
	actions := make([]Action, 0, len(actionDefinitions))
	for _, def := range actionDefinitions {
		actions = append(actions, def.Action)
	}
	return actions
}

// IsKnownAction reports whether a is part of the default catalog
func IsKnownAction(a Action) bool {
	for _, def := range actionDefinitions {
		if def.Action == a {
			return true
		}
	}
	return false
}
