package types

import "fmt"

// ActionType names a primitive UI action the model may request. The
// executor validates the name against the supported set at execution
// time, so an unrecognized name coming off the wire is tolerated during
// parsing and rejected with a descriptive failure later. That keeps a
// hallucinated action from corrupting the rest of the response.
type ActionType string

const (
	ActionClick       ActionType = "click"
	ActionDoubleClick ActionType = "double_click"
	ActionScroll      ActionType = "scroll"
	ActionTypeText    ActionType = "type"
	ActionKeypress    ActionType = "keypress"
	ActionWait        ActionType = "wait"
	ActionScreenshot  ActionType = "screenshot"
	ActionMove        ActionType = "move"
	ActionDrag        ActionType = "drag"
	ActionBack        ActionType = "back"
	ActionGoto        ActionType = "goto"
)

// MouseButton identifies which button a click uses.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
	ButtonWheel  MouseButton = "wheel"
)

// Point is a viewport coordinate pair.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Action is the tagged variant describing one UI action. Each variant
// carries only the fields its semantics need; zero-valued fields are
// omitted from the wire form.
type Action struct {
	Type ActionType `json:"type"`

	// X and Y apply to click, double_click, scroll, and move.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// Button applies to click. Empty means left.
	Button MouseButton `json:"button,omitempty"`

	// DeltaX and DeltaY apply to scroll.
	DeltaX int `json:"delta_x,omitempty"`
	DeltaY int `json:"delta_y,omitempty"`

	// Text applies to type.
	Text string `json:"text,omitempty"`

	// Keys applies to keypress; order is the order keys are pressed.
	Keys []string `json:"keys,omitempty"`

	// Ms applies to wait. Zero means the executor default.
	Ms int `json:"ms,omitempty"`

	// Path applies to drag; the pointer presses at the first point and
	// releases at the last.
	Path []Point `json:"path,omitempty"`

	// URL applies to goto.
	URL string `json:"url,omitempty"`
}

var supportedActions = map[ActionType]bool{
	ActionClick:       true,
	ActionDoubleClick: true,
	ActionScroll:      true,
	ActionTypeText:    true,
	ActionKeypress:    true,
	ActionWait:        true,
	ActionScreenshot:  true,
	ActionMove:        true,
	ActionDrag:        true,
	ActionBack:        true,
	ActionGoto:        true,
}

// Supported reports whether the action name belongs to the closed action
// set. Environment restrictions (goto and back being browser-only) are
// enforced by the executor, not here.
func (a Action) Supported() bool {
	return supportedActions[a.Type]
}

// String renders a short human-readable description for transcripts and logs.
func (a Action) String() string {
	switch a.Type {
	case ActionClick:
		button := a.Button
		if button == "" {
			button = ButtonLeft
		}
		return fmt.Sprintf("click(%d, %d, %s)", a.X, a.Y, button)
	case ActionDoubleClick:
		return fmt.Sprintf("double_click(%d, %d)", a.X, a.Y)
	case ActionScroll:
		return fmt.Sprintf("scroll(%d, %d, dx=%d, dy=%d)", a.X, a.Y, a.DeltaX, a.DeltaY)
	case ActionTypeText:
		return fmt.Sprintf("type(%q)", a.Text)
	case ActionKeypress:
		return fmt.Sprintf("keypress(%v)", a.Keys)
	case ActionWait:
		return fmt.Sprintf("wait(%dms)", a.Ms)
	case ActionScreenshot:
		return "screenshot()"
	case ActionMove:
		return fmt.Sprintf("move(%d, %d)", a.X, a.Y)
	case ActionDrag:
		return fmt.Sprintf("drag(%d points)", len(a.Path))
	case ActionBack:
		return "back()"
	case ActionGoto:
		return fmt.Sprintf("goto(%s)", a.URL)
	default:
		return fmt.Sprintf("%s(?)", string(a.Type))
	}
}
