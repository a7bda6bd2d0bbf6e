package agent

import (
	"time"

	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/types"
)

// ExecutionResult is what one executed action yields: a fresh screenshot
// for the model's next decision, and the page URL when the surface is a
// browser.
type ExecutionResult struct {
	Screenshot []byte
	CurrentURL string
}

// Executor maps a model-issued action onto the Computer's primitives.
// It validates the action against the computer's environment, dispatches
// it, and captures a screenshot afterwards. Capture happens once per
// action uniformly, including for the screenshot action itself.
type Executor struct {
	comp computer.Computer
}

// NewExecutor creates an executor bound to one computer.
func NewExecutor(comp computer.Computer) *Executor {
	return &Executor{comp: comp}
}

// Execute performs one action and returns the resulting screen state.
//
// An action outside the supported set, or one the environment cannot
// perform, returns *UnsupportedActionError without touching the
// computer. Any backend failure returns *ActionExecutionError; the
// screen state is then unverified and the error is surfaced rather than
// swallowed, because the model needs the failure described to
// self-correct.
func (e *Executor) Execute(action types.Action) (*ExecutionResult, error) {
	if !action.Supported() {
		return nil, &UnsupportedActionError{Action: action, Environment: e.comp.Environment()}
	}

	browser, isBrowser := e.comp.(computer.BrowserComputer)
	if (action.Type == types.ActionGoto || action.Type == types.ActionBack) &&
		(!isBrowser || e.comp.Environment() != computer.EnvironmentBrowser) {
		return nil, &UnsupportedActionError{Action: action, Environment: e.comp.Environment()}
	}

	var err error
	switch action.Type {
	case types.ActionClick:
		button := action.Button
		if button == "" {
			button = types.ButtonLeft
		}
		err = e.comp.Click(action.X, action.Y, button)
	case types.ActionDoubleClick:
		err = e.comp.DoubleClick(action.X, action.Y)
	case types.ActionScroll:
		err = e.comp.Scroll(action.X, action.Y, action.DeltaX, action.DeltaY)
	case types.ActionTypeText:
		err = e.comp.Type(action.Text)
	case types.ActionKeypress:
		err = e.comp.Keypress(action.Keys)
	case types.ActionWait:
		err = e.comp.Wait(time.Duration(action.Ms) * time.Millisecond)
	case types.ActionScreenshot:
		// The uniform capture below is the result.
	case types.ActionMove:
		err = e.comp.Move(action.X, action.Y)
	case types.ActionDrag:
		err = e.comp.Drag(action.Path)
	case types.ActionBack:
		err = browser.Back()
	case types.ActionGoto:
		err = browser.Goto(action.URL)
	}
	if err != nil {
		return nil, &ActionExecutionError{Action: action, Cause: err}
	}

	screenshot, err := e.comp.Screenshot()
	if err != nil {
		return nil, &ActionExecutionError{Action: action, Cause: err}
	}

	result := &ExecutionResult{Screenshot: screenshot}
	if isBrowser {
		result.CurrentURL = browser.CurrentURL()
	}
	return result, nil
}
