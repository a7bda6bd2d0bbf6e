package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/types"
)

func TestExecuteDispatchesPrimitives(t *testing.T) {
	tests := []struct {
		name   string
		action types.Action
		want   []string
	}{
		{
			name:   "click with explicit button",
			action: types.Action{Type: types.ActionClick, X: 10, Y: 20, Button: types.ButtonRight},
			want:   []string{"click(10,20,right)", "screenshot"},
		},
		{
			name:   "click defaults to left button",
			action: types.Action{Type: types.ActionClick, X: 10, Y: 20},
			want:   []string{"click(10,20,left)", "screenshot"},
		},
		{
			name:   "double click",
			action: types.Action{Type: types.ActionDoubleClick, X: 5, Y: 6},
			want:   []string{"double_click(5,6)", "screenshot"},
		},
		{
			name:   "scroll",
			action: types.Action{Type: types.ActionScroll, X: 1, Y: 2, DeltaX: 0, DeltaY: 120},
			want:   []string{"scroll(1,2,0,120)", "screenshot"},
		},
		{
			name:   "type",
			action: types.Action{Type: types.ActionTypeText, Text: "hello"},
			want:   []string{"type(hello)", "screenshot"},
		},
		{
			name:   "keypress",
			action: types.Action{Type: types.ActionKeypress, Keys: []string{"ctrl", "a"}},
			want:   []string{"keypress(ctrl+a)", "screenshot"},
		},
		{
			name:   "screenshot is just a capture",
			action: types.Action{Type: types.ActionScreenshot},
			want:   []string{"screenshot"},
		},
		{
			name:   "move",
			action: types.Action{Type: types.ActionMove, X: 3, Y: 4},
			want:   []string{"move(3,4)", "screenshot"},
		},
		{
			name:   "drag",
			action: types.Action{Type: types.ActionDrag, Path: []types.Point{{X: 0, Y: 0}, {X: 9, Y: 9}}},
			want:   []string{"drag(2)", "screenshot"},
		},
		{
			name:   "back",
			action: types.Action{Type: types.ActionBack},
			want:   []string{"back", "screenshot"},
		},
		{
			name:   "goto",
			action: types.Action{Type: types.ActionGoto, URL: "http://example.com"},
			want:   []string{"goto(http://example.com)", "screenshot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := newFakeComputer()
			exec := NewExecutor(comp)

			result, err := exec.Execute(tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, comp.calls)
			assert.Equal(t, []byte("png-bytes"), result.Screenshot)
		})
	}
}

func TestExecuteReportsCurrentURL(t *testing.T) {
	comp := newFakeComputer()
	exec := NewExecutor(comp)

	result, err := exec.Execute(types.Action{Type: types.ActionGoto, URL: "http://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", result.CurrentURL)
}

func TestExecuteUnknownAction(t *testing.T) {
	comp := newFakeComputer()
	exec := NewExecutor(comp)

	_, err := exec.Execute(types.Action{Type: "submit_form"})

	var unsupported *UnsupportedActionError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Error(), "submit_form")
	assert.Empty(t, comp.calls, "rejected actions must not touch the computer")
}

func TestExecuteNavigationNeedsBrowser(t *testing.T) {
	comp := newFakeComputer()
	comp.env = computer.EnvironmentLinux
	exec := NewExecutor(comp)

	for _, action := range []types.Action{
		{Type: types.ActionGoto, URL: "http://example.com"},
		{Type: types.ActionBack},
	} {
		_, err := exec.Execute(action)
		var unsupported *UnsupportedActionError
		require.ErrorAs(t, err, &unsupported, "action %s", action.Type)
	}
	assert.Empty(t, comp.calls)
}

func TestExecuteWrapsBackendFailure(t *testing.T) {
	comp := newFakeComputer()
	comp.failOn = "type(boom)"
	exec := NewExecutor(comp)

	_, err := exec.Execute(types.Action{Type: types.ActionTypeText, Text: "boom"})

	var execErr *ActionExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, types.ActionTypeText, execErr.Action.Type)
	assert.ErrorContains(t, execErr.Cause, "induced")
}

func TestExecuteWrapsScreenshotFailure(t *testing.T) {
	comp := newFakeComputer()
	comp.failOn = "screenshot"
	exec := NewExecutor(comp)

	_, err := exec.Execute(types.Action{Type: types.ActionMove, X: 1, Y: 1})

	var execErr *ActionExecutionError
	require.ErrorAs(t, err, &execErr)
}
