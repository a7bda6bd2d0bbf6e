package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionSupported(t *testing.T) {
	supported := []ActionType{
		ActionClick, ActionDoubleClick, ActionScroll, ActionTypeText,
		ActionKeypress, ActionWait, ActionScreenshot, ActionMove,
		ActionDrag, ActionBack, ActionGoto,
	}
	for _, at := range supported {
		assert.True(t, Action{Type: at}.Supported(), "%s should be supported", at)
	}

	assert.False(t, Action{Type: "submit_form"}.Supported())
	assert.False(t, Action{Type: ""}.Supported())
}

func TestActionRoundTrip(t *testing.T) {
	actions := []Action{
		{Type: ActionClick, X: 50, Y: 60, Button: ButtonRight},
		{Type: ActionScroll, X: 10, Y: 20, DeltaX: 0, DeltaY: -120},
		{Type: ActionKeypress, Keys: []string{"ctrl", "a"}},
		{Type: ActionDrag, Path: []Point{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		{Type: ActionGoto, URL: "http://example.com"},
		{Type: ActionWait, Ms: 1500},
	}
	for _, action := range actions {
		data, err := json.Marshal(action)
		require.NoError(t, err)

		var decoded Action
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, action, decoded)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Action{Type: ActionClick, X: 50, Y: 50}, "click(50, 50, left)"},
		{Action{Type: ActionClick, X: 1, Y: 2, Button: ButtonRight}, "click(1, 2, right)"},
		{Action{Type: ActionGoto, URL: "http://example.com"}, "goto(http://example.com)"},
		{Action{Type: ActionKeypress, Keys: []string{"ctrl", "a"}}, "keypress([ctrl a])"},
		{Action{Type: ActionScreenshot}, "screenshot()"},
		{Action{Type: "submit_form"}, "submit_form(?)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.action.String())
	}
}
