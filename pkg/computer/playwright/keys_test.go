package playwright

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ctrl", "Control"},
		{"CTRL", "Control"},
		{"enter", "Enter"},
		{"return", "Enter"},
		{"esc", "Escape"},
		{"space", " "},
		{"cmd", "Meta"},
		{"super", "Meta"},
		{"win", "Meta"},
		{"option", "Alt"},
		{"arrowdown", "ArrowDown"},
		{"down", "ArrowDown"},
		{"pageup", "PageUp"},
		// Unknown names pass through unchanged.
		{"a", "a"},
		{"F5", "F5"},
		{"Control", "Control"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapKey(tt.in))
		})
	}
}
