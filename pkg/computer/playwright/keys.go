package playwright

import "strings"

// keyNames maps the key vocabulary the model emits to Playwright key
// names. Names not in the table pass through unchanged, which covers
// single characters and keys the model already spells the Playwright way.
var keyNames = map[string]string{
	"alt":        "Alt",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	"arrowup":    "ArrowUp",
	"backspace":  "Backspace",
	"capslock":   "CapsLock",
	"cmd":        "Meta",
	"ctrl":       "Control",
	"delete":     "Delete",
	"down":       "ArrowDown",
	"end":        "End",
	"enter":      "Enter",
	"esc":        "Escape",
	"escape":     "Escape",
	"home":       "Home",
	"insert":     "Insert",
	"left":       "ArrowLeft",
	"option":     "Alt",
	"pagedown":   "PageDown",
	"pageup":     "PageUp",
	"return":     "Enter",
	"right":      "ArrowRight",
	"shift":      "Shift",
	"space":      " ",
	"super":      "Meta",
	"tab":        "Tab",
	"up":         "ArrowUp",
	"win":        "Meta",
}

// MapKey translates one model-issued key name to its Playwright name.
func MapKey(key string) string {
	if mapped, ok := keyNames[strings.ToLower(key)]; ok {
		return mapped
	}
	return key
}
