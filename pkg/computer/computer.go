// Package computer defines the capability interface over a controllable
// surface, such as a browser tab. The agent loop only ever talks to this
// interface; concrete backends (Playwright, OS-level automation) live in
// subpackages.
package computer

import (
	"time"

	"github.com/entrhq/surf/pkg/types"
)

// Environment identifies the kind of surface a Computer controls. The
// executor uses it to reject actions the surface cannot perform, for
// example goto on a desktop environment.
type Environment string

const (
	EnvironmentBrowser Environment = "browser"
	EnvironmentMac     Environment = "mac"
	EnvironmentWindows Environment = "windows"
	EnvironmentLinux   Environment = "linux"
)

// Computer is the primitive action surface. All actions are blocking and
// complete (or fail) before returning; there is no partial result.
// Side effects are real UI mutations on the underlying session, so
// idempotence is not guaranteed — pressing back twice navigates two
// steps. Implementations own the session resource and must release it on
// every exit path via Close.
//
// Implementations are not safe for concurrent use. The agent loop owns a
// Computer exclusively for the lifetime of a conversation.
type Computer interface {
	// Screenshot captures the current viewport as PNG bytes.
	Screenshot() ([]byte, error)

	Click(x, y int, button types.MouseButton) error
	DoubleClick(x, y int) error
	Scroll(x, y, deltaX, deltaY int) error
	Type(text string) error
	Keypress(keys []string) error
	Wait(d time.Duration) error
	Move(x, y int) error
	Drag(path []types.Point) error

	// Dimensions returns the viewport width and height in pixels.
	Dimensions() (width, height int)

	// Environment returns the kind of surface being controlled.
	Environment() Environment

	// Close releases the underlying session. Safe to call more than once.
	Close() error
}

// BrowserComputer extends Computer with navigation primitives that only
// make sense for a browser surface.
type BrowserComputer interface {
	Computer

	Goto(url string) error
	Back() error

	// CurrentURL returns the page URL after the most recent action.
	CurrentURL() string
}
