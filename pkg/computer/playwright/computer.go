// Package playwright provides a browser-backed Computer implementation
// driven by Playwright. One Computer owns one Chromium instance, one
// browser context, and one page for its whole lifetime.
package playwright

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/types"
)

// Default values for a new browser computer.
const (
	DefaultViewportWidth  = 1024
	DefaultViewportHeight = 768
	DefaultTimeout        = 30000.0 // milliseconds
	DefaultWait           = 1000 * time.Millisecond
)

// Options configures a new browser computer.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Width and Height set the viewport size. Zero means the defaults.
	Width  int
	Height int

	// Timeout is the default Playwright operation timeout in
	// milliseconds. Zero means DefaultTimeout.
	Timeout float64

	// StartURL, when non-empty, is navigated to during Start.
	StartURL string
}

// Computer is a browser surface backed by a Playwright-driven Chromium
// session. It implements computer.BrowserComputer. Not safe for
// concurrent use; the agent loop owns it exclusively.
type Computer struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	started bool
	log     *logging.Logger
}

// New creates an unstarted browser computer. Call Start before issuing
// actions and Close on every exit path.
func New(opts Options) *Computer {
	if opts.Width == 0 {
		opts.Width = DefaultViewportWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultViewportHeight
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	log, err := logging.NewLogger("playwright")
	if err != nil {
		log.Warnf("file logging unavailable, using stderr: %v", err)
	}

	return &Computer{opts: opts, log: log}
}

// Start installs and launches Playwright, opens the browser session, and
// optionally navigates to the configured start URL. Driver output is
// discarded so it cannot interleave with the caller's terminal.
func (c *Computer) Start() error {
	if c.started {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	c.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.opts.Headless),
	})
	if err != nil {
		c.Close()
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	c.browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  c.opts.Width,
			Height: c.opts.Height,
		},
	})
	if err != nil {
		c.Close()
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	c.context = context

	page, err := context.NewPage()
	if err != nil {
		c.Close()
		return fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(c.opts.Timeout)
	c.page = page
	c.started = true

	c.log.Infof("browser session started (headless=%v, viewport=%dx%d)",
		c.opts.Headless, c.opts.Width, c.opts.Height)

	if c.opts.StartURL != "" {
		if err := c.Goto(c.opts.StartURL); err != nil {
			c.Close()
			return err
		}
	}
	return nil
}

// Close releases the page, context, browser, and driver. Safe to call
// more than once and on a partially started computer; later cleanup
// steps still run when earlier ones fail.
func (c *Computer) Close() error {
	var errs []error
	if c.page != nil {
		if err := c.page.Close(); err != nil {
			errs = append(errs, err)
		}
		c.page = nil
	}
	if c.context != nil {
		if err := c.context.Close(); err != nil {
			errs = append(errs, err)
		}
		c.context = nil
	}
	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		c.browser = nil
	}
	if c.pw != nil {
		if err := c.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
		c.pw = nil
	}
	c.started = false

	if len(errs) > 0 {
		return fmt.Errorf("errors closing browser session: %v", errs)
	}
	return nil
}

// Environment returns computer.EnvironmentBrowser.
func (c *Computer) Environment() computer.Environment {
	return computer.EnvironmentBrowser
}

// Dimensions returns the configured viewport size.
func (c *Computer) Dimensions() (int, int) {
	return c.opts.Width, c.opts.Height
}

// Screenshot captures the current viewport (not the full page) as PNG bytes.
func (c *Computer) Screenshot() ([]byte, error) {
	data, err := c.page.Screenshot(playwright.PageScreenshotOptions{})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// Click moves the pointer to (x, y) and clicks the given button.
func (c *Computer) Click(x, y int, button types.MouseButton) error {
	pwButton := playwright.MouseButtonLeft
	switch button {
	case types.ButtonRight:
		pwButton = playwright.MouseButtonRight
	case types.ButtonMiddle, types.ButtonWheel:
		pwButton = playwright.MouseButtonMiddle
	}

	err := c.page.Mouse().Click(float64(x), float64(y), playwright.MouseClickOptions{
		Button: pwButton,
	})
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// DoubleClick double-clicks the left button at (x, y).
func (c *Computer) DoubleClick(x, y int) error {
	if err := c.page.Mouse().Dblclick(float64(x), float64(y)); err != nil {
		return fmt.Errorf("double click failed: %w", err)
	}
	return nil
}

// Scroll moves the pointer to (x, y) and scrolls by the given deltas.
func (c *Computer) Scroll(x, y, deltaX, deltaY int) error {
	if err := c.page.Mouse().Move(float64(x), float64(y)); err != nil {
		return fmt.Errorf("scroll move failed: %w", err)
	}
	if err := c.page.Mouse().Wheel(float64(deltaX), float64(deltaY)); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// Type types the text into the focused element.
func (c *Computer) Type(text string) error {
	if err := c.page.Keyboard().Type(text); err != nil {
		return fmt.Errorf("type failed: %w", err)
	}
	return nil
}

// Keypress presses the given keys as a chord: all keys go down in order
// and come up in reverse, so ["ctrl", "a"] selects all.
func (c *Computer) Keypress(keys []string) error {
	mapped := make([]string, len(keys))
	for i, key := range keys {
		mapped[i] = MapKey(key)
	}

	for _, key := range mapped {
		if err := c.page.Keyboard().Down(key); err != nil {
			return fmt.Errorf("key down %q failed: %w", key, err)
		}
	}
	for i := len(mapped) - 1; i >= 0; i-- {
		if err := c.page.Keyboard().Up(mapped[i]); err != nil {
			return fmt.Errorf("key up %q failed: %w", mapped[i], err)
		}
	}
	return nil
}

// Wait blocks for the given duration. Zero or negative means DefaultWait.
func (c *Computer) Wait(d time.Duration) error {
	if d <= 0 {
		d = DefaultWait
	}
	time.Sleep(d)
	return nil
}

// Move moves the pointer to (x, y) without clicking.
func (c *Computer) Move(x, y int) error {
	if err := c.page.Mouse().Move(float64(x), float64(y)); err != nil {
		return fmt.Errorf("move failed: %w", err)
	}
	return nil
}

// Drag presses at the first point of the path, moves through the rest,
// and releases at the last.
func (c *Computer) Drag(path []types.Point) error {
	if len(path) == 0 {
		return fmt.Errorf("drag requires at least one point")
	}

	if err := c.page.Mouse().Move(float64(path[0].X), float64(path[0].Y)); err != nil {
		return fmt.Errorf("drag move failed: %w", err)
	}
	if err := c.page.Mouse().Down(); err != nil {
		return fmt.Errorf("drag press failed: %w", err)
	}
	for _, p := range path[1:] {
		if err := c.page.Mouse().Move(float64(p.X), float64(p.Y)); err != nil {
			// Release before reporting so the session is not left mid-drag.
			_ = c.page.Mouse().Up()
			return fmt.Errorf("drag move failed: %w", err)
		}
	}
	if err := c.page.Mouse().Up(); err != nil {
		return fmt.Errorf("drag release failed: %w", err)
	}
	return nil
}

// Goto navigates the page to the given URL and waits for the DOM to be ready.
func (c *Computer) Goto(url string) error {
	_, err := c.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Back navigates one step back in the session history.
func (c *Computer) Back() error {
	if _, err := c.page.GoBack(); err != nil {
		return fmt.Errorf("back navigation failed: %w", err)
	}
	return nil
}

// CurrentURL returns the URL of the current page.
func (c *Computer) CurrentURL() string {
	if c.page == nil {
		return ""
	}
	return c.page.URL()
}

// Title returns the current page title.
func (c *Computer) Title() (string, error) {
	title, err := c.page.Title()
	if err != nil {
		return "", fmt.Errorf("title read failed: %w", err)
	}
	return title, nil
}

// Content returns the raw HTML of the current page.
func (c *Computer) Content() (string, error) {
	content, err := c.page.Content()
	if err != nil {
		return "", fmt.Errorf("content read failed: %w", err)
	}
	return content, nil
}
