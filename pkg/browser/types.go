package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Handle wraps a live browser connection for one platform workflow run.
//
// Lifecycle is explicit on the handle: Attached marks a connection to a
// browser this process did not start. Attached browsers are never closed,
// only released; closing one would disrupt the user's open windows and
// login state. Only launched instances may be torn down.
type Handle struct {
	// DebugEndpoint is the remote-debug address this handle attached to,
	// empty for launched instances.
	DebugEndpoint string

	// Attached is true when the handle connected to a pre-existing browser.
	Attached bool

	// Browser is nil for launched persistent contexts, which expose only
	// a BrowserContext.
	Browser playwright.Browser

	// Context is the browser context holding cookies and storage.
	Context playwright.BrowserContext

	// Page is the tab driven by the workflow.
	Page playwright.Page

	// CreatedAt is when this handle was acquired.
	CreatedAt time.Time
}

// AcquireOptions configures session acquisition.
type AcquireOptions struct {
	// PreferExisting tries the remote-debug attach before launching.
	PreferExisting bool

	// DebugEndpoint is the remote-debug address to attach to.
	DebugEndpoint string

	// ProfileDir is the user-data directory for launched instances.
	ProfileDir string

	// Headless applies to launched instances only.
	Headless bool

	// InstanceKey isolates concurrent acquisitions: when set, launched
	// instances use ProfileDir/<InstanceKey> so two live instances never
	// contend for one Chromium profile lock.
	InstanceKey string

	// Attempts bounds attach/launch retries. Zero means DefaultAttempts.
	Attempts int
}

// SessionError marks a failure to obtain or maintain a browser handle.
// It is fatal for the affected platform's run.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return "browser: " + e.Op + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

const (
	// DefaultAttempts bounds acquisition retries.
	DefaultAttempts = 3

	// backoffBase is the first retry delay; it doubles per attempt.
	backoffBase = 500 * time.Millisecond

	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)
