package browser

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/crosspub/crosspub/pkg/logging"
)

// Manager acquires and tracks browser handles.
//
// Acquisition order: attach to a browser already listening on the
// configured remote-debug address, else launch an instance with a
// dedicated profile directory. Attach is preferred because it does not
// disturb the user's open windows and login state.
type Manager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	initialized bool
	log         *logging.Logger
}

// NewManager creates a session manager.
func NewManager() *Manager {
	log, _ := logging.NewLogger("browser")
	return &Manager{log: log}
}

// Initialize starts the Playwright driver. Must be called before Acquire.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Discard driver output so it does not interleave with CLI output
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return &SessionError{Op: "install playwright", Err: err}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return &SessionError{Op: "start playwright", Err: err}
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Acquire obtains a browser handle, retrying with exponential backoff up
// to the bounded attempt count. Each attempt tries remote-debug attach
// first (when preferred), then a fresh launch.
func (m *Manager) Acquire(ctx context.Context, opts AcquireOptions) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, &SessionError{Op: "acquire", Err: fmt.Errorf("manager not initialized")}
	}

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoffBase << (attempt - 1)
			m.log.Infof("acquire attempt %d/%d in %s", attempt+1, attempts, delay)
			select {
			case <-ctx.Done():
				return nil, &SessionError{Op: "acquire", Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		if opts.PreferExisting && opts.DebugEndpoint != "" {
			handle, err := m.attach(opts.DebugEndpoint)
			if err == nil {
				m.log.Infof("attached to browser at %s", opts.DebugEndpoint)
				return handle, nil
			}
			lastErr = err
			m.log.Warnf("attach to %s failed: %v", opts.DebugEndpoint, err)
		}

		handle, err := m.launch(opts)
		if err == nil {
			m.log.Infof("launched browser with profile %s (headless=%v)", profilePath(opts), opts.Headless)
			return handle, nil
		}
		lastErr = err
		m.log.Warnf("launch failed: %v", err)
	}

	return nil, &SessionError{Op: "acquire", Err: lastErr}
}

// attach connects over CDP to an already-running browser, adopts its
// default context and opens a dedicated page in it. Each acquisition
// gets its own tab so concurrent handles never navigate over each
// other; the tab is removed again on Close.
func (m *Manager) attach(endpoint string) (*Handle, error) {
	browser, err := m.playwright.Chromium.ConnectOverCDP(endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect over CDP: %w", err)
	}

	contexts := browser.Contexts()
	if len(contexts) == 0 {
		_ = browser.Close()
		return nil, fmt.Errorf("attached browser exposes no contexts")
	}
	browserCtx := contexts[0]

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("open page in attached browser: %w", err)
	}

	return &Handle{
		DebugEndpoint: endpoint,
		Attached:      true,
		Browser:       browser,
		Context:       browserCtx,
		Page:          page,
		CreatedAt:     time.Now(),
	}, nil
}

// profilePath resolves the user-data directory for a launch. Keyed
// acquisitions get their own subdirectory; Chromium holds a lock on a
// live profile, so two open instances cannot share one.
func profilePath(opts AcquireOptions) string {
	if opts.InstanceKey == "" {
		return opts.ProfileDir
	}
	return filepath.Join(opts.ProfileDir, opts.InstanceKey)
}

// launch starts a fresh instance with a dedicated profile directory so
// the launched browser keeps cookies across runs without touching the
// user's own profile.
func (m *Manager) launch(opts AcquireOptions) (*Handle, error) {
	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	}

	browserCtx, err := m.playwright.Chromium.LaunchPersistentContext(profilePath(opts), launchOpts)
	if err != nil {
		return nil, fmt.Errorf("launch persistent context: %w", err)
	}

	var page playwright.Page
	if pages := browserCtx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = browserCtx.NewPage()
		if err != nil {
			_ = browserCtx.Close()
			return nil, fmt.Errorf("open page: %w", err)
		}
	}

	return &Handle{
		Attached:  false,
		Context:   browserCtx,
		Page:      page,
		CreatedAt: time.Now(),
	}, nil
}

// Ensure returns the given handle when it is still healthy, otherwise it
// discards it and acquires a replacement.
func (m *Manager) Ensure(ctx context.Context, handle *Handle, opts AcquireOptions) (*Handle, error) {
	if handle != nil && handle.Healthy() {
		return handle, nil
	}
	if handle != nil {
		m.log.Warnf("handle unhealthy, reacquiring")
		handle.Close()
	}
	return m.Acquire(ctx, opts)
}

// Shutdown stops the Playwright driver. Handles from this manager must
// be closed by their owners first.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || m.playwright == nil {
		return nil
	}
	if err := m.playwright.Stop(); err != nil {
		return &SessionError{Op: "stop playwright", Err: err}
	}
	m.initialized = false
	return nil
}
