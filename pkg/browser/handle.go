package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/crosspub/crosspub/pkg/sessionstore"
)

// Healthy probes the session by asking the browser for its current
// location. A failed round-trip means the handle must be discarded.
func (h *Handle) Healthy() bool {
	if h.Page == nil {
		return false
	}
	_, err := h.Page.Evaluate("() => document.location.href")
	return err == nil
}

// Close releases the handle. Launched instances are torn down; attached
// instances close the tab this handle opened and drop the CDP
// connection, leaving the rest of the user's browser untouched.
func (h *Handle) Close() {
	if h.Attached {
		if h.Page != nil {
			_ = h.Page.Close()
		}
		if h.Browser != nil {
			// Close on a CDP-connected Browser disconnects without
			// terminating the remote process.
			_ = h.Browser.Close()
		}
		return
	}
	if h.Context != nil {
		_ = h.Context.Close()
	}
	if h.Browser != nil {
		_ = h.Browser.Close()
	}
}

// Navigate loads a URL in the handle's page and waits for the DOM.
func (h *Handle) Navigate(url string, timeoutMs float64) error {
	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}
	if timeoutMs > 0 {
		gotoOpts.Timeout = playwright.Float(timeoutMs)
	}
	if _, err := h.Page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Reload reloads the current page, typically after cookie restoration.
func (h *Handle) Reload() error {
	if _, err := h.Page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// CurrentURL returns the page's current URL.
func (h *Handle) CurrentURL() string {
	return h.Page.URL()
}

// Evaluate runs JavaScript in the page and returns its result.
func (h *Handle) Evaluate(script string) (interface{}, error) {
	result, err := h.Page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

// Screenshot captures the visible page to path, for failure diagnostics.
func (h *Handle) Screenshot(path string) error {
	_, err := h.Page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// ExportCookies captures the context's cookies in persistable form.
func (h *Handle) ExportCookies() ([]sessionstore.Cookie, error) {
	raw, err := h.Context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	cookies := make([]sessionstore.Cookie, 0, len(raw))
	for _, c := range raw {
		cookie := sessionstore.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		cookies = append(cookies, cookie)
	}
	return cookies, nil
}

// ImportCookies applies persisted cookies to the context. Individual
// cookie failures are tolerated; sites often carry a few cookies the
// browser refuses to re-set.
func (h *Handle) ImportCookies(cookies []sessionstore.Cookie) (applied int) {
	for _, c := range cookies {
		opt := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Expires != 0 {
			opt.Expires = playwright.Float(c.Expires)
		}
		if c.SameSite != "" {
			sameSite := playwright.SameSiteAttribute(c.SameSite)
			opt.SameSite = &sameSite
		}
		if err := h.Context.AddCookies([]playwright.OptionalCookie{opt}); err != nil {
			continue
		}
		applied++
	}
	return applied
}

// ExportStorage snapshots the page's localStorage key/value pairs.
func (h *Handle) ExportStorage() (map[string]string, error) {
	result, err := h.Page.Evaluate(`() => {
		const out = {};
		for (let i = 0; i < localStorage.length; i++) {
			const key = localStorage.key(i);
			out[key] = localStorage.getItem(key);
		}
		return out;
	}`)
	if err != nil {
		return nil, fmt.Errorf("read localStorage: %w", err)
	}

	storage := make(map[string]string)
	if m, ok := result.(map[string]interface{}); ok {
		for k, v := range m {
			if s, ok := v.(string); ok {
				storage[k] = s
			}
		}
	}
	return storage, nil
}

// ImportStorage restores a localStorage snapshot onto the current page.
func (h *Handle) ImportStorage(storage map[string]string) error {
	if len(storage) == 0 {
		return nil
	}
	_, err := h.Page.Evaluate(`(entries) => {
		for (const [key, value] of Object.entries(entries)) {
			localStorage.setItem(key, value);
		}
	}`, storage)
	if err != nil {
		return fmt.Errorf("write localStorage: %w", err)
	}
	return nil
}
