package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"

	"github.com/crosspub/crosspub/pkg/browser"
	"github.com/crosspub/crosspub/pkg/config"
	"github.com/crosspub/crosspub/pkg/locator"
	"github.com/crosspub/crosspub/pkg/logging"
	"github.com/crosspub/crosspub/pkg/sessionstore"
)

// Engine drives the publish state machine over a browser handle using a
// platform Definition. One Engine serves any number of runs; all
// per-run state lives on the stack.
//
// Errors never escape Run: they are folded into the returned Result so
// one platform's failure cannot abort another's.
type Engine struct {
	cfg   *config.Config
	store *sessionstore.Store
	log   *logging.Logger
}

// NewEngine creates a workflow engine.
func NewEngine(cfg *config.Config, store *sessionstore.Store) *Engine {
	log, _ := logging.NewLogger("workflow")
	return &Engine{cfg: cfg, store: store, log: log}
}

// stepError carries the failure classification across step boundaries.
type stepError struct {
	kind ErrorKind
	err  error
}

func (s *stepError) Error() string { return s.err.Error() }

func fail(kind ErrorKind, format string, args ...interface{}) *stepError {
	return &stepError{kind: kind, err: errors.Errorf(format, args...)}
}

// Run executes the full publish sequence for one platform:
// authenticate, upload, wait for processing, fill metadata, submit,
// verify. On success (qualified included) the refreshed session state
// is persisted before returning.
func (e *Engine) Run(ctx context.Context, handle *browser.Handle, def *Definition, req Request) Result {
	state := StateIdle
	transition := func(next State) {
		e.log.Infof("[%s] %s -> %s", def.Name, state, next)
		state = next
	}

	transition(StateAuthenticating)
	if err := e.authenticate(ctx, handle, def); err != nil {
		return e.asFailure(def, err)
	}

	transition(StateUploading)
	if err := e.upload(ctx, handle, def, req); err != nil {
		return e.asFailure(def, err)
	}

	transition(StateProcessing)
	if err := e.waitForProcessing(ctx, handle, def); err != nil {
		return e.asFailure(def, err)
	}

	transition(StateFillingMeta)
	if err := e.fillMetadata(ctx, handle, def, req); err != nil {
		return e.asFailure(def, err)
	}

	transition(StateSubmitting)
	if err := e.submit(ctx, handle, def); err != nil {
		return e.asFailure(def, err)
	}

	transition(StateVerifying)
	result := e.verify(ctx, handle, def)

	transition(StateDone)
	if result.Success {
		if err := e.persistSession(handle, def); err != nil {
			e.log.Warnf("[%s] failed to persist session: %v", def.Name, err)
		}
	}
	return result
}

func (e *Engine) asFailure(def *Definition, err error) Result {
	e.log.Errorf("[%s] workflow failed: %v", def.Name, err)
	if step, ok := err.(*stepError); ok {
		return failure(def.Name, step.kind, step.err.Error())
	}
	return failure(def.Name, KindSession, err.Error())
}

// find resolves a semantic role with the full per-step timeout.
func (e *Engine) find(ctx context.Context, handle *browser.Handle, def *Definition, role SemanticRole) (playwright.Locator, bool) {
	spec := def.Role(role)
	if len(spec) == 0 {
		return nil, false
	}
	loc, ok := locator.Find(ctx, handle.Page, spec, locator.Options{
		Timeout:      e.cfg.Timeouts.Step,
		PollInterval: e.cfg.Timeouts.PollInterval,
	})
	if !ok {
		e.log.Debugf("[%s] role %s: no strategy matched", def.Name, role)
	}
	return loc, ok
}

// peek resolves a role with a single pass, for presence probes.
func (e *Engine) peek(ctx context.Context, handle *browser.Handle, def *Definition, role SemanticRole) (playwright.Locator, bool) {
	spec := def.Role(role)
	if len(spec) == 0 {
		return nil, false
	}
	return locator.Find(ctx, handle.Page, spec, locator.Options{PollInterval: e.cfg.Timeouts.PollInterval})
}

// authenticate navigates to the platform entry URL, restores a
// persisted session if one is valid, and otherwise waits a bounded time
// for a human to complete login in the visible browser.
func (e *Engine) authenticate(ctx context.Context, handle *browser.Handle, def *Definition) error {
	stepMs := float64(e.cfg.Timeouts.Step.Milliseconds())
	if err := handle.Navigate(def.EntryURL, stepMs); err != nil {
		return fail(KindSession, "open %s: %v", def.EntryURL, err)
	}

	maxAge := e.cfg.SessionExpiry(def.Name)
	if e.store.IsValid(def.Name, maxAge) {
		if state, err := e.store.Load(def.Name); err == nil {
			applied := handle.ImportCookies(state.Cookies)
			if err := handle.ImportStorage(state.Storage); err != nil {
				e.log.Warnf("[%s] storage restore failed: %v", def.Name, err)
			}
			e.log.Infof("[%s] restored session: %d cookies applied", def.Name, applied)
			if err := handle.Reload(); err != nil {
				return fail(KindSession, "reload after restore: %v", err)
			}
		}
	} else if _, err := e.store.Load(def.Name); err == nil {
		// Past-expiry record: treat as absent
		e.log.Infof("[%s] persisted session expired, clearing", def.Name)
		_ = e.store.Clear(def.Name)
	}

	if e.loggedIn(ctx, handle, def) {
		return nil
	}

	e.log.Infof("[%s] not authenticated, waiting up to %s for manual login", def.Name, e.cfg.Timeouts.Login)
	deadline := time.Now().Add(e.cfg.Timeouts.Login)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return fail(KindAuthTimeout, "login wait cancelled")
		case <-time.After(2 * time.Second):
		}
		if e.loggedIn(ctx, handle, def) {
			e.log.Infof("[%s] manual login detected", def.Name)
			return nil
		}
	}
	return fail(KindAuthTimeout, "login not completed within %s", e.cfg.Timeouts.Login)
}

// loggedIn checks the page for unauthenticated signals: a login-ish URL
// or a visible login marker.
func (e *Engine) loggedIn(ctx context.Context, handle *browser.Handle, def *Definition) bool {
	current := strings.ToLower(handle.CurrentURL())
	for _, keyword := range def.LoginURLKeywords {
		if strings.Contains(current, keyword) {
			return false
		}
	}
	if _, present := e.peek(ctx, handle, def, RoleLoginMarker); present {
		return false
	}
	return true
}

// upload submits the local video path to the platform's file input,
// falling back to unhiding the input when the visible affordance is a
// styled wrapper around a hidden element.
func (e *Engine) upload(ctx context.Context, handle *browser.Handle, def *Definition, req Request) error {
	if def.UploadURL != "" && !strings.HasPrefix(handle.CurrentURL(), def.UploadURL) {
		stepMs := float64(e.cfg.Timeouts.Step.Milliseconds())
		if err := handle.Navigate(def.UploadURL, stepMs); err != nil {
			return fail(KindSession, "open upload page: %v", err)
		}
	}

	videoPath, err := filepath.Abs(req.VideoPath)
	if err != nil {
		return fail(KindPreflight, "resolve video path: %v", err)
	}

	loc, ok := e.find(ctx, handle, def, RoleFileInput)
	if ok {
		if err := submitFile(loc, videoPath); err == nil {
			e.log.Infof("[%s] video file submitted", def.Name)
			return nil
		} else {
			e.log.Warnf("[%s] direct file submit failed: %v", def.Name, err)
		}
	}

	// Unhide any file input the page keeps display:none behind a styled
	// drop zone, then retry against the raw input.
	if _, err := handle.Evaluate(`() => {
		document.querySelectorAll('input[type="file"]').forEach((el) => {
			el.style.display = 'block';
			el.style.visibility = 'visible';
			el.style.opacity = '1';
		});
	}`); err == nil {
		raw := handle.Page.Locator(`input[type="file"]`).First()
		if err := submitFile(raw, videoPath); err == nil {
			e.log.Infof("[%s] video file submitted via unhidden input", def.Name)
			return nil
		}
	}

	return fail(KindElementNotFound, "no usable file input for %s", def.Name)
}

// waitForProcessing polls for platform-specific completion signals with
// a long timeout; server-side transcoding is outside our control.
// Completion is any of: the preview element appearing, the title field
// becoming interactable, or a previously seen progress indicator
// disappearing.
func (e *Engine) waitForProcessing(ctx context.Context, handle *browser.Handle, def *Definition) error {
	timeout := def.ProcessingTimeout
	if timeout == 0 {
		timeout = e.cfg.Timeouts.Upload
	}

	sawProgress := false
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, ok := e.peek(ctx, handle, def, RoleUploadPreview); ok {
			e.log.Infof("[%s] upload preview present, processing complete", def.Name)
			return nil
		}
		if _, ok := e.peek(ctx, handle, def, RoleTitle); ok {
			e.log.Infof("[%s] title field interactable, processing complete", def.Name)
			return nil
		}
		if len(def.Role(RoleUploadProgress)) > 0 {
			_, progressVisible := e.peek(ctx, handle, def, RoleUploadProgress)
			if progressVisible {
				sawProgress = true
			} else if sawProgress {
				e.log.Infof("[%s] progress indicator gone, processing complete", def.Name)
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fail(KindUploadTimeout, "processing wait cancelled")
		case <-time.After(2 * time.Second):
		}
	}
	return fail(KindUploadTimeout, "processing did not complete within %s", timeout)
}

// fillMetadata writes title, description and optional cover. The title
// is required; description and cover failures are logged and tolerated.
func (e *Engine) fillMetadata(ctx context.Context, handle *browser.Handle, def *Definition, req Request) error {
	titleLoc, ok := e.find(ctx, handle, def, RoleTitle)
	if !ok {
		return fail(KindElementNotFound, "title field not found on %s", def.Name)
	}
	title := TruncateRunes(req.Title, def.Limits.TitleRunes)
	if err := setElementText(titleLoc, title, false); err != nil {
		return fail(KindElementNotFound, "set title: %v", err)
	}
	e.log.Infof("[%s] title set (%d runes)", def.Name, len([]rune(title)))

	description := ComposeDescription(req.Description, req.Tags, def)
	if description != "" {
		if descLoc, ok := e.find(ctx, handle, def, RoleDescription); ok {
			if err := setElementText(descLoc, description, def.RichDescription); err != nil {
				e.log.Warnf("[%s] set description failed: %v", def.Name, err)
			}
		} else {
			e.log.Warnf("[%s] description field not found, skipping", def.Name)
		}
	}

	if req.CoverPath != "" {
		if coverLoc, ok := e.find(ctx, handle, def, RoleCoverInput); ok {
			if coverPath, err := filepath.Abs(req.CoverPath); err == nil {
				if err := submitFile(coverLoc, coverPath); err != nil {
					e.log.Warnf("[%s] cover upload failed: %v", def.Name, err)
				}
			}
		}
	}
	return nil
}

// submit locates the publish control, scrolls it into view and invokes
// it, falling back through synthetic click dispatch and a keyboard
// submit when direct interaction does not register.
func (e *Engine) submit(ctx context.Context, handle *browser.Handle, def *Definition) error {
	loc, ok := e.find(ctx, handle, def, RoleSubmit)
	if !ok {
		return fail(KindElementNotFound, "submit control not found on %s", def.Name)
	}

	if err := loc.ScrollIntoViewIfNeeded(); err != nil {
		e.log.Debugf("[%s] scroll into view failed: %v", def.Name, err)
	}

	if err := loc.Click(); err == nil {
		e.log.Infof("[%s] submit clicked", def.Name)
		return nil
	}
	if _, err := loc.Evaluate("el => el.click()", nil); err == nil {
		e.log.Infof("[%s] submit clicked via script", def.Name)
		return nil
	}
	if err := handle.Page.Keyboard().Press("Control+Enter"); err == nil {
		e.log.Infof("[%s] submit sent via keyboard", def.Name)
		return nil
	}
	return fail(KindElementNotFound, "submit control would not activate on %s", def.Name)
}

// verify watches for success or failure signals within a bounded
// window. An explicit error banner fails the run; an observed success
// marker or success URL confirms it; silence becomes a qualified
// success because most platforms redirect asynchronously.
func (e *Engine) verify(ctx context.Context, handle *browser.Handle, def *Definition) Result {
	deadline := time.Now().Add(e.cfg.Timeouts.Verify)
	for time.Now().Before(deadline) {
		if banner, ok := e.peek(ctx, handle, def, RoleErrorBanner); ok {
			message := "platform reported an error"
			if text, err := banner.TextContent(); err == nil && strings.TrimSpace(text) != "" {
				message = strings.TrimSpace(text)
			}
			return failure(def.Name, KindElementNotFound, message)
		}

		if _, ok := e.peek(ctx, handle, def, RoleSuccessMarker); ok {
			return Result{
				Platform:  def.Name,
				Success:   true,
				RemoteURL: handle.CurrentURL(),
				Message:   "publish confirmed",
			}
		}

		current := handle.CurrentURL()
		for _, fragment := range def.SuccessURLFragments {
			if strings.Contains(current, fragment) {
				return Result{
					Platform:  def.Name,
					Success:   true,
					RemoteURL: current,
					Message:   "publish confirmed by redirect",
				}
			}
		}

		select {
		case <-ctx.Done():
			return qualifiedSuccess(def, handle)
		case <-time.After(time.Second):
		}
	}
	return qualifiedSuccess(def, handle)
}

func qualifiedSuccess(def *Definition, handle *browser.Handle) Result {
	return Result{
		Platform:  def.Name,
		Success:   true,
		Qualified: true,
		RemoteURL: handle.CurrentURL(),
		Message:   "submission invoked but could not be confirmed",
	}
}

// persistSession captures cookies plus storage and overwrites the
// platform's record.
func (e *Engine) persistSession(handle *browser.Handle, def *Definition) error {
	cookies, err := handle.ExportCookies()
	if err != nil {
		return err
	}
	storage, err := handle.ExportStorage()
	if err != nil {
		e.log.Debugf("[%s] storage snapshot failed: %v", def.Name, err)
		storage = nil
	}
	state := &sessionstore.State{
		Cookies: cookies,
		Storage: storage,
		URL:     handle.CurrentURL(),
	}
	return e.store.Save(def.Name, state, e.cfg.SessionExpiry(def.Name))
}

// Login authenticates interactively and persists the resulting session,
// for pre-seeding credentials outside a publish run.
func (e *Engine) Login(ctx context.Context, handle *browser.Handle, def *Definition) error {
	if err := e.authenticate(ctx, handle, def); err != nil {
		if step, ok := err.(*stepError); ok {
			return fmt.Errorf("%s: %w", step.kind, step.err)
		}
		return err
	}
	return e.persistSession(handle, def)
}
