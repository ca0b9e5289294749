package publisher

import (
	"context"
	"sync"

	"github.com/crosspub/crosspub/pkg/browser"
	"github.com/crosspub/crosspub/pkg/config"
	"github.com/crosspub/crosspub/pkg/logging"
	"github.com/crosspub/crosspub/pkg/sessionstore"
	"github.com/crosspub/crosspub/pkg/video"
	"github.com/crosspub/crosspub/pkg/workflow"
)

// browserRunner drives the real publish workflow against a browser
// session. A single playwright driver is shared; each Run acquires a
// session handle, executes the platform workflow, and releases launched
// instances afterwards.
type browserRunner struct {
	cfg    *config.Config
	mgr    *browser.Manager
	engine *workflow.Engine
	log    *logging.Logger

	probeMu sync.Mutex
	probes  map[string]*probeEntry
}

// probeEntry caches one video's preflight so concurrent platform
// workflows for the same file probe it once.
type probeEntry struct {
	once sync.Once
	info *video.Info
	err  error
}

func newBrowserRunner(cfg *config.Config, store *sessionstore.Store) (*browserRunner, error) {
	log, _ := logging.NewLogger("runner")
	mgr := browser.NewManager()
	if err := mgr.Initialize(); err != nil {
		return nil, err
	}
	return &browserRunner{
		cfg:    cfg,
		mgr:    mgr,
		engine: workflow.NewEngine(cfg, store),
		log:    log,
	}, nil
}

// probe runs the ffprobe preflight once per video path; every platform
// then checks the same Info against its own limits. The cache is keyed
// by path because the runner outlives a single publish request.
func (r *browserRunner) probe(path string) (*video.Info, error) {
	r.probeMu.Lock()
	if r.probes == nil {
		r.probes = make(map[string]*probeEntry)
	}
	entry, ok := r.probes[path]
	if !ok {
		entry = &probeEntry{}
		r.probes[path] = entry
	}
	r.probeMu.Unlock()

	entry.once.Do(func() {
		entry.info, entry.err = video.Probe(path)
	})
	return entry.info, entry.err
}

func (r *browserRunner) Run(ctx context.Context, platform string, req workflow.Request) workflow.Result {
	def, err := workflow.Get(platform)
	if err != nil {
		return workflow.Result{
			Platform:  platform,
			ErrorKind: workflow.KindPreflight,
			Message:   err.Error(),
		}
	}

	info, err := r.probe(req.VideoPath)
	if err != nil {
		return workflow.Result{
			Platform:  platform,
			ErrorKind: workflow.KindPreflight,
			Message:   "video preflight failed: " + err.Error(),
		}
	}
	if err := info.CheckAgainst(def.Limits); err != nil {
		return workflow.Result{
			Platform:  platform,
			ErrorKind: workflow.KindPreflight,
			Message:   err.Error(),
		}
	}

	handle, err := r.mgr.Acquire(ctx, r.acquireOptions(platform))
	if err != nil {
		return workflow.Result{
			Platform:  platform,
			NoSession: true,
			ErrorKind: workflow.KindSession,
			Message:   "acquire browser session: " + err.Error(),
		}
	}
	defer handle.Close()

	return r.engine.Run(ctx, handle, def, req)
}

func (r *browserRunner) acquireOptions(platform string) browser.AcquireOptions {
	return browser.AcquireOptions{
		PreferExisting: true,
		DebugEndpoint:  r.cfg.Browser.DebugAddress,
		ProfileDir:     r.cfg.Browser.ProfileDir,
		Headless:       r.cfg.Browser.Headless,
		InstanceKey:    platform,
		Attempts:       r.cfg.Browser.AcquireAttempts,
	}
}

// Shutdown stops the shared playwright driver.
func (r *browserRunner) Shutdown() error {
	return r.mgr.Shutdown()
}
