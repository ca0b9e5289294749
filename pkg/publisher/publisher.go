// Package publisher fans a single publish request out to the selected
// platform workflows and aggregates per-platform outcomes.
//
// One platform's failure never aborts another's: every requested
// platform produces exactly one result, and the only hard error the
// coordinator surfaces is the inability to produce any browser session
// at all.
package publisher

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/crosspub/crosspub/pkg/config"
	"github.com/crosspub/crosspub/pkg/logging"
	"github.com/crosspub/crosspub/pkg/sessionstore"
	"github.com/crosspub/crosspub/pkg/workflow"
)

// ErrNoSession is returned when session acquisition could not produce a
// handle for any requested platform.
var ErrNoSession = errors.New("publisher: no browser session could be acquired")

// Request is one publish call: a video, its metadata, and the target
// platforms. Immutable once dispatched.
type Request struct {
	VideoPath   string
	Title       string
	Description string
	Tags        []string
	CoverPath   string
	Platforms   []string
}

// Status summarizes an aggregate outcome.
type Status string

const (
	AllSucceeded   Status = "all_succeeded"
	PartialSuccess Status = "partial_success"
	AllFailed      Status = "all_failed"
)

// Aggregate is the per-platform breakdown plus overall status.
type Aggregate struct {
	Status       Status
	Results      []workflow.Result
	SuccessCount int
	TotalCount   int
}

// Runner executes one platform's workflow. The browser-backed runner is
// the production implementation; simulate mode and tests substitute
// synthetic ones.
type Runner interface {
	Run(ctx context.Context, platform string, req workflow.Request) workflow.Result
}

// Publisher coordinates publish requests across platforms.
type Publisher struct {
	cfg    *config.Config
	runner Runner
	log    *logging.Logger
}

// New creates a publisher wired for real browser work, or for simulate
// mode when the config requests it.
func New(cfg *config.Config) (*Publisher, error) {
	log, _ := logging.NewLogger("publisher")

	if cfg.Publish.Simulate {
		return &Publisher{cfg: cfg, runner: newSimulateRunner(), log: log}, nil
	}

	store, err := sessionstore.New(cfg.Session.StateDir)
	if err != nil {
		return nil, fmt.Errorf("publisher: init session store: %w", err)
	}
	runner, err := newBrowserRunner(cfg, store)
	if err != nil {
		return nil, err
	}
	return &Publisher{cfg: cfg, runner: runner, log: log}, nil
}

// Close releases the runner's resources (the shared playwright driver
// when running against a real browser) and the publisher's log file.
func (p *Publisher) Close() error {
	var err error
	if s, ok := p.runner.(interface{ Shutdown() error }); ok {
		err = s.Shutdown()
	}
	_ = p.log.Close()
	return err
}

// Publish runs the request against every requested platform and returns
// the aggregate. The returned error is non-nil only when no session
// handle could be produced at all.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Aggregate, error) {
	if len(req.Platforms) == 0 {
		return nil, errors.New("publisher: no target platforms")
	}

	meta := workflow.Request{
		VideoPath:   req.VideoPath,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		CoverPath:   req.CoverPath,
	}

	results := make([]workflow.Result, len(req.Platforms))
	if p.cfg.Publish.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.Publish.MaxParallel)
		for i, platform := range req.Platforms {
			i, platform := i, platform
			g.Go(func() error {
				results[i] = p.runOne(gctx, platform, meta)
				return nil
			})
		}
		_ = g.Wait() // runOne never returns an error
	} else {
		for i, platform := range req.Platforms {
			results[i] = p.runOne(ctx, platform, meta)
		}
	}

	agg := aggregate(results)
	p.log.Infof("publish finished: %s (%d/%d)", agg.Status, agg.SuccessCount, agg.TotalCount)

	if !p.cfg.Publish.Simulate && noSessionProduced(results) {
		return agg, ErrNoSession
	}
	return agg, nil
}

// runOne executes a single platform workflow, converting panics and
// cancellation into a failed result so the fan-out always completes.
func (p *Publisher) runOne(ctx context.Context, platform string, meta workflow.Request) (result workflow.Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("[%s] workflow panicked: %v", platform, r)
			result = workflow.Result{
				Platform:  platform,
				ErrorKind: workflow.KindSession,
				Message:   fmt.Sprintf("workflow panicked: %v", r),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return workflow.Result{
			Platform:  platform,
			ErrorKind: workflow.KindSession,
			Message:   "publish cancelled",
		}
	}

	p.log.Infof("[%s] starting workflow", platform)
	result = p.runner.Run(ctx, platform, meta)
	if result.Success {
		p.log.Infof("[%s] done: %s", platform, result.Message)
	} else {
		p.log.Warnf("[%s] failed (%s): %s", platform, result.ErrorKind, result.Message)
	}
	return result
}

func aggregate(results []workflow.Result) *Aggregate {
	agg := &Aggregate{
		Results:    results,
		TotalCount: len(results),
	}
	for _, r := range results {
		if r.Success {
			agg.SuccessCount++
		}
	}
	switch agg.SuccessCount {
	case agg.TotalCount:
		agg.Status = AllSucceeded
	case 0:
		agg.Status = AllFailed
	default:
		agg.Status = PartialSuccess
	}
	return agg
}

// noSessionProduced reports whether every platform failed at the
// acquisition step itself. A session lost mid-workflow (a navigation
// error, a destroyed page) stays a per-platform failure.
func noSessionProduced(results []workflow.Result) bool {
	for _, r := range results {
		if r.Success || !r.NoSession {
			return false
		}
	}
	return true
}
