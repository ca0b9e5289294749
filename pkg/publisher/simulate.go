package publisher

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crosspub/crosspub/pkg/workflow"
)

// simulateRunner reports a synthetic success for every platform without
// touching a browser. It exists to exercise the reporting and
// aggregation path end to end.
type simulateRunner struct {
	delay time.Duration
}

func newSimulateRunner() *simulateRunner {
	return &simulateRunner{delay: 200 * time.Millisecond}
}

func (r *simulateRunner) Run(ctx context.Context, platform string, req workflow.Request) workflow.Result {
	if _, err := workflow.Get(platform); err != nil {
		return workflow.Result{
			Platform:  platform,
			ErrorKind: workflow.KindPreflight,
			Message:   err.Error(),
		}
	}

	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return workflow.Result{
			Platform:  platform,
			ErrorKind: workflow.KindSession,
			Message:   "publish cancelled",
		}
	}

	return workflow.Result{
		Platform:      platform,
		Success:       true,
		RemoteVideoID: "sim-" + uuid.New().String(),
		Message:       "simulated publish of " + req.VideoPath,
	}
}
