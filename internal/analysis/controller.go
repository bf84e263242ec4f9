// Package analysis owns the request lifecycle for one analysis session: the
// input is validated, at most one scoring request runs at a time, and the
// outcome lands in a single atomically replaced state snapshot.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/fraudlens/fraudlens-go/internal/address"
	"github.com/fraudlens/fraudlens-go/internal/scoring"
)

// Phase is where the current attempt stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing messages for failures the service didn't describe itself.
const (
	MsgAnalyzeFailed      = "Failed to analyze address"
	MsgServiceUnreachable = "Could not reach the analysis service. Please check that it is running and try again."
)

// Snapshot is one observable state of the controller. Result is set only in
// PhaseSucceeded, Err only in PhaseFailed.
type Snapshot struct {
	Phase   Phase
	Address string
	Result  *scoring.Result
	Err     string
}

// Controller is the analysis state machine. Submissions replace the previous
// state wholesale; a completion belonging to a superseded submission is
// discarded via the generation counter rather than applied late.
type Controller struct {
	client *scoring.Client
	logger *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state Snapshot
}

// NewController creates a controller in PhaseIdle.
func NewController(client *scoring.Client, logger *slog.Logger) *Controller {
	return &Controller{client: client, logger: logger}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one full analysis attempt and returns the terminal snapshot.
// Validation failures never reach the network. While the request is in
// flight the observable phase is PhaseLoading; every outcome path clears it
// exactly once.
func (c *Controller) Submit(ctx context.Context, raw string) Snapshot {
	addr, err := address.Validate(raw)
	if err != nil {
		c.mu.Lock()
		c.gen++
		c.state = Snapshot{Phase: PhaseFailed, Address: strings.TrimSpace(raw), Err: err.Error()}
		snap := c.state
		c.mu.Unlock()
		return snap
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = Snapshot{Phase: PhaseLoading, Address: addr}
	c.mu.Unlock()

	c.logger.Info("analysis started", "address", addr)
	result, err := c.client.Analyze(ctx, addr)
	return c.finish(gen, addr, result, err)
}

// finish applies the outcome of the attempt identified by gen. If a newer
// submission has started since, the outcome is stale and dropped.
func (c *Controller) finish(gen uint64, addr string, result *scoring.Result, err error) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.logger.Debug("stale analysis result discarded", "address", addr)
		return c.state
	}

	switch {
	case err == nil:
		c.state = Snapshot{Phase: PhaseSucceeded, Address: addr, Result: result}
		c.logger.Info("analysis succeeded",
			"address", addr,
			"verdict", result.Verdict,
			"confidence", result.Confidence,
		)
	default:
		c.state = Snapshot{Phase: PhaseFailed, Address: addr, Err: failureMessage(err)}
		c.logger.Warn("analysis failed", "address", addr, "err", err)
	}
	return c.state
}

// failureMessage maps a scoring error onto the message shown to the user:
// the service's own error text when it sent one, a generic analysis failure
// when it didn't, and the connectivity diagnostic for everything the service
// never answered.
func failureMessage(err error) string {
	var svcErr *scoring.ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Message != "" {
			return svcErr.Message
		}
		return MsgAnalyzeFailed
	}
	return MsgServiceUnreachable
}
