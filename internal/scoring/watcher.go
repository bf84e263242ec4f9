package scoring

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Watcher periodically probes the scoring service's health endpoint so the UI
// can tell the user whether the service is reachable before they submit.
type Watcher struct {
	client   *Client
	logger   *slog.Logger
	interval time.Duration

	mu        sync.RWMutex
	checked   bool
	reachable bool
}

// NewWatcher creates a watcher that probes every interval.
func NewWatcher(client *Client, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{client: client, logger: logger, interval: interval}
}

// Status reports the last probe outcome. checked is false until the first
// probe has completed.
func (w *Watcher) Status() (reachable, checked bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.reachable, w.checked
}

// Run probes immediately, then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *Watcher) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := w.client.Health(probeCtx)

	w.mu.Lock()
	wasReachable, wasChecked := w.reachable, w.checked
	w.reachable = err == nil
	w.checked = true
	w.mu.Unlock()

	// Log transitions only, not every probe.
	if !wasChecked || wasReachable != (err == nil) {
		if err != nil {
			w.logger.Warn("scoring service unreachable", "err", err)
		} else {
			w.logger.Info("scoring service reachable")
		}
	}
}
