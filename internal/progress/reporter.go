// internal/progress/reporter.go
package progress

import (
	"sync"
	"time"

	"github.com/bstardust/mediapick/internal/logger"
)

// Summary is a snapshot of a batch
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Reporter counts the outcome of a batch of picker operations
type Reporter struct {
	mu             sync.Mutex
	action         string
	summary        Summary
	failures       []string
	startTime      time.Time
	lastUpdateTime time.Time
	updateInterval time.Duration
}

// New creates a reporter; action names the operation in log lines ("resolve", "copy")
func New(action string) *Reporter {
	return &Reporter{
		action:         action,
		updateInterval: 2 * time.Second,
	}
}

// Start resets the counters for a batch of total items
func (r *Reporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary = Summary{Total: total}
	r.failures = nil
	r.startTime = time.Now()
	r.lastUpdateTime = r.startTime

	logger.Debug("Starting %s of %d items", r.action, total)
}

// Succeeded records a successful item
func (r *Reporter) Succeeded(item string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Succeeded++
	r.updateProgress()
}

// Failed records a failed item
func (r *Reporter) Failed(item string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Failed++
	r.failures = append(r.failures, item)
	r.updateProgress()
}

// Summary returns the current counters
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Failures returns the failed items in the order they were recorded
func (r *Reporter) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}

// Finish logs the batch result
func (r *Reporter) Finish() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	duration := time.Since(r.startTime)
	logger.Info("%s complete: %d/%d succeeded, %d failed in %s",
		r.action, r.summary.Succeeded, r.summary.Total, r.summary.Failed, duration.Round(time.Millisecond))
	return r.summary
}

// updateProgress logs progress at most once per update interval
func (r *Reporter) updateProgress() {
	now := time.Now()
	if now.Sub(r.lastUpdateTime) < r.updateInterval {
		return
	}
	r.lastUpdateTime = now

	processed := r.summary.Succeeded + r.summary.Failed
	if processed == 0 || r.summary.Total == 0 {
		return
	}

	percentage := float64(processed) / float64(r.summary.Total) * 100
	logger.Info("Progress: %.1f%% (%d/%d, %d failed)", percentage, processed, r.summary.Total, r.summary.Failed)
}
