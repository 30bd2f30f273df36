// Package batch fans event discovery out over many centers with bounded
// concurrency and tracks progress in a run store.
package batch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"faqbot/metrics"
	"faqbot/runstore"
	"faqbot/types"
)

// Discoverer runs discovery for one center.
type Discoverer interface {
	Discover(ctx context.Context, center types.CenterInfo) *types.EventDiscoveryResult
}

// Notifier is told when a run finishes. Optional.
type Notifier interface {
	NotifyRunComplete(ctx context.Context, run *types.BatchRun) error
}

// Coordinator owns batch execution.
type Coordinator struct {
	store         runstore.Store
	discoverer    Discoverer
	notifier      Notifier
	maxConcurrent int
	log           *zap.Logger
}

func NewCoordinator(store runstore.Store, discoverer Discoverer, notifier Notifier, maxConcurrent int, log *zap.Logger) *Coordinator {
	if maxConcurrent < 1 {
		maxConcurrent = 5
	}
	return &Coordinator{
		store:         store,
		discoverer:    discoverer,
		notifier:      notifier,
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// CreateRun registers a run for the given centers and returns it without
// starting any work.
func (c *Coordinator) CreateRun(ctx context.Context, centers []types.CenterInfo) (*types.BatchRun, error) {
	run, err := c.store.Create(ctx, len(centers))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	c.log.Info("batch run created",
		zap.String("run_id", run.RunID), zap.Int("centers", len(centers)))
	return run, nil
}

// GetStatus returns the current snapshot of a run.
func (c *Coordinator) GetStatus(ctx context.Context, runID string) (*types.BatchRun, error) {
	return c.store.Get(ctx, runID)
}

// Process runs discovery for every center, at most maxConcurrent at a
// time, and records each outcome. Blocks until all centers have reported,
// then fires the completion notification.
func (c *Coordinator) Process(ctx context.Context, runID string, centers []types.CenterInfo, notify bool) {
	sem := make(chan struct{}, c.maxConcurrent)
	var wg sync.WaitGroup

	for _, center := range centers {
		wg.Add(1)
		sem <- struct{}{}
		go func(center types.CenterInfo) {
			defer wg.Done()
			defer func() { <-sem }()
			c.processCenter(ctx, runID, center)
		}(center)
	}
	wg.Wait()

	run, err := c.store.Get(ctx, runID)
	if err != nil {
		c.log.Error("could not load finished run", zap.String("run_id", runID), zap.Error(err))
		if mfErr := c.store.MarkFailed(ctx, runID, "run state unreadable after processing: "+err.Error()); mfErr != nil {
			c.log.Error("could not mark run failed", zap.String("run_id", runID), zap.Error(mfErr))
		}
		return
	}
	c.log.Info("batch run finished",
		zap.String("run_id", runID),
		zap.String("status", string(run.Status)),
		zap.Int("successful", run.SuccessfulCenters),
		zap.Int("failed", run.FailedCenters))

	if notify && c.notifier != nil {
		if err := c.notifier.NotifyRunComplete(ctx, run); err != nil {
			c.log.Warn("run completion notification failed",
				zap.String("run_id", runID), zap.Error(err))
		}
	}
}

// processCenter never lets one center take the batch down: panics and
// errors become a recorded failure for that center only.
func (c *Coordinator) processCenter(ctx context.Context, runID string, center types.CenterInfo) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("center %s (%s): panic: %v", center.CenterID, center.CenterName, r)
			c.log.Error("discovery panicked",
				zap.String("run_id", runID),
				zap.String("center_id", center.CenterID),
				zap.Any("panic", r))
			result := types.EventDiscoveryResult{
				CenterID:   center.CenterID,
				CenterName: center.CenterName,
				Status:     types.DiscoveryFailed,
				Message:    msg,
			}
			c.record(ctx, runID, result, msg)
		}
	}()

	result := c.discoverer.Discover(ctx, center)

	if result.Status == types.DiscoveryFailed {
		msg := fmt.Sprintf("center %s (%s): %s", center.CenterID, center.CenterName, result.Message)
		c.record(ctx, runID, *result, msg)
		return
	}

	metrics.BatchCenters.WithLabelValues(string(result.Status)).Inc()
	if err := c.store.RecordResult(ctx, runID, *result); err != nil {
		c.log.Error("could not record result",
			zap.String("run_id", runID),
			zap.String("center_id", center.CenterID),
			zap.Error(err))
	}
}

func (c *Coordinator) record(ctx context.Context, runID string, result types.EventDiscoveryResult, msg string) {
	metrics.BatchCenters.WithLabelValues(string(types.DiscoveryFailed)).Inc()
	if err := c.store.RecordError(ctx, runID, result, msg); err != nil {
		c.log.Error("could not record error",
			zap.String("run_id", runID),
			zap.String("center_id", result.CenterID),
			zap.Error(err))
	}
}
