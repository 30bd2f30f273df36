// Package runstore tracks batch runs and their per-center outcomes.
package runstore

import (
	"context"

	"faqbot/types"
)

// Store records batch run state. Implementations must apply updates
// atomically so concurrent center completions never drop counter
// increments, and must move a run to completed once every center reported.
type Store interface {
	// Create registers a new running batch over total centers.
	Create(ctx context.Context, total int) (*types.BatchRun, error)
	// Get returns a snapshot of a run, active or completed.
	// Returns types.ErrRunNotFound for unknown IDs.
	Get(ctx context.Context, runID string) (*types.BatchRun, error)
	// RecordResult appends a successful or partial center result.
	RecordResult(ctx context.Context, runID string, result types.EventDiscoveryResult) error
	// RecordError appends a failed center with its error message.
	RecordError(ctx context.Context, runID string, result types.EventDiscoveryResult, msg string) error
	// MarkFailed flags the whole run as failed, for setup errors.
	MarkFailed(ctx context.Context, runID string, msg string) error
}
