package runstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"faqbot/types"
)

// MemoryStore keeps runs in two maps: active and completed. Runs move to
// completed exactly once, when the last center reports.
type MemoryStore struct {
	mu        sync.Mutex
	active    map[string]*types.BatchRun
	completed map[string]*types.BatchRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		active:    make(map[string]*types.BatchRun),
		completed: make(map[string]*types.BatchRun),
	}
}

func (s *MemoryStore) Create(_ context.Context, total int) (*types.BatchRun, error) {
	run := &types.BatchRun{
		RunID:        uuid.New().String(),
		Status:       types.RunRunning,
		TotalCenters: total,
		StartedAt:    time.Now(),
		Errors:       []string{},
		Results:      []types.EventDiscoveryResult{},
	}

	s.mu.Lock()
	s.active[run.RunID] = run
	s.mu.Unlock()

	return snapshot(run), nil
}

func (s *MemoryStore) Get(_ context.Context, runID string) (*types.BatchRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.active[runID]; ok {
		return snapshot(run), nil
	}
	if run, ok := s.completed[runID]; ok {
		return snapshot(run), nil
	}
	return nil, types.ErrRunNotFound
}

func (s *MemoryStore) RecordResult(_ context.Context, runID string, result types.EventDiscoveryResult) error {
	return s.update(runID, func(run *types.BatchRun) {
		run.Results = append(run.Results, result)
		run.ProcessedCenters++
		run.SuccessfulCenters++
	})
}

func (s *MemoryStore) RecordError(_ context.Context, runID string, result types.EventDiscoveryResult, msg string) error {
	return s.update(runID, func(run *types.BatchRun) {
		run.Results = append(run.Results, result)
		run.Errors = append(run.Errors, msg)
		run.ProcessedCenters++
		run.FailedCenters++
	})
}

func (s *MemoryStore) MarkFailed(_ context.Context, runID string, msg string) error {
	return s.update(runID, func(run *types.BatchRun) {
		run.Status = types.RunFailed
		run.Errors = append(run.Errors, msg)
	})
}

func (s *MemoryStore) update(runID string, fn func(*types.BatchRun)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.active[runID]
	if !ok {
		if run, ok = s.completed[runID]; !ok {
			return types.ErrRunNotFound
		}
	}

	fn(run)

	if run.Status == types.RunRunning && run.ProcessedCenters >= run.TotalCenters {
		now := time.Now()
		run.CompletedAt = &now
		run.Status = types.RunCompleted
	}
	if run.Status != types.RunRunning {
		if run.CompletedAt == nil {
			now := time.Now()
			run.CompletedAt = &now
		}
		delete(s.active, run.RunID)
		s.completed[run.RunID] = run
	}
	return nil
}

// snapshot copies a run so callers never see later mutations.
func snapshot(run *types.BatchRun) *types.BatchRun {
	out := *run
	out.Errors = append([]string(nil), run.Errors...)
	out.Results = append([]types.EventDiscoveryResult(nil), run.Results...)
	if run.CompletedAt != nil {
		t := *run.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}
