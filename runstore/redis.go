package runstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"faqbot/types"
)

const (
	keyPrefix = "runs:"
	runTTL    = 7 * 24 * time.Hour
)

// RedisStore persists runs as JSON blobs so run status survives restarts.
// Updates are read-modify-write serialized by a local mutex; a single
// instance owns its runs, so no cross-process locking is needed.
type RedisStore struct {
	mu     sync.Mutex
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, total int) (*types.BatchRun, error) {
	run := &types.BatchRun{
		RunID:        uuid.New().String(),
		Status:       types.RunRunning,
		TotalCenters: total,
		StartedAt:    time.Now(),
		Errors:       []string{},
		Results:      []types.EventDiscoveryResult{},
	}
	if err := s.save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *RedisStore) Get(ctx context.Context, runID string) (*types.BatchRun, error) {
	data, err := s.client.Get(ctx, keyPrefix+runID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var run types.BatchRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &run, nil
}

func (s *RedisStore) RecordResult(ctx context.Context, runID string, result types.EventDiscoveryResult) error {
	return s.update(ctx, runID, func(run *types.BatchRun) {
		run.Results = append(run.Results, result)
		run.ProcessedCenters++
		run.SuccessfulCenters++
	})
}

func (s *RedisStore) RecordError(ctx context.Context, runID string, result types.EventDiscoveryResult, msg string) error {
	return s.update(ctx, runID, func(run *types.BatchRun) {
		run.Results = append(run.Results, result)
		run.Errors = append(run.Errors, msg)
		run.ProcessedCenters++
		run.FailedCenters++
	})
}

func (s *RedisStore) MarkFailed(ctx context.Context, runID string, msg string) error {
	return s.update(ctx, runID, func(run *types.BatchRun) {
		run.Status = types.RunFailed
		run.Errors = append(run.Errors, msg)
	})
}

func (s *RedisStore) update(ctx context.Context, runID string, fn func(*types.BatchRun)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.Get(ctx, runID)
	if err != nil {
		return err
	}

	fn(run)

	if run.Status == types.RunRunning && run.ProcessedCenters >= run.TotalCenters {
		now := time.Now()
		run.CompletedAt = &now
		run.Status = types.RunCompleted
	}
	if run.Status != types.RunRunning && run.CompletedAt == nil {
		now := time.Now()
		run.CompletedAt = &now
	}

	return s.save(ctx, run)
}

func (s *RedisStore) save(ctx context.Context, run *types.BatchRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+run.RunID, data, runTTL).Err(); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}
