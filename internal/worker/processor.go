package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fluentvox/internal/engine"
	"fluentvox/internal/queue"
	"fluentvox/pkg/cache"
	"fluentvox/pkg/logger"
	"fluentvox/pkg/model"
	"fluentvox/pkg/resilience"
)

// OutcomePublisher sends a scored batch to the results queue.
type OutcomePublisher interface {
	PublishOutcome(outcome *queue.EvaluationOutcome) error
}

// Processor consumes evaluation tasks, scores them with the engine and
// publishes the outcome. Identical payloads are answered from the cache.
type Processor struct {
	engine    *engine.Engine
	cache     cache.Cache
	publisher OutcomePublisher
	limiter   *resilience.RateLimiter
}

// NewProcessor creates a new worker processor. cache and limiter may be nil
// to disable result caching and task rate limiting.
func NewProcessor(eng *engine.Engine, c cache.Cache, publisher OutcomePublisher, limiter *resilience.RateLimiter) *Processor {
	return &Processor{
		engine:    eng,
		cache:     c,
		publisher: publisher,
		limiter:   limiter,
	}
}

// ProcessTask handles one queued evaluation task end to end.
func (p *Processor) ProcessTask(taskData []byte) error {
	var task queue.EvaluationTask
	if err := json.Unmarshal(taskData, &task); err != nil {
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if task.TaskID == "" {
		task.TaskID = uuid.New().String()
	}

	logger.Info("Processing evaluation task",
		zap.String("task_id", task.TaskID),
		zap.Int("submissions", len(task.Submissions)))

	ctx := context.Background()

	if p.limiter != nil {
		waitCtx, cancel := context.WithTimeout(ctx, time.Minute)
		err := p.limiter.Wait(waitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("rate limit wait aborted: %w", err)
		}
	}

	digest := taskDigest(task.Submissions)

	if p.cache != nil {
		var cached model.BatchResult
		if err := p.cache.Get(ctx, cache.ResultCacheKey(digest), &cached); err == nil {
			logger.Info("Serving cached batch result",
				zap.String("task_id", task.TaskID),
				zap.String("digest", digest))
			return p.publish(&queue.EvaluationOutcome{
				TaskID:  task.TaskID,
				Result:  &cached,
				Success: true,
				Cached:  true,
			})
		}
	}

	result := p.engine.EvaluateBatch(ctx, task.Submissions)

	if p.cache != nil {
		if err := p.cache.Set(ctx, cache.ResultCacheKey(digest), result); err != nil {
			logger.Warn("Failed to cache batch result", zap.Error(err))
		}
	}

	logger.Info("Task completed",
		zap.String("task_id", task.TaskID),
		zap.String("grade", result.Grade))

	return p.publish(&queue.EvaluationOutcome{
		TaskID:  task.TaskID,
		Result:  result,
		Success: true,
	})
}

func (p *Processor) publish(outcome *queue.EvaluationOutcome) error {
	if err := p.publisher.PublishOutcome(outcome); err != nil {
		return fmt.Errorf("failed to publish outcome: %w", err)
	}
	return nil
}

// taskDigest fingerprints the submissions so identical payloads share a cache
// entry regardless of task id.
func taskDigest(submissions []model.Submission) string {
	h := sha256.New()
	for _, sub := range submissions {
		fmt.Fprintf(h, "%d\x00%s\x00%s\x00", sub.Index, sub.Answer, sub.RecordProof)
	}
	return hex.EncodeToString(h.Sum(nil))
}
