package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fluentvox/internal/engine"
	"fluentvox/internal/queue"
	"fluentvox/pkg/model"
	"fluentvox/pkg/resilience"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOutcome(outcome *queue.EvaluationOutcome) error {
	args := m.Called(outcome)
	return args.Error(0)
}

func testEngine() *engine.Engine {
	return engine.New(engine.DefaultConfig(), nil)
}

func taskJSON(t *testing.T) []byte {
	t.Helper()
	// a submission without record proof is scored F without touching audio
	return []byte(`{"task_id":"task-1","submissions":[{"index":1,"answer":"my answer"}]}`)
}

func TestProcessTask_InvalidJSON(t *testing.T) {
	processor := NewProcessor(testEngine(), nil, new(MockPublisher), nil)

	err := processor.ProcessTask([]byte("{not json"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestProcessTask_PublishesOutcome(t *testing.T) {
	publisher := new(MockPublisher)
	var published *queue.EvaluationOutcome
	publisher.On("PublishOutcome", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(0).(*queue.EvaluationOutcome)
	}).Return(nil)

	processor := NewProcessor(testEngine(), nil, publisher, nil)

	err := processor.ProcessTask(taskJSON(t))

	require.NoError(t, err)
	publisher.AssertNumberOfCalls(t, "PublishOutcome", 1)
	require.NotNil(t, published)
	assert.Equal(t, "task-1", published.TaskID)
	assert.True(t, published.Success)
	assert.False(t, published.Cached)
	require.NotNil(t, published.Result)
	assert.Len(t, published.Result.Scores, 1)
}

func TestProcessTask_GeneratesTaskID(t *testing.T) {
	publisher := new(MockPublisher)
	var published *queue.EvaluationOutcome
	publisher.On("PublishOutcome", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(0).(*queue.EvaluationOutcome)
	}).Return(nil)

	processor := NewProcessor(testEngine(), nil, publisher, nil)

	err := processor.ProcessTask([]byte(`{"submissions":[]}`))

	require.NoError(t, err)
	require.NotNil(t, published)
	assert.NotEmpty(t, published.TaskID)
}

func TestProcessTask_CacheMissStoresResult(t *testing.T) {
	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("key not found"))
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	publisher := new(MockPublisher)
	publisher.On("PublishOutcome", mock.Anything).Return(nil)

	processor := NewProcessor(testEngine(), c, publisher, nil)

	err := processor.ProcessTask(taskJSON(t))

	require.NoError(t, err)
	c.AssertCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNumberOfCalls(t, "PublishOutcome", 1)
}

func TestProcessTask_CacheHitSkipsEvaluation(t *testing.T) {
	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(2).(*model.BatchResult)
		*dest = model.BatchResult{Grade: model.GradeA, Scores: []model.SubmissionScore{}}
	}).Return(nil)

	publisher := new(MockPublisher)
	var published *queue.EvaluationOutcome
	publisher.On("PublishOutcome", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(0).(*queue.EvaluationOutcome)
	}).Return(nil)

	processor := NewProcessor(testEngine(), c, publisher, nil)

	err := processor.ProcessTask(taskJSON(t))

	require.NoError(t, err)
	require.NotNil(t, published)
	assert.True(t, published.Cached)
	assert.Equal(t, model.GradeA, published.Result.Grade)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessTask_PublishFailure(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("PublishOutcome", mock.Anything).Return(errors.New("channel closed"))

	processor := NewProcessor(testEngine(), nil, publisher, nil)

	err := processor.ProcessTask(taskJSON(t))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "publish")
}

func TestProcessTask_WithRateLimiter(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("PublishOutcome", mock.Anything).Return(nil)

	limiter := resilience.NewRateLimiter(100, time.Millisecond)
	processor := NewProcessor(testEngine(), nil, publisher, limiter)

	err := processor.ProcessTask(taskJSON(t))

	assert.NoError(t, err)
}

func TestTaskDigest(t *testing.T) {
	a := []model.Submission{{Index: 1, Answer: "hello", RecordProof: "proof"}}
	b := []model.Submission{{Index: 1, Answer: "hello", RecordProof: "proof"}}
	c := []model.Submission{{Index: 2, Answer: "hello", RecordProof: "proof"}}

	assert.Equal(t, taskDigest(a), taskDigest(b))
	assert.NotEqual(t, taskDigest(a), taskDigest(c))
	assert.Len(t, taskDigest(a), 64)
	assert.Len(t, taskDigest(nil), 64)
}
