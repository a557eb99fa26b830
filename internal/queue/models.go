package queue

import (
	"time"

	"fluentvox/pkg/model"
)

// EvaluationTask is a batch of submissions queued for fluency scoring.
type EvaluationTask struct {
	TaskID      string             `json:"task_id"`
	Submissions []model.Submission `json:"submissions"`
	CreatedAt   time.Time          `json:"created_at"`
}

// EvaluationOutcome carries the scored batch back to the requesting side.
type EvaluationOutcome struct {
	TaskID       string             `json:"task_id"`
	Result       *model.BatchResult `json:"result,omitempty"`
	Success      bool               `json:"success"`
	ErrorMessage string             `json:"error_message,omitempty"`
	Cached       bool               `json:"cached,omitempty"`
}
