package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"fluentvox/pkg/model"
)

// EvaluateBatch scores every submission with per-item fault isolation: a bad
// entry (missing or undecodable record proof, decode failure, panic) produces
// an F entry with a diagnostic comment and never aborts the remaining items.
// Submissions run in parallel up to the configured concurrency; the aggregate
// grade is a symmetric function of the successful percentages, so processing
// order does not matter.
func (e *Engine) EvaluateBatch(ctx context.Context, submissions []model.Submission) *model.BatchResult {
	scores := make([]model.SubmissionScore, len(submissions))
	itemFeedback := make([][]string, len(submissions))
	percentages := make([]float64, len(submissions))
	succeeded := make([]bool, len(submissions))

	concurrency := e.cfg.BatchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i := range submissions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			scores[i], itemFeedback[i], percentages[i], succeeded[i] =
				e.evaluateSubmission(ctx, i, submissions[i])
		}(i)
	}
	wg.Wait()

	var sum float64
	scored := 0
	for i := range succeeded {
		if succeeded[i] {
			sum += percentages[i]
			scored++
		}
	}

	// Mean of the successful percentages through the same bucket mapping as
	// individual grades; failed items are excluded from the set entirely.
	grade := model.GradeF
	if scored > 0 {
		grade = gradeBuckets[gradeIndex(sum/float64(scored)/100)]
	}

	seen := make(map[string]bool)
	combined := []string{}
	for _, fb := range itemFeedback {
		for _, s := range fb {
			if !seen[s] {
				seen[s] = true
				combined = append(combined, s)
			}
		}
	}

	e.log.Info("batch evaluated",
		zap.Int("submissions", len(submissions)),
		zap.Int("scored", scored),
		zap.String("grade", grade))

	return &model.BatchResult{Scores: scores, Grade: grade, Feedback: combined}
}

// evaluateSubmission scores one batch entry. ok reports whether the submission
// was scored successfully and should count towards the aggregate.
func (e *Engine) evaluateSubmission(ctx context.Context, position int, sub model.Submission) (score model.SubmissionScore, feedback []string, percentage float64, ok bool) {
	index := sub.Index
	if index <= 0 {
		index = position + 1
	}
	score = model.SubmissionScore{Index: index, Score: model.GradeF}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("submission evaluation panicked",
				zap.Int("index", index), zap.Any("panic", r))
			score = model.SubmissionScore{
				Index:   index,
				Score:   model.GradeF,
				Comment: fmt.Sprintf("evaluation failed: %v", r),
			}
			feedback, percentage, ok = nil, 0, false
		}
	}()

	if strings.TrimSpace(sub.RecordProof) == "" {
		score.Comment = fmt.Errorf("%w: missing record proof", ErrInvalidSubmission).Error()
		return score, nil, 0, false
	}
	audio, err := base64.StdEncoding.DecodeString(sub.RecordProof)
	if err != nil {
		e.log.Warn("record proof is not valid base64",
			zap.Int("index", index), zap.Error(err))
		score.Comment = fmt.Errorf("%w: record proof is not valid base64", ErrInvalidSubmission).Error()
		return score, nil, 0, false
	}

	itemCtx := ctx
	if e.cfg.SubmissionTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, e.cfg.SubmissionTimeout)
		defer cancel()
	}

	result, composite := e.evaluate(itemCtx, audio, sub.Answer)
	if result.Failed() {
		score.Comment = result.Error
		return score, nil, 0, false
	}

	feedback = e.Feedback(result)
	percentage = round2(composite * 100)
	score = model.SubmissionScore{
		Index:      index,
		Score:      result.OverallScore,
		Percentage: percentage,
		Comment:    strings.Join(feedback, " "),
	}
	return score, feedback, percentage, true
}
