// Package engine implements the speech-fluency scoring pipeline: audio
// decoding, energy/pitch feature extraction, silence segmentation, linguistic
// analysis, metric normalization, grading, feedback and batch aggregation.
package engine

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"fluentvox/pkg/model"
)

// Engine evaluates speech submissions against an immutable Config. A single
// Engine is safe for concurrent use; every evaluation owns its decoded buffers
// exclusively and shares no mutable state with any other.
type Engine struct {
	cfg Config
	log *zap.Logger
}

// New creates an Engine. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Grade buckets from best to worst; the two lowest both surface as F, making
// F the terminal non-recoverable grade.
var gradeBuckets = [6]string{
	model.GradeA, model.GradeB, model.GradeC, model.GradeD, model.GradeF, model.GradeF,
}

// gradeIndex maps a composite score in [0,1] onto a bucket index.
func gradeIndex(score float64) int {
	idx := 5 - int(math.Round(score*5))
	if idx < 0 {
		return 0
	}
	if idx > 5 {
		return 5
	}
	return idx
}

// Evaluate scores a single audio+transcript pair. Failures are never
// propagated: a decode or pipeline error yields a terminal result graded F
// with the Error field describing the failure.
func (e *Engine) Evaluate(ctx context.Context, audio []byte, transcript string) *model.FluencyResult {
	result, _ := e.evaluate(ctx, audio, transcript)
	return result
}

// evaluate runs the full pipeline and additionally returns the composite
// score in [0,1] for batch percentage aggregation.
func (e *Engine) evaluate(ctx context.Context, audio []byte, transcript string) (*model.FluencyResult, float64) {
	language := detectLanguage(transcript)

	sample, err := e.decode(audio)
	if err != nil {
		e.log.Warn("audio decode failed", zap.String("language", language), zap.Error(err))
		return failureResult(language, "audio processing failed"), 0
	}
	if ctx.Err() != nil {
		return failureResult(language, "evaluation cancelled: "+ctx.Err().Error()), 0
	}

	energy, pitch, duration, err := e.extractFeatures(sample)
	if err != nil {
		// Substitute zero features so metric computation stays total.
		e.log.Warn("feature extraction failed, using zero features", zap.Error(err))
		energy, pitch = []float64{0}, []float64{0}
	}
	if duration <= 0 {
		duration = 1.0 // guard divisions below
	}
	if ctx.Err() != nil {
		return failureResult(language, "evaluation cancelled: "+ctx.Err().Error()), 0
	}

	silences := detectSilence(energy, e.cfg.SampleRate, e.cfg.HopLength,
		e.cfg.MinSilenceDuration, e.cfg.SilenceThresholdFactor)

	profile := e.cfg.profile(language)
	numWords := len(strings.Fields(transcript))

	wpm := wordsPerMinute(numWords, duration)
	pauseFrequency := float64(len(silences)) / (duration / 60)
	avgPauseDuration := averagePauseDuration(silences)
	fillerCount := countFillerWords(transcript, profile.FillerWords)
	pitchVar := pitchVariation(pitch)
	fillerRatio := float64(fillerCount) / math.Max(1, float64(numWords))

	composite := clamp01(
		0.25*normalize(wpm, profile.WPM) +
			0.25*normalize(pauseFrequency, profile.PauseFrequency) +
			0.20*normalize(avgPauseDuration, profile.PauseDuration) +
			0.20*normalize(fillerRatio, profile.FillerRatio) +
			0.10*normalize(pitchVar, profile.PitchVariation))

	idx := gradeIndex(composite)
	repetitionCount, repetitiveWords := detectRepetitions(transcript, e.cfg.StopWords)
	consistency := e.speechRateConsistency(sample)

	result := &model.FluencyResult{
		Language:              language,
		OverallScore:          gradeBuckets[idx],
		WPM:                   round2(wpm),
		PauseFrequency:        round2(pauseFrequency),
		AveragePauseDuration:  round2(avgPauseDuration),
		FillerWordCount:       float64(fillerCount),
		PitchVariation:        round2(pitchVar),
		RepetitionCount:       repetitionCount,
		RepetitiveWords:       repetitiveWords,
		SpeechRateConsistency: round2(consistency),
	}

	if language == model.LanguageVietnamese {
		human := detectGeneratedText(transcript, profile)
		match := e.transcriptMatch(energy, duration, transcript)
		result.HumanLikelihoodScore = &human
		result.AudioTranscriptMatch = &match

		// Either signal demotes by exactly one bucket, never cumulatively.
		if human < 0.5 {
			result.OverallScore = gradeBuckets[minIndex(idx+1)]
		}
		if match < 0.7 {
			result.OverallScore = gradeBuckets[minIndex(idx+1)]
		}
	}

	e.log.Info("fluency evaluated",
		zap.String("language", language),
		zap.String("grade", result.OverallScore),
		zap.Float64("wpm", result.WPM),
		zap.Float64("duration", duration),
		zap.Int("silences", len(silences)))

	return result, composite
}

func minIndex(idx int) int {
	if idx > 5 {
		return 5
	}
	return idx
}

// failureResult is the terminal result substituted when the pipeline cannot
// produce trustworthy metrics. Defaults are zero, not best-effort partials.
func failureResult(language, message string) *model.FluencyResult {
	return &model.FluencyResult{
		Language:        language,
		OverallScore:    model.GradeF,
		RepetitiveWords: []string{},
		Error:           message,
	}
}
