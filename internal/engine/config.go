package engine

import (
	"time"

	"fluentvox/pkg/model"
)

// Range is a (min, max, ideal) triple for one metric. Values closest to Ideal
// normalize to the best scores; equal bounds degrade to a trivially perfect score.
type Range struct {
	Min   float64
	Max   float64
	Ideal float64
}

// NewRange builds a range with an explicit ideal value.
func NewRange(min, max, ideal float64) Range {
	return Range{Min: min, Max: max, Ideal: ideal}
}

// NewRangeMid builds a range whose ideal defaults to the midpoint.
func NewRangeMid(min, max float64) Range {
	return Range{Min: min, Max: max, Ideal: (min + max) / 2}
}

// LanguageProfile holds the per-language metric ranges and lexicons.
type LanguageProfile struct {
	WPM            Range
	PauseFrequency Range
	PauseDuration  Range
	FillerRatio    Range
	PitchVariation Range

	FillerWords   map[string]bool
	FormalMarkers map[string]bool
	Disfluencies  map[string]bool
}

// Config carries every tunable of the scoring pipeline. It is constructed once,
// passed into New and treated as immutable from then on, so engines sharing a
// Config are safe to run concurrently.
type Config struct {
	SampleRate             int           // canonical decode rate in Hz
	FrameSize              int           // RMS frame length in samples
	HopLength              int           // RMS hop in samples
	MinSilenceDuration     float64       // seconds a below-threshold run must last
	SilenceThresholdFactor float64       // silence threshold = mean(energy) * factor
	MaxDuration            float64       // seconds of audio analyzed before truncation
	BatchConcurrency       int           // parallel submissions per batch
	SubmissionTimeout      time.Duration // wall-clock budget per submission, 0 disables

	Profiles  map[string]LanguageProfile
	StopWords map[string]bool
}

// DefaultConfig returns the reference pipeline parameters and the English and
// Vietnamese language profiles.
func DefaultConfig() Config {
	return Config{
		SampleRate:             22050,
		FrameSize:              512,
		HopLength:              256,
		MinSilenceDuration:     0.5,
		SilenceThresholdFactor: 0.5,
		MaxDuration:            300,
		BatchConcurrency:       4,
		SubmissionTimeout:      60 * time.Second,
		Profiles: map[string]LanguageProfile{
			model.LanguageEnglish: {
				WPM:            NewRange(80, 220, 150),
				PauseFrequency: NewRange(0, 40, 12),
				PauseDuration:  NewRange(0.2, 1.5, 0.6),
				FillerRatio:    NewRange(0.02, 0.3, 0.06),
				PitchVariation: NewRange(50, 300, 130),
				FillerWords: setOf(
					"um", "uh", "er", "like", "you", "know", "i", "mean", "so", "actually",
				),
				FormalMarkers: setOf(
					"therefore", "thus", "consequently", "furthermore", "moreover",
					"however", "nevertheless", "regarding",
				),
				Disfluencies: setOf(
					"um", "uh", "like", "you know", "i mean", "sort of",
				),
			},
			model.LanguageVietnamese: {
				WPM:            NewRange(70, 200, 140),
				PauseFrequency: NewRange(0, 45, 15),
				PauseDuration:  NewRange(0.2, 1.7, 0.7),
				FillerRatio:    NewRange(0.02, 0.3, 0.06),
				PitchVariation: NewRange(80, 350, 160),
				FillerWords: setOf(
					"à", "ừ", "ờ", "ư", "thì", "mà", "là", "kiểu", "tức là", "vậy đó",
				),
				FormalMarkers: setOf(
					"tuy nhiên", "mặc dù", "vì vậy", "do đó", "theo đó",
					"ngoài ra", "đồng thời", "xét về",
				),
				Disfluencies: setOf(
					"à", "ừ", "kiểu", "thì là", "tức là",
				),
			},
		},
		StopWords: setOf(
			"the", "a", "an", "and", "in", "on", "at", "to", "for", "with", "by", "of",
			"là", "và", "thì", "ở", "trong", "ngoài", "đó", "này", "kia",
		),
	}
}

// profile returns the profile for a language, falling back to English.
func (c Config) profile(language string) LanguageProfile {
	if p, ok := c.Profiles[language]; ok {
		return p
	}
	return c.Profiles[model.LanguageEnglish]
}

func setOf(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
