package engine

import (
	"fmt"

	"fluentvox/pkg/model"
)

// Feedback turns an evaluation result into actionable suggestions. Each rule
// is evaluated independently and the order is fixed: speaking rate, pauses,
// fillers, repetitions, rate consistency, then the Vietnamese-only
// authenticity and transcript-match rules.
func (e *Engine) Feedback(result *model.FluencyResult) []string {
	if result == nil {
		return nil
	}
	profile := e.cfg.profile(result.Language)
	var feedback []string

	if result.WPM < profile.WPM.Min {
		feedback = append(feedback, fmt.Sprintf(
			"Your speaking rate of %.1f words per minute is slower than the recommended %.0f-%.0f wpm range. Consider practicing speaking at a slightly faster pace.",
			result.WPM, profile.WPM.Min, profile.WPM.Max))
	} else if result.WPM > profile.WPM.Max {
		feedback = append(feedback, fmt.Sprintf(
			"Your speaking rate of %.1f words per minute is faster than the recommended %.0f-%.0f wpm range. Try slowing down a bit to improve clarity.",
			result.WPM, profile.WPM.Min, profile.WPM.Max))
	}

	if result.PauseFrequency > profile.PauseFrequency.Max {
		feedback = append(feedback, fmt.Sprintf(
			"You're pausing too frequently (%.1f pauses per minute). Try to speak in longer, more complete phrases.",
			result.PauseFrequency))
	}

	if result.AveragePauseDuration > profile.PauseDuration.Max {
		feedback = append(feedback, fmt.Sprintf(
			"Your pauses are quite long (average %.2f seconds). Work on reducing pause duration to maintain listener engagement.",
			result.AveragePauseDuration))
	}

	if result.FillerWordCount > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"You used %.0f filler words. Reducing these will make your speech sound more confident.",
			result.FillerWordCount))
	}

	if result.RepetitionCount > 5 {
		feedback = append(feedback, fmt.Sprintf(
			"You repeated some words excessively (%d instances). Try to use more varied vocabulary.",
			result.RepetitionCount))
	}

	if result.SpeechRateConsistency < 0.6 {
		feedback = append(feedback,
			"Your speaking pace varies considerably. Practice maintaining a more consistent rate of speech.")
	}

	if result.Language == model.LanguageVietnamese {
		if result.HumanLikelihoodScore != nil && *result.HumanLikelihoodScore < 0.7 {
			feedback = append(feedback,
				"Your speech patterns seem somewhat artificial or rehearsed. Try to speak more naturally and conversationally.")
		}
		if result.AudioTranscriptMatch != nil && *result.AudioTranscriptMatch < 0.7 {
			feedback = append(feedback,
				"There appears to be some mismatch between your audio and transcript. Please ensure you're speaking the exact words in the transcript.")
		}
	}

	return feedback
}
