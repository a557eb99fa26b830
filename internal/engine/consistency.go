package engine

import (
	"math"
	"strings"
)

// transcriptMatch cross-checks the audio against the transcript's expected
// shape and returns a match score in [0,1]. Three independent checks are
// combined: duration ratio (0.4), energy pattern (0.4) and silence
// distribution (0.2). The duration check assumes an average of half a second
// per word; the energy check scores the per-chunk variation against the
// 0.2-0.6 band typical of natural speech.
func (e *Engine) transcriptMatch(energy []float64, duration float64, transcript string) float64 {
	wordCount := len(strings.Fields(transcript))
	expectedDuration := float64(wordCount) * 0.5

	var durationRatio float64
	if maxD := math.Max(duration, expectedDuration); maxD > 0 {
		durationRatio = math.Min(duration, expectedDuration) / maxD
	}

	sentences := splitSentences(transcript)
	numSegments := len(sentences)
	if numSegments < 3 {
		numSegments = 3
	}
	segmentLen := len(energy) / numSegments
	if segmentLen < 5 {
		return 0.8 // not enough frames per chunk to judge
	}

	var segmentMeans []float64
	for i := 0; i+segmentLen <= len(energy); i += segmentLen {
		segmentMeans = append(segmentMeans, mean(energy[i:i+segmentLen]))
	}
	energyVariation := 0.0
	if m := mean(segmentMeans); m > 0 {
		energyVariation = stdDev(segmentMeans) / m
	}
	var energyMatch float64
	if energyVariation <= 0.6 {
		energyMatch = math.Min(1, energyVariation/0.4)
	} else {
		energyMatch = math.Max(0, 1-(energyVariation-0.6)/0.4)
	}

	silences := detectSilence(energy, e.cfg.SampleRate, e.cfg.HopLength,
		e.cfg.MinSilenceDuration, e.cfg.SilenceThresholdFactor)
	expectedSilences := len(sentences) - 1
	if expectedSilences < 1 {
		expectedSilences = 1
	}
	silenceRatio := math.Min(float64(len(silences)), float64(expectedSilences)) / float64(expectedSilences)

	return clamp01(durationRatio*0.4 + energyMatch*0.4 + silenceRatio*0.2)
}
