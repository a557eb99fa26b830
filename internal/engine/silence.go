package engine

// SilenceInterval is a span of seconds where the energy envelope stays below
// the dynamic silence threshold.
type SilenceInterval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (s SilenceInterval) Duration() float64 {
	return s.End - s.Start
}

// detectSilence walks the energy envelope and collects contiguous runs below
// mean(energy) * thresholdFactor that last at least minDuration seconds,
// including a trailing run extending to the end of the signal. Transitions are
// edge-triggered at the threshold crossing.
func detectSilence(energy []float64, rate, hop int, minDuration, thresholdFactor float64) []SilenceInterval {
	if len(energy) < 2 || rate <= 0 {
		return nil
	}

	threshold := mean(energy) * thresholdFactor
	frameTime := float64(hop) / float64(rate)

	var intervals []SilenceInterval
	inSilence := false
	start := 0
	for i, v := range energy {
		below := v < threshold
		switch {
		case below && !inSilence:
			inSilence = true
			start = i
		case !below && inSilence:
			inSilence = false
			if float64(i-start)*frameTime >= minDuration {
				intervals = append(intervals, SilenceInterval{
					Start: float64(start) * frameTime,
					End:   float64(i) * frameTime,
				})
			}
		}
	}
	if inSilence {
		end := len(energy)
		if float64(end-start)*frameTime >= minDuration {
			intervals = append(intervals, SilenceInterval{
				Start: float64(start) * frameTime,
				End:   float64(end) * frameTime,
			})
		}
	}
	return intervals
}

// averagePauseDuration is the mean length of the detected intervals in seconds.
func averagePauseDuration(intervals []SilenceInterval) float64 {
	if len(intervals) == 0 {
		return 0
	}
	var total float64
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total / float64(len(intervals))
}
