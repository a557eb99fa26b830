package engine

import (
	"fmt"
	"math"
)

// Vocal pitch search band, roughly C2 to C7.
const (
	pitchMinHz = 65.41
	pitchMaxHz = 2093.0

	pitchWindow  = 1024 // correlation window in samples
	pitchHop     = 512  // samples between pitch estimates
	yinThreshold = 0.15 // cumulative-mean dip accepted as voiced
)

// extractFeatures derives the short-time energy envelope, the pitch contour and
// the analyzed duration from a decoded sample. Signals longer than the
// configured maximum are truncated, not rejected. The returned error wraps
// ErrFeatureExtraction; callers substitute zero-filled features so that
// downstream metric computation stays total.
func (e *Engine) extractFeatures(sample AudioSample) (energy, pitch []float64, duration float64, err error) {
	if len(sample.Data) == 0 || sample.Rate <= 0 {
		return nil, nil, 0, fmt.Errorf("%w: no samples to analyze", ErrFeatureExtraction)
	}

	data := sample.Data
	duration = sample.Duration()
	if e.cfg.MaxDuration > 0 && duration > e.cfg.MaxDuration {
		data = data[:int(e.cfg.MaxDuration*float64(sample.Rate))]
		duration = e.cfg.MaxDuration
	}

	energy = rmsEnvelope(data, e.cfg.FrameSize, e.cfg.HopLength)
	pitch = yinPitch(data, sample.Rate)
	return energy, pitch, duration, nil
}

// rmsEnvelope computes the frame-wise root-mean-square energy. The final frame
// may be shorter than frameSize.
func rmsEnvelope(data []float64, frameSize, hop int) []float64 {
	if len(data) == 0 {
		return []float64{0}
	}
	env := make([]float64, 0, len(data)/hop+1)
	for start := 0; start < len(data); start += hop {
		end := start + frameSize
		if end > len(data) {
			end = len(data)
		}
		var sum float64
		for _, v := range data[start:end] {
			sum += v * v
		}
		env = append(env, math.Sqrt(sum/float64(end-start)))
	}
	return env
}

// yinPitch estimates the fundamental frequency per hop using the YIN method:
// a windowed difference function, cumulative-mean normalization, an absolute
// voicing threshold and parabolic refinement of the chosen lag. Unvoiced
// frames report 0.
func yinPitch(data []float64, rate int) []float64 {
	tauMin := int(float64(rate) / pitchMaxHz)
	if tauMin < 2 {
		tauMin = 2
	}
	tauMax := int(float64(rate) / pitchMinHz)
	frameLen := pitchWindow + tauMax
	if len(data) < frameLen {
		return make([]float64, len(data)/pitchHop+1)
	}

	frames := 1 + (len(data)-frameLen)/pitchHop
	pitches := make([]float64, frames)
	d := make([]float64, tauMax+1)
	cmnd := make([]float64, tauMax+1)

	for f := 0; f < frames; f++ {
		frame := data[f*pitchHop : f*pitchHop+frameLen]

		for tau := 1; tau <= tauMax; tau++ {
			var sum float64
			for j := 0; j < pitchWindow; j++ {
				diff := frame[j] - frame[j+tau]
				sum += diff * diff
			}
			d[tau] = sum
		}

		cmnd[0] = 1
		var running float64
		for tau := 1; tau <= tauMax; tau++ {
			running += d[tau]
			if running == 0 {
				cmnd[tau] = 1
			} else {
				cmnd[tau] = d[tau] * float64(tau) / running
			}
		}

		tau := -1
		for t := tauMin; t <= tauMax; t++ {
			if cmnd[t] < yinThreshold {
				for t+1 <= tauMax && cmnd[t+1] < cmnd[t] {
					t++
				}
				tau = t
				break
			}
		}
		if tau < 0 {
			continue // unvoiced frame
		}

		lag := float64(tau)
		if tau > 1 && tau < tauMax {
			s0, s1, s2 := cmnd[tau-1], cmnd[tau], cmnd[tau+1]
			if denom := 2 * (2*s1 - s2 - s0); denom != 0 {
				lag += (s2 - s0) / denom
			}
		}
		if lag > 0 {
			pitches[f] = float64(rate) / lag
		}
	}
	return pitches
}

// pitchVariation is the standard deviation of the voiced part of the contour.
func pitchVariation(pitch []float64) float64 {
	var voiced []float64
	for _, p := range pitch {
		if p > 0 {
			voiced = append(voiced, p)
		}
	}
	if len(voiced) < 2 {
		return 0
	}
	return stdDev(voiced)
}

// speechRateConsistency chunks the first minute of audio into 3-second windows,
// estimates an onset rate per chunk from the rectified energy flux, and maps
// the coefficient of variation of those rates into [0,1]. Too little audio or
// too few usable chunks default to perfectly consistent.
func (e *Engine) speechRateConsistency(sample AudioSample) float64 {
	data, rate := sample.Data, sample.Rate
	if rate <= 0 || len(data) < rate {
		return 1.0
	}
	if maxSamples := 60 * rate; len(data) > maxSamples {
		data = data[:maxSamples]
	}

	const chunkSeconds = 3
	chunkSamples := chunkSeconds * rate
	var rates []float64
	for i := 0; i+chunkSamples/2 <= len(data); i += chunkSamples {
		end := i + chunkSamples
		if end > len(data) {
			end = len(data)
		}
		env := rmsEnvelope(data[i:end], 1024, 512)
		if peaks := countOnsetPeaks(env); peaks > 0 {
			rates = append(rates, float64(peaks)/chunkSeconds)
		}
	}
	if len(rates) < 2 {
		return 1.0
	}

	m := mean(rates)
	if m <= 0 {
		return 1.0
	}
	cv := stdDev(rates) / m
	return clamp01(1 - cv/0.5)
}

// countOnsetPeaks picks spaced local maxima in the half-wave rectified first
// difference of an energy envelope. A candidate must dominate its +-3 frame
// neighbourhood, clear the local mean by half a standard deviation, and sit at
// least 10 frames after the previous peak.
func countOnsetPeaks(env []float64) int {
	if len(env) < 8 {
		return 0
	}
	flux := make([]float64, len(env))
	for i := 1; i < len(env); i++ {
		if d := env[i] - env[i-1]; d > 0 {
			flux[i] = d
		}
	}
	delta := 0.5 * stdDev(flux)

	count := 0
	last := -10
	for i := 3; i < len(flux)-3; i++ {
		if flux[i] <= 0 || i-last < 10 {
			continue
		}
		isMax := true
		for j := i - 3; j <= i+3; j++ {
			if flux[j] > flux[i] {
				isMax = false
				break
			}
		}
		if !isMax {
			continue
		}
		lo, hi := i-3, i+6
		if hi > len(flux) {
			hi = len(flux)
		}
		if flux[i] >= mean(flux[lo:hi])+delta {
			count++
			last = i
		}
	}
	return count
}
