package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_IdealScoresPerfect(t *testing.T) {
	r := NewRange(80, 220, 150)
	assert.Equal(t, 1.0, normalize(150, r))
}

func TestNormalize_AlwaysInUnitInterval(t *testing.T) {
	r := NewRange(0, 40, 12)
	for _, v := range []float64{-1e6, -40, -0.001, 0, 12, 39.9, 40, 41, 500, 1e9} {
		score := normalize(v, r)
		assert.GreaterOrEqual(t, score, 0.0, "value %v", v)
		assert.LessOrEqual(t, score, 1.0, "value %v", v)
	}
}

func TestNormalize_MonotonicAroundIdeal(t *testing.T) {
	r := NewRange(0.2, 1.5, 0.6)

	prev := normalize(0.6, r)
	for v := 0.7; v <= 1.5; v += 0.1 {
		score := normalize(v, r)
		assert.LessOrEqual(t, score, prev, "score must not increase moving away from ideal (value %v)", v)
		prev = score
	}

	prev = normalize(0.6, r)
	for v := 0.5; v >= 0.2; v -= 0.1 {
		score := normalize(v, r)
		assert.LessOrEqual(t, score, prev, "score must not increase moving away from ideal (value %v)", v)
		prev = score
	}
}

func TestNormalize_DegenerateRangeIsPerfect(t *testing.T) {
	r := NewRange(5, 5, 5)
	for _, v := range []float64{-10, 0, 5, 10000} {
		assert.Equal(t, 1.0, normalize(v, r))
	}
}

func TestNormalize_OutsideRangeDecays(t *testing.T) {
	r := NewRange(80, 220, 150)

	// one full range width below min scores zero
	assert.Equal(t, 0.0, normalize(80-140, r))
	// just outside decays but stays positive
	assert.Greater(t, normalize(79, r), 0.9)
	assert.Less(t, normalize(79, r), 1.0)
}

func TestNormalize_BoundScoresLessThanIdeal(t *testing.T) {
	r := NewRange(80, 220, 150)
	assert.Less(t, normalize(80, r), 1.0)
	assert.Less(t, normalize(220, r), 1.0)
}

func TestNewRangeMid_DefaultsIdealToMidpoint(t *testing.T) {
	r := NewRangeMid(10, 30)
	assert.Equal(t, 20.0, r.Ideal)
	assert.Equal(t, 1.0, normalize(20, r))
}

func TestNormalize_EndToEndWPM(t *testing.T) {
	// 150 words over 60 seconds is exactly the English ideal speaking rate
	wpm := wordsPerMinute(150, 60)
	assert.Equal(t, 150.0, wpm)

	profile := DefaultConfig().profile("en")
	assert.Equal(t, 1.0, normalize(wpm, profile.WPM))
}
