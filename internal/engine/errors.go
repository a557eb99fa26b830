package engine

import "errors"

var (
	// ErrDecode marks audio bytes that could not be parsed into PCM samples
	ErrDecode = errors.New("audio decode failed")

	// ErrFeatureExtraction marks a signal-processing failure after a successful decode
	ErrFeatureExtraction = errors.New("feature extraction failed")

	// ErrInvalidSubmission marks a malformed batch entry
	ErrInvalidSubmission = errors.New("invalid submission")
)
