package model

// Language codes detected from transcripts
const (
	LanguageEnglish    = "en"
	LanguageVietnamese = "vi"
)

// Grade letters, best to worst. The two lowest buckets both surface as F.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// FluencyResult holds the metrics, grade and diagnostics of a single evaluation.
// It is created once per evaluation and never mutated afterwards.
type FluencyResult struct {
	Language              string   `json:"language"`
	OverallScore          string   `json:"overall_score"`
	WPM                   float64  `json:"wpm"`
	PauseFrequency        float64  `json:"pause_frequency"`
	AveragePauseDuration  float64  `json:"average_pause_duration"`
	FillerWordCount       float64  `json:"filler_word_count"`
	PitchVariation        float64  `json:"pitch_variation"`
	RepetitionCount       int      `json:"repetition_count"`
	RepetitiveWords       []string `json:"repetitive_words"`
	SpeechRateConsistency float64  `json:"speech_rate_consistency"`

	// Vietnamese submissions only
	HumanLikelihoodScore *float64 `json:"human_likelihood_score,omitempty"`
	AudioTranscriptMatch *float64 `json:"audio_transcript_match,omitempty"`

	// Set when the evaluation failed terminally; OverallScore is F in that case
	Error string `json:"error,omitempty"`
}

// Failed reports whether the evaluation ended in a terminal failure.
func (r *FluencyResult) Failed() bool {
	return r.Error != ""
}

// Submission is one batch entry: a transcript and its base64-encoded audio proof.
// Index defaults to the 1-based position when the caller leaves it unset.
type Submission struct {
	Index       int    `json:"index,omitempty"`
	Answer      string `json:"answer"`
	RecordProof string `json:"recordProof"`
}

// SubmissionScore is the per-submission entry of a batch result.
type SubmissionScore struct {
	Index      int     `json:"index"`
	Comment    string  `json:"comment"`
	Score      string  `json:"score"`
	Percentage float64 `json:"percentage"`
}

// BatchResult aggregates the scores of a whole batch. The skill grade is derived
// only from successfully scored submissions.
type BatchResult struct {
	Scores   []SubmissionScore `json:"scores"`
	Grade    string            `json:"grade"`
	Feedback []string          `json:"feedback"`
}
