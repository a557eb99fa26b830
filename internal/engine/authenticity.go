package engine

import (
	"math"
	"strings"
)

// Weights of the five authenticity sub-features. Formality and 3-gram
// repetition are inverted in the sum since higher values read as less human.
const (
	authWeightLexicalDiversity  = 0.30
	authWeightSentenceVariation = 0.20
	authWeightRepetition        = 0.20
	authWeightFormality         = 0.15
	authWeightDisfluency        = 0.15
)

// detectGeneratedText estimates whether a transcript reads as naturally spoken
// rather than artificially composed. It returns a score in [0,1] where 1 is
// confidently human. Transcripts too short to judge (<10 tokens or <2
// sentences) score a perfect 1.0: humanness cannot be disproved from so
// little text.
func detectGeneratedText(transcript string, profile LanguageProfile) float64 {
	words := tokenize(transcript)
	if len(words) < 10 {
		return 1.0
	}

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[w] = true
	}
	lexicalDiversity := float64(len(unique)) / float64(len(words))

	sentences := splitSentences(transcript)
	if len(sentences) < 2 {
		return 1.0
	}
	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(tokenize(s)))
	}
	sentenceVariation := stdDev(lengths) / math.Max(1, mean(lengths))

	trigrams := make(map[string]int)
	total := 0
	for i := 0; i+3 <= len(words); i++ {
		trigrams[strings.Join(words[i:i+3], " ")]++
		total++
	}
	repeated := 0
	for _, c := range trigrams {
		if c > 1 {
			repeated++
		}
	}
	repetitionScore := math.Min(1, float64(repeated)/math.Max(1, float64(total)/10))

	formalCount := 0
	for _, w := range words {
		if profile.FormalMarkers[w] {
			formalCount++
		}
	}
	formalityScore := math.Min(1, float64(formalCount)/math.Max(1, float64(len(words))/20))

	disfluencyCount := 0
	for _, w := range words {
		if profile.Disfluencies[w] {
			disfluencyCount++
		}
	}
	disfluencyScore := math.Min(1, float64(disfluencyCount)/math.Max(1, float64(len(words))/30))

	humanScore := lexicalDiversity*authWeightLexicalDiversity +
		sentenceVariation*authWeightSentenceVariation +
		(1-repetitionScore)*authWeightRepetition +
		(1-formalityScore)*authWeightFormality +
		disfluencyScore*authWeightDisfluency

	return clamp01(humanScore)
}
