package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"fluentvox/pkg/model"
)

// Characters that only occur in Vietnamese orthography. A single occurrence
// classifies the transcript as Vietnamese; this is a presence test, not a
// statistical classifier.
const vietnameseDiacritics = "àáảãạăằắẳẵặâầấẩẫậèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđ"

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// detectLanguage classifies a transcript as Vietnamese or English.
func detectLanguage(text string) string {
	if strings.ContainsAny(strings.ToLower(text), vietnameseDiacritics) {
		return model.LanguageVietnamese
	}
	return model.LanguageEnglish
}

// tokenize lowercases the text and extracts word-class tokens.
func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// splitSentences splits on terminal punctuation and drops blanks.
func splitSentences(text string) []string {
	var sentences []string
	for _, part := range sentencePattern.Split(text, -1) {
		if s := strings.TrimSpace(part); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// countFillerWords counts whitespace-delimited tokens found in the language's
// filler lexicon. Whole-token matches only, no stemming.
func countFillerWords(transcript string, fillers map[string]bool) int {
	count := 0
	for _, w := range strings.Fields(strings.ToLower(transcript)) {
		if fillers[w] {
			count++
		}
	}
	return count
}

// detectRepetitions finds tokens used more than 3 times that are not stop
// words and are longer than one rune. It returns the summed occurrence count
// of the qualifying tokens and the tokens themselves in first-seen order.
func detectRepetitions(transcript string, stopWords map[string]bool) (int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, w := range tokenize(transcript) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	total := 0
	repetitive := []string{}
	for _, w := range order {
		c := counts[w]
		if c > 3 && !stopWords[w] && utf8.RuneCountInString(w) > 1 {
			total += c
			repetitive = append(repetitive, w)
		}
	}
	return total, repetitive
}

// wordsPerMinute derives the speaking rate from the word count and duration.
func wordsPerMinute(numWords int, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(numWords) / (duration / 60)
}
