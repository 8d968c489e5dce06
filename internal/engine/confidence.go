package engine

import "strings"

// FilterByConfidence retains words at or above the threshold and joins
// the survivors with single spaces. Layout information (punctuation,
// line breaks) is deliberately lost here; callers that need line
// structure use the raw text instead. The filter is monotonic: a
// higher threshold never retains more words.
func FilterByConfidence(words []Word, threshold float64) ([]Word, string) {
	retained := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Confidence >= threshold {
			retained = append(retained, w)
		}
	}

	texts := make([]string, len(retained))
	for i, w := range retained {
		texts[i] = w.Text
	}
	return retained, strings.Join(texts, " ")
}

// AverageConfidence returns the mean confidence over words, or 0 when
// none were retained.
func AverageConfidence(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	return sum / float64(len(words))
}
