package parser

import "strings"

const (
	cidMarker = "(cid:"

	// minBadEncodedRatio is the corruption-marker density at which a page's
	// native text layer is considered unusable.
	minBadEncodedRatio = 0.1

	// Words longer than maxWordLen signal missing whitespace; a page where
	// more than maxLongWordRatio of the words are that long is "glued".
	maxWordLen       = 30
	maxLongWordRatio = 0.2
)

// IsBadEncodedText reports whether the text layer shows broken PDF encoding,
// i.e. the density of "(cid:" markers relative to an estimate of the word
// count reaches the threshold.
func IsBadEncodedText(text string) bool {
	if text == "" {
		return true
	}

	cidCount := strings.Count(text, cidMarker)

	wordEstimate := len(strings.Fields(text)) / len("(cid:  ")
	if wordEstimate < 1 {
		wordEstimate = 1
	}
	return float64(cidCount)/float64(wordEstimate) >= minBadEncodedRatio
}

// IsGluedText reports whether the text looks glued together, i.e. words are
// abnormally long because whitespace was lost during extraction.
func IsGluedText(text string) bool {
	if text == "" {
		return true
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return true
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return true
	}

	longWords := 0
	for _, w := range words {
		if len(w) > maxWordLen {
			longWords++
		}
	}
	return float64(longWords)/float64(len(words)) > maxLongWordRatio
}

// needsOCR decides whether the native text layer of a page is unusable and
// the page should be re-read through OCR.
func needsOCR(text string) bool {
	return strings.TrimSpace(text) == "" || IsBadEncodedText(text) || IsGluedText(text)
}
