package ocr

import (
	"strings"
	"unicode"
)

// maxNonAlnumRatio drops OCR lines that are mostly punctuation or box noise.
const maxNonAlnumRatio = 0.4

// CleanText strips OCR noise: lines with no alphanumeric characters at all,
// and lines where more than 40% of the characters are non-alphanumeric.
func CleanText(text string) string {
	var cleanLines []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		runes := []rune(line)
		nonAlnum := 0
		for _, r := range runes {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				nonAlnum++
			}
		}
		if nonAlnum == len(runes) {
			continue
		}
		if float64(nonAlnum)/float64(len(runes)) > maxNonAlnumRatio {
			continue
		}

		cleanLines = append(cleanLines, line)
	}

	return strings.Join(cleanLines, "\n")
}
