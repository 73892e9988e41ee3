package parser

import (
	"strings"
	"testing"
)

func TestIsBadEncodedText_CorruptionMarkers(t *testing.T) {
	corrupted := strings.Repeat("(cid:3)(cid:72)(cid:85) ", 40)
	if !IsBadEncodedText(corrupted) {
		t.Fatalf("expected text made of cid markers to be flagged as bad")
	}
}

func TestIsBadEncodedText_OrdinaryProse(t *testing.T) {
	prose := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	if IsBadEncodedText(prose) {
		t.Fatalf("expected ordinary prose to pass the encoding check")
	}
}

func TestIsBadEncodedText_Empty(t *testing.T) {
	if !IsBadEncodedText("") {
		t.Fatalf("expected empty text to be flagged as bad")
	}
}

func TestIsGluedText_LongWords(t *testing.T) {
	glued := strings.Repeat(strings.Repeat("x", 40)+" ", 3) + "short words here again and again"
	// 3 of 9 words exceed 30 chars -> ratio 0.33 > 0.2
	if !IsGluedText(glued) {
		t.Fatalf("expected text with many overlong words to be flagged as glued")
	}
}

func TestIsGluedText_NormalWordLengths(t *testing.T) {
	normal := "annual revenue grew by twelve percent compared to the previous reporting period"
	if IsGluedText(normal) {
		t.Fatalf("expected normal prose not to be flagged as glued")
	}
}

func TestIsGluedText_BelowThreshold(t *testing.T) {
	// 1 long word out of 10 -> ratio 0.1, below the 0.2 threshold
	text := strings.Repeat("x", 40) + " one two three four five six seven eight nine"
	if IsGluedText(text) {
		t.Fatalf("expected 10%% overlong words to pass the glue check")
	}
}

func TestNeedsOCR_Whitespace(t *testing.T) {
	if !needsOCR("   \n\t  ") {
		t.Fatalf("expected whitespace-only page to need OCR")
	}
}
