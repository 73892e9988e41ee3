package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractAll_SkipsAlreadyParsed(t *testing.T) {
	pdfDir := t.TempDir()
	parsedDir := t.TempDir()

	// Deliberately invalid PDF bytes: the skip must happen before the file
	// is ever opened as a PDF.
	pdfPath := filepath.Join(pdfDir, "report.pdf")
	if err := os.WriteFile(pdfPath, []byte("not a real pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	cached := `[{"page":1,"text":"cached page text"}]`
	parsedPath := filepath.Join(parsedDir, "report.json")
	if err := os.WriteFile(parsedPath, []byte(cached), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(nil, false)
	if err := e.ExtractAll(pdfDir, parsedDir); err != nil {
		t.Fatalf("expected cached PDF to be skipped, got error: %v", err)
	}

	got, err := os.ReadFile(parsedPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != cached {
		t.Fatalf("cached parse output was modified:\nwant %q\ngot  %q", cached, string(got))
	}
}

func TestMergeOCRLines_AppendsOnlyNewContent(t *testing.T) {
	native := "Revenue grew in 2023.\nSee chart below."
	ocrText := "Revenue grew in 2023.\nChart: total sales 45000\n"

	merged := mergeOCRLines(native, ocrText)
	if !strings.Contains(merged, "Chart: total sales 45000") {
		t.Fatalf("expected OCR-only line to be appended, got %q", merged)
	}
	if strings.Count(merged, "Revenue grew in 2023.") != 1 {
		t.Fatalf("expected duplicate line to be skipped, got %q", merged)
	}
}

func TestMergeOCRLines_NoAdditions(t *testing.T) {
	native := "Only text on this page."
	if got := mergeOCRLines(native, "Only text on this page.\n"); got != native {
		t.Fatalf("expected native text unchanged, got %q", got)
	}
}
