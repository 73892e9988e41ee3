package answer

import (
	"strings"
	"testing"

	"reportqa/internal/models"
)

func chunk(file string, page int, text string) models.ChunkMeta {
	return models.ChunkMeta{ChunkID: "x", File: file, Page: page, Text: text}
}

func TestBuildContext_DropsChunkThatWouldOverflow(t *testing.T) {
	// Each formatted part is 27 characters: "Source page N:\n" + 10 + "\n\n".
	chunks := []models.ChunkMeta{
		chunk("a.json", 1, "0123456789"),
		chunk("a.json", 2, "0123456789"),
		chunk("a.json", 3, "0123456789"),
	}

	got := BuildContext(chunks, 60)
	if !strings.Contains(got, "Source page 1:") || !strings.Contains(got, "Source page 2:") {
		t.Fatalf("expected first two chunks in context, got %q", got)
	}
	if strings.Contains(got, "Source page 3:") {
		t.Fatalf("chunk crossing the boundary must be dropped, got %q", got)
	}
}

func TestBuildContext_DropsNotTruncates(t *testing.T) {
	chunks := []models.ChunkMeta{chunk("a.json", 1, strings.Repeat("x", 100))}

	if got := BuildContext(chunks, 50); got != "" {
		t.Fatalf("oversized chunk must be dropped whole, got %q", got)
	}
}

func TestBuildContext_FormatsSourcePages(t *testing.T) {
	got := BuildContext([]models.ChunkMeta{chunk("a.json", 7, "some text")}, 3500)
	want := "Source page 7:\nsome text\n\n"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestBuildReferences_DeduplicatesByFileAndPage(t *testing.T) {
	chunks := []models.ChunkMeta{
		chunk("a.json", 1, "t1"),
		chunk("a.json", 1, "t2"),
		chunk("b.json", 2, "t3"),
	}

	got := BuildReferences(chunks)
	want := []models.Reference{
		{PDFSHA1: "a", PageIndex: 0},
		{PDFSHA1: "b", PageIndex: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d references, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reference %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestBuildReferences_PreservesFirstSeenOrder(t *testing.T) {
	chunks := []models.ChunkMeta{
		chunk("b.json", 5, "t1"),
		chunk("a.json", 1, "t2"),
		chunk("b.json", 5, "t3"),
	}

	got := BuildReferences(chunks)
	if len(got) != 2 || got[0].PDFSHA1 != "b" || got[1].PDFSHA1 != "a" {
		t.Fatalf("unexpected reference order: %+v", got)
	}
}

func TestBuildPrompt_KindSpecificRules(t *testing.T) {
	prompt := BuildPrompt("What is the revenue?", models.KindNumber, "Source page 1:\nRevenue 45000\n\n")

	for _, want := range []string{
		"ONLY using the provided context",
		"What is the revenue?",
		"Revenue 45000",
		"return 'N/A'",
		"ONLY digits (0-9)",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	boolPrompt := BuildPrompt("Did the company pay dividends?", models.KindBoolean, "ctx")
	if !strings.Contains(boolPrompt, "return false") || !strings.Contains(boolPrompt, "ONLY true or false") {
		t.Fatalf("boolean prompt missing kind rules:\n%s", boolPrompt)
	}
}
