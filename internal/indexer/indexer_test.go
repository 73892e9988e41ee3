package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reportqa/internal/vecstore"
)

// fakeEmbedder maps every text to a deterministic 2-d vector and counts how
// many texts it has embedded.
type fakeEmbedder struct {
	embedded int
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = []float32{float32(len(text)), float32(text[0])}
	}
	f.embedded += len(texts)
	return vecs, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), float32(text[0])}, nil
}

func writeChunks(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexDir_CountInvariantAndResume(t *testing.T) {
	ctx := context.Background()
	chunksDir := t.TempDir()
	indexDir := t.TempDir()

	writeChunks(t, chunksDir, "a.json", `[
		{"page":1,"text":"first chunk of a"},
		{"page":1,"text":"second chunk of a"},
		{"page":2,"text":"   "}
	]`)
	writeChunks(t, chunksDir, "b.json", `[{"page":4,"text":"only chunk of b"}]`)

	store, err := vecstore.OpenFlat(indexDir)
	if err != nil {
		t.Fatal(err)
	}
	emb := &fakeEmbedder{}
	if err := New(store, emb, 2).IndexDir(ctx, chunksDir); err != nil {
		t.Fatal(err)
	}

	// whitespace-only chunk skipped
	if store.Count() != 3 {
		t.Fatalf("expected 3 indexed chunks, got %d", store.Count())
	}
	if emb.embedded != 3 {
		t.Fatalf("expected 3 embedded texts, got %d", emb.embedded)
	}
	for _, id := range []string{"a_0", "a_1", "b_0"} {
		if !store.Has(id) {
			t.Fatalf("missing chunk id %s", id)
		}
	}

	// Re-run against the persisted state: nothing new to embed, no
	// duplicate chunk ids.
	reopened, err := vecstore.OpenFlat(indexDir)
	if err != nil {
		t.Fatal(err)
	}
	emb2 := &fakeEmbedder{}
	if err := New(reopened, emb2, 2).IndexDir(ctx, chunksDir); err != nil {
		t.Fatal(err)
	}
	if reopened.Count() != 3 {
		t.Fatalf("re-run changed the index: count=%d", reopened.Count())
	}
	if emb2.embedded != 0 {
		t.Fatalf("re-run embedded %d texts, want 0", emb2.embedded)
	}
}

func TestIndexDir_ResumeAfterNewFile(t *testing.T) {
	ctx := context.Background()
	chunksDir := t.TempDir()
	indexDir := t.TempDir()

	writeChunks(t, chunksDir, "a.json", `[{"page":1,"text":"first chunk of a"}]`)

	store, err := vecstore.OpenFlat(indexDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(store, &fakeEmbedder{}, 512).IndexDir(ctx, chunksDir); err != nil {
		t.Fatal(err)
	}

	// A later run picks up the new file but embeds only its chunks.
	writeChunks(t, chunksDir, "b.json", `[{"page":2,"text":"late arrival"}]`)

	reopened, err := vecstore.OpenFlat(indexDir)
	if err != nil {
		t.Fatal(err)
	}
	emb := &fakeEmbedder{}
	if err := New(reopened, emb, 512).IndexDir(ctx, chunksDir); err != nil {
		t.Fatal(err)
	}
	if reopened.Count() != 2 {
		t.Fatalf("expected 2 indexed chunks, got %d", reopened.Count())
	}
	if emb.embedded != 1 {
		t.Fatalf("expected only the new chunk to be embedded, got %d", emb.embedded)
	}
}
