// Package vecstore persists chunk embeddings and serves nearest-neighbor
// queries over them. The default backend is a flat inner-product index kept
// in two files under the index directory; a chromem-go backend can be
// selected instead with `rag.store: chromem`.
package vecstore

import (
	"context"
	"fmt"

	"reportqa/internal/models"
)

// Store is an append-only vector index with a parallel metadata record per
// vector. Vectors are expected to be unit-normalized by the caller, so
// inner-product scores equal cosine similarity.
type Store interface {
	// Add appends vectors and their metadata records. len(vectors) must
	// equal len(metas); the invariant vector count == metadata count holds
	// after every successful call.
	Add(ctx context.Context, vectors [][]float32, metas []models.ChunkMeta) error

	// Search returns the metadata of the k nearest vectors by inner
	// product, similarity-descending. Fewer than k results are returned
	// when the store holds fewer vectors.
	Search(ctx context.Context, query []float32, k int) ([]models.ChunkMeta, error)

	// Has reports whether a chunk id is already indexed.
	Has(chunkID string) bool

	// Count is the number of indexed chunks.
	Count() int

	// Persist flushes index and metadata to disk.
	Persist() error
}

// Open loads (or initializes) the configured store backend in indexDir.
func Open(backend, indexDir string) (Store, error) {
	switch backend {
	case "", "flat":
		return OpenFlat(indexDir)
	case "chromem":
		return OpenChromem(indexDir)
	}
	return nil, fmt.Errorf("unknown vector store backend %q", backend)
}
