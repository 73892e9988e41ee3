package retriever

import (
	"context"
	"fmt"

	"reportqa/internal/embedding"
	"reportqa/internal/models"
	"reportqa/internal/vecstore"
)

// Retriever embeds a query and returns the best-matching chunk records.
//
// searchK and topK are deliberately separate: the index is searched wider
// than the returned list so a re-ranking step can be slotted between the two
// without touching the store.
type Retriever struct {
	store    vecstore.Store
	embedder embedding.Embedder
	searchK  int
	topK     int
}

func New(store vecstore.Store, embedder embedding.Embedder, searchK, topK int) *Retriever {
	return &Retriever{store: store, embedder: embedder, searchK: searchK, topK: topK}
}

// Retrieve returns up to topK chunk records, similarity-descending.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.ChunkMeta, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	embedding.Normalize(vec)

	results, err := r.store.Search(ctx, vec, r.searchK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(results) > r.topK {
		results = results[:r.topK]
	}
	return results, nil
}
