package indexer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"reportqa/internal/embedding"
	"reportqa/internal/helper"
	"reportqa/internal/models"
	"reportqa/internal/vecstore"
)

// Indexer embeds chunk files into the vector store incrementally. Chunks
// already present (by chunk id) are skipped, so an interrupted run resumes
// where it stopped without duplicates.
type Indexer struct {
	store     vecstore.Store
	embedder  embedding.Embedder
	batchSize int
}

func New(store vecstore.Store, embedder embedding.Embedder, batchSize int) *Indexer {
	if batchSize <= 0 {
		batchSize = 512
	}
	return &Indexer{store: store, embedder: embedder, batchSize: batchSize}
}

// IndexDir processes every chunk file in chunksDir. The store is persisted
// after each embedded batch and once more at the end, so a crash loses at
// most one partial batch.
func (ix *Indexer) IndexDir(ctx context.Context, chunksDir string) error {
	files, err := filepath.Glob(filepath.Join(chunksDir, "*.json"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	log.Info().Int("already_indexed", ix.store.Count()).Msg("Starting indexing")

	var (
		texts []string
		metas []models.ChunkMeta
	)

	flush := func() error {
		if len(texts) == 0 {
			return nil
		}
		vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch of %d chunks: %w", len(texts), err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedding model returned %d vectors for %d texts", len(vectors), len(texts))
		}
		embedding.NormalizeAll(vectors)
		if err := ix.store.Add(ctx, vectors, metas); err != nil {
			return err
		}
		if err := ix.store.Persist(); err != nil {
			return fmt.Errorf("persist index: %w", err)
		}
		log.Info().Int("batch", len(texts)).Int("total", ix.store.Count()).Msg("Indexed batch")
		texts = texts[:0]
		metas = metas[:0]
		return nil
	}

	for _, file := range files {
		var chunks []models.Chunk
		if err := helper.ReadJSON(file, &chunks); err != nil {
			return err
		}

		name := filepath.Base(file)
		stem := strings.TrimSuffix(name, ".json")
		for i, chunk := range chunks {
			chunkID := fmt.Sprintf("%s_%d", stem, i)
			if ix.store.Has(chunkID) {
				continue
			}
			text := strings.TrimSpace(chunk.Text)
			if text == "" {
				continue
			}

			texts = append(texts, text)
			metas = append(metas, models.ChunkMeta{
				ChunkID: chunkID,
				File:    name,
				Page:    chunk.Page,
				Text:    text,
			})

			if len(texts) >= ix.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	log.Info().Int("total", ix.store.Count()).Msg("Indexing complete")
	return nil
}
