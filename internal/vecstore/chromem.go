package vecstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"reportqa/internal/helper"
	"reportqa/internal/models"
)

const chromemCollection = "chunks"

// ChromemStore keeps vectors in a persistent chromem-go collection. The
// metadata list is still maintained in metadata.json alongside it: chromem
// has no cheap way to enumerate indexed ids, and the resume logic needs the
// full id set up front.
type ChromemStore struct {
	collection *chromem.Collection
	metas      []models.ChunkMeta
	byID       map[string]models.ChunkMeta
	metaPath   string
}

func OpenChromem(indexDir string) (*ChromemStore, error) {
	if err := helper.CreateFolder(indexDir); err != nil {
		return nil, err
	}

	db, err := chromem.NewPersistentDB(filepath.Join(indexDir, "chromem"), false)
	if err != nil {
		return nil, fmt.Errorf("open chromem database: %w", err)
	}
	collection, err := db.GetOrCreateCollection(chromemCollection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("open chromem collection: %w", err)
	}

	s := &ChromemStore{
		collection: collection,
		byID:       make(map[string]models.ChunkMeta),
		metaPath:   filepath.Join(indexDir, metaFileName),
	}
	if _, err := os.Stat(s.metaPath); err == nil {
		if err := helper.ReadJSON(s.metaPath, &s.metas); err != nil {
			return nil, err
		}
		for _, m := range s.metas {
			s.byID[m.ChunkID] = m
		}
	}
	if collection.Count() != len(s.metas) {
		return nil, fmt.Errorf("index corrupt: %d vectors but %d metadata records", collection.Count(), len(s.metas))
	}
	return s, nil
}

func (s *ChromemStore) Add(ctx context.Context, vectors [][]float32, metas []models.ChunkMeta) error {
	if len(vectors) != len(metas) {
		return fmt.Errorf("vector/metadata count mismatch: %d vs %d", len(vectors), len(metas))
	}
	docs := make([]chromem.Document, len(metas))
	for i, m := range metas {
		docs[i] = chromem.Document{
			ID:      m.ChunkID,
			Content: m.Text,
			Metadata: map[string]string{
				"file": m.File,
				"page": strconv.Itoa(m.Page),
			},
			Embedding: vectors[i],
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents to chromem: %w", err)
	}
	s.metas = append(s.metas, metas...)
	for _, m := range metas {
		s.byID[m.ChunkID] = m
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, query []float32, k int) ([]models.ChunkMeta, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query chromem: %w", err)
	}

	metas := make([]models.ChunkMeta, 0, len(results))
	for _, res := range results {
		meta, ok := s.byID[res.ID]
		if !ok {
			return nil, fmt.Errorf("chromem returned unknown chunk id %s", res.ID)
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func (s *ChromemStore) Has(chunkID string) bool {
	_, ok := s.byID[chunkID]
	return ok
}

func (s *ChromemStore) Count() int {
	return len(s.metas)
}

// Persist writes metadata.json; chromem itself persists on every add.
func (s *ChromemStore) Persist() error {
	return helper.WriteJSON(s.metaPath, s.metas)
}
