package vecstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"reportqa/internal/helper"
	"reportqa/internal/models"
)

const (
	indexFileName = "index.bin"
	metaFileName  = "metadata.json"

	indexMagic   = "RQIX"
	indexVersion = 1
)

// FlatIndex is a brute-force inner-product index over unit vectors. The Nth
// vector corresponds to the Nth metadata record; both are append-only.
type FlatIndex struct {
	dim     int
	vectors [][]float32
	metas   []models.ChunkMeta
	ids     map[string]struct{}

	indexPath string
	metaPath  string
}

// OpenFlat loads the index files from indexDir if they exist, otherwise
// starts empty. The vector dimension is fixed by the first batch added.
func OpenFlat(indexDir string) (*FlatIndex, error) {
	if err := helper.CreateFolder(indexDir); err != nil {
		return nil, err
	}

	idx := &FlatIndex{
		ids:       make(map[string]struct{}),
		indexPath: filepath.Join(indexDir, indexFileName),
		metaPath:  filepath.Join(indexDir, metaFileName),
	}

	if _, err := os.Stat(idx.indexPath); err == nil {
		if err := idx.loadVectors(); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(idx.metaPath); err == nil {
		if err := helper.ReadJSON(idx.metaPath, &idx.metas); err != nil {
			return nil, err
		}
		for _, m := range idx.metas {
			idx.ids[m.ChunkID] = struct{}{}
		}
	}

	if len(idx.vectors) != len(idx.metas) {
		return nil, fmt.Errorf("index corrupt: %d vectors but %d metadata records", len(idx.vectors), len(idx.metas))
	}
	return idx, nil
}

func (idx *FlatIndex) Add(ctx context.Context, vectors [][]float32, metas []models.ChunkMeta) error {
	if len(vectors) != len(metas) {
		return fmt.Errorf("vector/metadata count mismatch: %d vs %d", len(vectors), len(metas))
	}
	for i, vec := range vectors {
		if idx.dim == 0 {
			idx.dim = len(vec)
		}
		if len(vec) != idx.dim {
			return fmt.Errorf("vector for %s has dimension %d, index has %d", metas[i].ChunkID, len(vec), idx.dim)
		}
	}
	idx.vectors = append(idx.vectors, vectors...)
	idx.metas = append(idx.metas, metas...)
	for _, m := range metas {
		idx.ids[m.ChunkID] = struct{}{}
	}
	return nil
}

func (idx *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]models.ChunkMeta, error) {
	if len(idx.vectors) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d", len(query), idx.dim)
	}

	type scored struct {
		pos   int
		score float32
	}
	results := make([]scored, len(idx.vectors))
	for i, vec := range idx.vectors {
		var dot float32
		for j := range vec {
			dot += vec[j] * query[j]
		}
		results[i] = scored{pos: i, score: dot}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})

	if k > len(results) {
		k = len(results)
	}
	metas := make([]models.ChunkMeta, k)
	for i := 0; i < k; i++ {
		metas[i] = idx.metas[results[i].pos]
	}
	return metas, nil
}

func (idx *FlatIndex) Has(chunkID string) bool {
	_, ok := idx.ids[chunkID]
	return ok
}

func (idx *FlatIndex) Count() int {
	return len(idx.metas)
}

// Persist writes both files atomically, vectors first, so a crash between
// the two writes is caught by the count check on the next load.
func (idx *FlatIndex) Persist() error {
	if err := idx.saveVectors(); err != nil {
		return err
	}
	return helper.WriteJSON(idx.metaPath, idx.metas)
}

// The index file is a little-endian header (magic, version, dim, count)
// followed by count*dim float32 values.
func (idx *FlatIndex) saveVectors() error {
	var buf bytes.Buffer
	buf.WriteString(indexMagic)
	for _, v := range []uint32{indexVersion, uint32(idx.dim), uint32(len(idx.vectors))} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, vec := range idx.vectors {
		if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
			return err
		}
	}
	return helper.WriteFileAtomic(idx.indexPath, buf.Bytes())
}

func (idx *FlatIndex) loadVectors() error {
	data, err := os.ReadFile(idx.indexPath)
	if err != nil {
		return err
	}
	r := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := r.Read(magic); err != nil || string(magic) != indexMagic {
		return fmt.Errorf("%s is not a vector index file", idx.indexPath)
	}
	var version, dim, count uint32
	for _, dst := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return fmt.Errorf("read index header: %w", err)
		}
	}
	if version != indexVersion {
		return fmt.Errorf("unsupported index version %d", version)
	}

	idx.dim = int(dim)
	idx.vectors = make([][]float32, count)
	for i := range idx.vectors {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("read vector %d: %w", i, err)
		}
		idx.vectors[i] = vec
	}
	return nil
}
