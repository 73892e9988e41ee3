package chunker

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"

	"reportqa/internal/helper"
	"reportqa/internal/models"
)

// pageSeparators prefer paragraph breaks, then lines, then sentence ends,
// then plain whitespace, before falling back to a hard character cut.
var pageSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", " ", ""}

// Splitter cuts page text into overlapping chunks with page attribution.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(pageSeparators),
		),
	}
}

// ChunkPage splits one page's text. Empty or whitespace-only input yields no
// chunks, and whitespace-only candidates are dropped.
func (s *Splitter) ChunkPage(text string, page int) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := s.inner.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split page %d: %w", page, err)
	}

	chunks := make([]models.Chunk, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{Page: page, Text: part})
	}
	return chunks, nil
}

// ChunkParsedDir rebuilds the chunk file for every parsed PDF. Chunks are
// cheap to derive, so unlike the parse stage this always regenerates.
func (s *Splitter) ChunkParsedDir(parsedDir, chunksDir string) error {
	if err := helper.CreateFolder(chunksDir); err != nil {
		return err
	}

	files, err := filepath.Glob(filepath.Join(parsedDir, "*.json"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		log.Info().Str("file", filepath.Base(file)).Msg("Chunking")

		var pages []models.PageRecord
		if err := helper.ReadJSON(file, &pages); err != nil {
			return err
		}

		allChunks := make([]models.Chunk, 0)
		for _, page := range pages {
			pageChunks, err := s.ChunkPage(page.Text, page.Page)
			if err != nil {
				return fmt.Errorf("chunk %s: %w", file, err)
			}
			allChunks = append(allChunks, pageChunks...)
		}

		outPath := filepath.Join(chunksDir, filepath.Base(file))
		if err := helper.WriteJSON(outPath, allChunks); err != nil {
			return err
		}
		log.Info().Str("out", outPath).Int("chunks", len(allChunks)).Msg("Saved chunks")
	}
	return nil
}
