package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"reportqa/internal/answer"
	"reportqa/internal/chunker"
	"reportqa/internal/config"
	"reportqa/internal/embedding"
	"reportqa/internal/helper"
	"reportqa/internal/indexer"
	"reportqa/internal/llmservice"
	"reportqa/internal/models"
	"reportqa/internal/ocr"
	"reportqa/internal/parser"
	"reportqa/internal/retriever"
	"reportqa/internal/vecstore"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	// .env is optional; real environments set the variables directly.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "reportqa",
		Short: "Answer typed questions over a folder of PDF reports",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "path to the config file")
	root.AddCommand(parseCmd(), chunkCmd(), indexCmd(), askCmd(), runCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	return cfg
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Extract page text from PDFs, with OCR fallback for broken pages",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			runParse(cfg)
		},
	}
}

func chunkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chunk",
		Short: "Split parsed page text into overlapping chunks",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			runChunk(cfg)
		},
	}
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Embed chunks into the vector index (incremental)",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			runIndex(cmd.Context(), cfg)
		},
	}
}

func askCmd() *cobra.Command {
	var question, kind string
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer a single question against the existing index",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			builder := newBuilder(cfg)

			q := models.Question{Text: question, Kind: models.Kind(kind)}
			ans, err := builder.Answer(cmd.Context(), q)
			if err != nil {
				log.Fatal().Err(err).Msg("Error answering question")
			}
			helper.PrettyPrint(ans)
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "question text")
	cmd.Flags().StringVarP(&kind, "kind", "k", "name", "answer kind: number, name, names or boolean")
	cmd.MarkFlagRequired("question")
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and write the submission file",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			ctx := cmd.Context()

			log.Info().Msg("Parsing PDFs")
			runParse(cfg)

			log.Info().Msg("Chunking parsed PDFs")
			runChunk(cfg)

			log.Info().Msg("Indexing")
			runIndex(ctx, cfg)

			log.Info().Msg("Creating submission file")
			builder := newBuilder(cfg)
			err := builder.RunSubmission(ctx, cfg.Data.QuestionsFile, cfg.Submission.Output, cfg.Submission.TeamEmail, cfg.Submission.Name)
			if err != nil {
				log.Fatal().Err(err).Msg("Error creating submission")
			}
		},
	}
}

func runParse(cfg *config.Config) {
	engine := ocr.NewEngine(cfg.OCR)
	extractor := parser.NewExtractor(engine, cfg.OCR.ImageOCR)
	if err := extractor.ExtractAll(cfg.Data.PDFDir, cfg.Data.ParsedDir); err != nil {
		log.Fatal().Err(err).Msg("Error parsing PDFs")
	}
}

func runChunk(cfg *config.Config) {
	splitter := chunker.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err := splitter.ChunkParsedDir(cfg.Data.ParsedDir, cfg.Data.ChunksDir); err != nil {
		log.Fatal().Err(err).Msg("Error chunking parsed PDFs")
	}
}

func runIndex(ctx context.Context, cfg *config.Config) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	store, err := vecstore.Open(cfg.RAG.Store, cfg.Data.IndexDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	ix := indexer.New(store, embedder, cfg.RAG.BatchSize)
	if err := ix.IndexDir(ctx, cfg.Data.ChunksDir); err != nil {
		log.Fatal().Err(err).Msg("Error indexing chunks")
	}
}

// newBuilder wires retriever, store, embedder and chat model together. All
// clients live for the whole run and are passed down explicitly.
func newBuilder(cfg *config.Config) *answer.Builder {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	store, err := vecstore.Open(cfg.RAG.Store, cfg.Data.IndexDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	llm, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chat model")
	}
	r := retriever.New(store, embedder, cfg.RAG.SearchK, cfg.RAG.TopK)
	return answer.NewBuilder(r, llm, cfg.RAG.ContextMaxChars)
}
