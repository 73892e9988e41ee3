package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Data       DataConfig       `yaml:"data"`
	RAG        RAGConfig        `yaml:"rag"`
	EmbedLLM   LLMConfig        `yaml:"embed_llm"`
	ChatLLM    LLMConfig        `yaml:"chat_llm"`
	OCR        OCRConfig        `yaml:"ocr"`
	Submission SubmissionConfig `yaml:"submission"`
}

type DataConfig struct {
	PDFDir        string `yaml:"pdf_dir"`
	ParsedDir     string `yaml:"parsed_dir"`
	ChunksDir     string `yaml:"chunks_dir"`
	IndexDir      string `yaml:"index_dir"`
	QuestionsFile string `yaml:"questions_file"`
}

type RAGConfig struct {
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	BatchSize       int    `yaml:"batch_size"`
	SearchK         int    `yaml:"search_k"`
	TopK            int    `yaml:"top_k"`
	ContextMaxChars int    `yaml:"context_max_chars"`
	Store           string `yaml:"store"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

type OCRConfig struct {
	Language       string  `yaml:"language"`
	TessdataPrefix string  `yaml:"tessdata_prefix"`
	DPI            float64 `yaml:"dpi"`
	ImageOCR       bool    `yaml:"image_ocr"`
}

type SubmissionConfig struct {
	TeamEmail string `yaml:"team_email"`
	Name      string `yaml:"name"`
	Output    string `yaml:"output"`
}

const (
	defaultChunkSize       = 500
	defaultChunkOverlap    = 50
	defaultBatchSize       = 512
	defaultSearchK         = 20
	defaultTopK            = 6
	defaultContextMaxChars = 3500
	defaultOCRDPI          = 300
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Data.PDFDir == "" {
		cfg.Data.PDFDir = "data/pdfs"
	}
	if cfg.Data.ParsedDir == "" {
		cfg.Data.ParsedDir = "data/parsed"
	}
	if cfg.Data.ChunksDir == "" {
		cfg.Data.ChunksDir = "data/chunks"
	}
	if cfg.Data.IndexDir == "" {
		cfg.Data.IndexDir = "data/index"
	}
	if cfg.Data.QuestionsFile == "" {
		cfg.Data.QuestionsFile = "data/questions.json"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RAG.BatchSize == 0 {
		cfg.RAG.BatchSize = defaultBatchSize
	}
	if cfg.RAG.SearchK == 0 {
		cfg.RAG.SearchK = defaultSearchK
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = defaultTopK
	}
	if cfg.RAG.ContextMaxChars == 0 {
		cfg.RAG.ContextMaxChars = defaultContextMaxChars
	}
	if cfg.RAG.Store == "" {
		cfg.RAG.Store = "flat"
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "eng"
	}
	if cfg.OCR.DPI == 0 {
		cfg.OCR.DPI = defaultOCRDPI
	}
}

// applyEnv lets credentials come from the environment rather than the
// config file, so the file stays committable.
func (cfg *Config) applyEnv() {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.ChatLLM.Key = v
	}
	if v := os.Getenv("EMBED_API_KEY"); v != "" {
		cfg.EmbedLLM.Key = v
	}
	if v := os.Getenv("TESSDATA_PREFIX"); v != "" && cfg.OCR.TessdataPrefix == "" {
		cfg.OCR.TessdataPrefix = v
	}
}
