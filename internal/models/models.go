package models

// PageRecord is the text of a single PDF page, 1-based.
type PageRecord struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Chunk is a bounded substring of a page's text, the unit of retrieval.
type Chunk struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ChunkMeta is the persisted record for an embedded chunk. Insertion order
// matches the vector position in the index.
type ChunkMeta struct {
	ChunkID string `json:"chunk_id"`
	File    string `json:"file"`
	Page    int    `json:"page"`
	Text    string `json:"text"`
}

// Question is one entry of the questions input file.
type Question struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Reference points at a source page of a PDF, zero-based.
type Reference struct {
	PDFSHA1   string `json:"pdf_sha1"`
	PageIndex int    `json:"page_index"`
}

// Answer is the normalized value for one question plus its sources.
type Answer struct {
	QuestionText string      `json:"question_text"`
	Value        string      `json:"value"`
	References   []Reference `json:"references"`
}

// Submission is the output document for a full question run.
type Submission struct {
	TeamEmail      string   `json:"team_email"`
	SubmissionName string   `json:"submission_name"`
	Answers        []Answer `json:"answers"`
}
