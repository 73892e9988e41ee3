package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"reportqa/internal/helper"
	"reportqa/internal/llmservice"
	"reportqa/internal/models"
	"reportqa/internal/retriever"
)

// Builder turns a typed question into a normalized answer with references.
type Builder struct {
	retriever       *retriever.Retriever
	llm             *llmservice.Client
	contextMaxChars int
}

func NewBuilder(r *retriever.Retriever, llm *llmservice.Client, contextMaxChars int) *Builder {
	return &Builder{retriever: r, llm: llm, contextMaxChars: contextMaxChars}
}

// Answer retrieves context for one question, asks the model, and normalizes
// the result. A model failure is returned as-is; there is no retry.
func (b *Builder) Answer(ctx context.Context, q models.Question) (models.Answer, error) {
	if err := q.Kind.Validate(); err != nil {
		return models.Answer{}, err
	}

	chunks, err := b.retriever.Retrieve(ctx, q.Text)
	if err != nil {
		return models.Answer{}, err
	}

	prompt := BuildPrompt(q.Text, q.Kind, BuildContext(chunks, b.contextMaxChars))
	raw, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return models.Answer{}, fmt.Errorf("answer %q: %w", q.Text, err)
	}

	return models.Answer{
		QuestionText: q.Text,
		Value:        q.Kind.Normalize(raw),
		References:   BuildReferences(chunks),
	}, nil
}

// RunSubmission answers every question in questionsPath and writes the
// submission document. Any failure aborts the run before anything is
// written; there is no partial submission.
func (b *Builder) RunSubmission(ctx context.Context, questionsPath, outputPath, teamEmail, submissionName string) error {
	var questions []models.Question
	if err := helper.ReadJSON(questionsPath, &questions); err != nil {
		return fmt.Errorf("read questions: %w", err)
	}

	answers := make([]models.Answer, 0, len(questions))
	for i, q := range questions {
		log.Info().Int("question", i+1).Int("of", len(questions)).Str("kind", string(q.Kind)).Msg("Answering")
		ans, err := b.Answer(ctx, q)
		if err != nil {
			return err
		}
		answers = append(answers, ans)
	}

	submission := models.Submission{
		TeamEmail:      teamEmail,
		SubmissionName: submissionName,
		Answers:        answers,
	}
	if err := helper.WriteJSON(outputPath, submission); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	log.Info().Str("out", outputPath).Int("answers", len(answers)).Msg("Submission saved")
	return nil
}

// BuildContext concatenates retrieved chunks into the prompt context. A
// chunk that would push the total past maxChars ends the context; it is
// dropped whole, never truncated.
func BuildContext(chunks []models.ChunkMeta, maxChars int) string {
	var parts []string
	total := 0

	for _, ch := range chunks {
		part := fmt.Sprintf("Source page %d:\n%s\n\n", ch.Page, ch.Text)
		if total+len(part) > maxChars {
			break
		}
		parts = append(parts, part)
		total += len(part)
	}

	return strings.Join(parts, "\n")
}

// BuildPrompt fills the instruction template with the context, the question
// and the kind-specific rules.
func BuildPrompt(questionText string, kind models.Kind, context string) string {
	return fmt.Sprintf(models.AnswerPromptTemplate, context, questionText, kind.MissingInfoRule(), kind.FormatRule())
}

// BuildReferences deduplicates retrieved chunks by (file, page), preserving
// first-seen order. The file stem doubles as the source PDF's SHA1; pages
// become zero-based.
func BuildReferences(chunks []models.ChunkMeta) []models.Reference {
	type key struct {
		file string
		page int
	}
	seen := make(map[key]struct{})
	refs := make([]models.Reference, 0, len(chunks))

	for _, ch := range chunks {
		k := key{file: ch.File, page: ch.Page}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		refs = append(refs, models.Reference{
			PDFSHA1:   strings.TrimSuffix(ch.File, ".json"),
			PageIndex: ch.Page - 1,
		})
	}
	return refs
}
