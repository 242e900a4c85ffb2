package service

import (
	"context"
	"fmt"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

// modeStrategy is the capability set shared by the two training modes:
// building the question text and grading the submitted answer.
type modeStrategy interface {
	// BuildPrompt produces the question text for the open question,
	// filling q.Sentence when the mode needs generated context.
	BuildPrompt(ctx context.Context, entry entities.Entry, langs entities.LanguagePair, q *entities.QuestionRef) (string, error)

	// GradeAnswer judges the submitted answer for the open question.
	GradeAnswer(ctx context.Context, entry entities.Entry, langs entities.LanguagePair, q *entities.QuestionRef, submitted string) (Verdict, error)

	// Reveal formats the correct answer for display.
	Reveal(entry entities.Entry) string
}

// wordMode asks for a direct translation of a single word. Answers are
// matched locally first; only mismatches are escalated to the verifier.
type wordMode struct {
	verifier TranslationVerifier
	matcher  *AnswerMatcher
}

func (m *wordMode) BuildPrompt(_ context.Context, entry entities.Entry, langs entities.LanguagePair, _ *entities.QuestionRef) (string, error) {
	return fmt.Sprintf("Переведите слово «%s» на %s.", entry.NativeText, langs.Target), nil
}

func (m *wordMode) GradeAnswer(ctx context.Context, entry entities.Entry, langs entities.LanguagePair, _ *entities.QuestionRef, submitted string) (Verdict, error) {
	if m.matcher.Match(submitted, entry.TargetText) {
		return Verdict{Correct: true}, nil
	}

	return m.verifier.Verify(ctx, entry.NativeText, submitted, entry, langs)
}

func (m *wordMode) Reveal(entry entities.Entry) string {
	return entry.TargetText
}

// sentenceMode asks for a translation of a generated example sentence.
// The sentence is cached on the question so re-prompting and retries
// never call the generator twice.
type sentenceMode struct {
	generator SentenceGenerator
	verifier  TranslationVerifier
}

func (m *sentenceMode) BuildPrompt(ctx context.Context, entry entities.Entry, langs entities.LanguagePair, q *entities.QuestionRef) (string, error) {
	if q.Sentence == "" {
		sentence, err := m.generator.Generate(ctx, entry, langs)
		if err != nil {
			return "", fmt.Errorf("generate sentence: %w", err)
		}
		q.Sentence = sentence
	}

	return fmt.Sprintf("%s\n\nПереведите это предложение на %s.", q.Sentence, langs.Native), nil
}

func (m *sentenceMode) GradeAnswer(ctx context.Context, entry entities.Entry, langs entities.LanguagePair, q *entities.QuestionRef, submitted string) (Verdict, error) {
	return m.verifier.Verify(ctx, q.Sentence, submitted, entry, langs)
}

func (m *sentenceMode) Reveal(entry entities.Entry) string {
	return fmt.Sprintf("%s — %s", entry.NativeText, entry.TargetText)
}
