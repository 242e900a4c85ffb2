// Package llm implements the sentence generator and translation verifier
// on top of the OpenAI chat completion API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/service"
)

var (
	// ErrGenerationFailed marks a transient sentence-generation failure.
	ErrGenerationFailed = errors.New("sentence generation failed")
	// ErrVerificationFailed marks a transient verification failure.
	ErrVerificationFailed = errors.New("translation verification failed")
)

type Client struct {
	api    *openai.Client
	model  string
	logger *zap.Logger
}

func NewClient(apiKey, model string, logger *zap.Logger) *Client {
	return &Client{
		api:    openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Generate produces one short example sentence in the target language
// containing the entry's target word.
func (c *Client) Generate(ctx context.Context, entry entities.Entry, langs entities.LanguagePair) (string, error) {
	out, err := c.chat(ctx, generatePrompt(entry, langs))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	sentence := strings.TrimSpace(out)
	if sentence == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}

	return sentence, nil
}

// Verify judges whether the submitted translation of sourceText is
// acceptable and returns a verdict with natural-language feedback.
// Feedback is guaranteed non-empty for incorrect verdicts.
func (c *Client) Verify(
	ctx context.Context,
	sourceText, submitted string,
	entry entities.Entry,
	langs entities.LanguagePair,
) (service.Verdict, error) {
	out, err := c.chat(ctx, verifyPrompt(sourceText, submitted, entry, langs))
	if err != nil {
		return service.Verdict{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	verdict, err := parseVerdict(out)
	if err != nil {
		c.logger.Warn("unparseable verifier completion",
			zap.String("completion", out),
			zap.Error(err),
		)
		return service.Verdict{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if !verdict.Correct && verdict.Feedback == "" {
		verdict.Feedback = fmt.Sprintf("Правильный перевод: %s", entry.TargetText)
	}

	return verdict, nil
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion has no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func generatePrompt(entry entities.Entry, langs entities.LanguagePair) string {
	return fmt.Sprintf(`You are a translation assistant.

Rules:
1. Don't greet the user. Start immediately without any introductory phrases.
2. Use plain text only. No markdown.

Task:
Write one short sentence (at most 12 words) in %s that uses the word "%s".
Reply with the sentence only.`, langs.Target, entry.TargetText)
}

func verifyPrompt(sourceText, submitted string, entry entities.Entry, langs entities.LanguagePair) string {
	return fmt.Sprintf(`You are a translation assistant grading a language learner.

The learner's native language is %s and they are learning %s.
Dictionary pair: %q (%s) — %q (%s).
Text to translate: %q
Learner's translation: %q

Judge whether the learner's translation is acceptable. Minor spelling
mistakes are fine; a wrong meaning is not.

Reply with ONLY a JSON object, no markdown:
{"correct": true or false, "feedback": "short feedback in %s"}
When the answer is wrong the feedback must name the mistake and give a
correct translation. When the answer is right the feedback may be empty.`,
		langs.Native, langs.Target,
		entry.NativeText, langs.Native,
		entry.TargetText, langs.Target,
		sourceText, submitted,
		langs.Native,
	)
}

// parseVerdict extracts the verdict JSON from a completion, tolerating
// text around the object.
func parseVerdict(s string) (service.Verdict, error) {
	jsonStr, err := extractJSON(s)
	if err != nil {
		return service.Verdict{}, err
	}

	var raw struct {
		Correct  bool   `json:"correct"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return service.Verdict{}, fmt.Errorf("unmarshal verdict: %w", err)
	}

	return service.Verdict{
		Correct:  raw.Correct,
		Feedback: strings.TrimSpace(raw.Feedback),
	}, nil
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no JSON object found in completion")
	}
	return s[start : end+1], nil
}
