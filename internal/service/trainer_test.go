package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/repository"
)

type fakeVocabRepo struct {
	ids     []int64
	entries map[int64]entities.Entry
	langs   entities.LanguagePair
}

func newFakeVocabRepo(pairs ...[2]string) *fakeVocabRepo {
	r := &fakeVocabRepo{
		entries: make(map[int64]entities.Entry),
		langs:   entities.LanguagePair{Native: "Русский", Target: "Español"},
	}
	for i, p := range pairs {
		id := int64(i + 1)
		r.ids = append(r.ids, id)
		r.entries[id] = entities.Entry{ID: id, UserID: 1, NativeText: p[0], TargetText: p[1]}
	}
	return r
}

func (r *fakeVocabRepo) ListEntries(_ context.Context, _ int64) ([]entities.Entry, error) {
	out := make([]entities.Entry, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.entries[id])
	}
	return out, nil
}

func (r *fakeVocabRepo) ListEntryIDs(_ context.Context, _ int64) ([]int64, error) {
	return append([]int64(nil), r.ids...), nil
}

func (r *fakeVocabRepo) GetByID(_ context.Context, _, entryID int64) (*entities.Entry, error) {
	e, ok := r.entries[entryID]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	return &e, nil
}

func (r *fakeVocabRepo) LanguageLabels(_ context.Context, _ int64) (entities.LanguagePair, error) {
	return r.langs, nil
}

func (r *fakeVocabRepo) ReplaceDictionary(_ context.Context, _ int64, _ entities.LanguagePair, _ []entities.WordPair) error {
	return nil
}

// fakeSessionRepo stores deep copies, so assertions see exactly what was
// persisted, not what the trainer mutated in memory afterwards.
type fakeSessionRepo struct {
	stored *entities.Session
	saves  int
}

func copySession(s *entities.Session) *entities.Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Active = append([]int64(nil), s.Active...)
	out.Passed = append([]int64(nil), s.Passed...)
	if s.Current != nil {
		q := *s.Current
		out.Current = &q
	}
	return &out
}

func (r *fakeSessionRepo) Load(_ context.Context, _ int64) (*entities.Session, error) {
	if r.stored == nil {
		return nil, repository.ErrSessionNotFound
	}
	return copySession(r.stored), nil
}

func (r *fakeSessionRepo) Save(_ context.Context, sess *entities.Session) error {
	r.stored = copySession(sess)
	r.saves++
	return nil
}

func (r *fakeSessionRepo) Clear(_ context.Context, _ int64) error {
	r.stored = nil
	return nil
}

type fakeGenerator struct {
	sentence string
	err      error
	calls    int
}

func (g *fakeGenerator) Generate(_ context.Context, _ entities.Entry, _ entities.LanguagePair) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.sentence, nil
}

type fakeVerifier struct {
	verdict       Verdict
	err           error
	calls         int
	lastSource    string
	lastSubmitted string
}

func (v *fakeVerifier) Verify(_ context.Context, source, submitted string, _ entities.Entry, _ entities.LanguagePair) (Verdict, error) {
	v.calls++
	v.lastSource = source
	v.lastSubmitted = submitted
	if v.err != nil {
		return Verdict{}, v.err
	}
	return v.verdict, nil
}

type trainerFixture struct {
	trainer  *Trainer
	vocab    *fakeVocabRepo
	sessions *fakeSessionRepo
	gen      *fakeGenerator
	ver      *fakeVerifier
}

func newTrainerFixture(t *testing.T, pairs ...[2]string) *trainerFixture {
	t.Helper()

	f := &trainerFixture{
		vocab:    newFakeVocabRepo(pairs...),
		sessions: &fakeSessionRepo{},
		gen:      &fakeGenerator{sentence: "El gato duerme en la silla."},
		ver:      &fakeVerifier{},
	}
	f.trainer = NewTrainer(
		f.vocab,
		f.sessions,
		NewActiveSetManager(10),
		f.gen,
		f.ver,
		time.Second,
		zap.NewNop(),
	)

	require.NoError(t, f.trainer.StartSession(context.Background(), 1))
	return f
}

func TestTrainer_StartSession(t *testing.T) {
	f := newTrainerFixture(t, [2]string{"кот", "gato"}, [2]string{"собака", "perro"})

	require.NotNil(t, f.sessions.stored)
	assert.ElementsMatch(t, []int64{1, 2}, f.sessions.stored.Active)
	assert.Nil(t, f.sessions.stored.Current)
}

func TestTrainer_StartSessionEmptyDictionary(t *testing.T) {
	f := &trainerFixture{
		vocab:    newFakeVocabRepo(),
		sessions: &fakeSessionRepo{},
		gen:      &fakeGenerator{},
		ver:      &fakeVerifier{},
	}
	trainer := NewTrainer(f.vocab, f.sessions, NewActiveSetManager(10), f.gen, f.ver, time.Second, zap.NewNop())

	err := trainer.StartSession(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestTrainer_NoSession(t *testing.T) {
	f := &trainerFixture{
		vocab:    newFakeVocabRepo([2]string{"кот", "gato"}),
		sessions: &fakeSessionRepo{},
		gen:      &fakeGenerator{},
		ver:      &fakeVerifier{},
	}
	trainer := NewTrainer(f.vocab, f.sessions, NewActiveSetManager(10), f.gen, f.ver, time.Second, zap.NewNop())

	_, err := trainer.StartTurn(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestTrainer_WordTurn(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"})

	prompt, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), prompt.EntryID)
	assert.Contains(t, prompt.Text, "кот")
	require.NotNil(t, f.sessions.stored.Current, "open question must be persisted")

	// An exact answer is accepted locally, without the verifier.
	result, err := f.trainer.SubmitAnswer(ctx, 1, "gato")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, "gato", result.CorrectAnswer)
	assert.True(t, result.RoundDone)
	assert.Zero(t, f.ver.calls)

	assert.Nil(t, f.sessions.stored.Current)
	assert.Empty(t, f.sessions.stored.Active)
	assert.Equal(t, []int64{1}, f.sessions.stored.Passed)
}

func TestTrainer_WordTurnWrongAnswer(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"}, [2]string{"собака", "perro"})
	f.ver.verdict = Verdict{Correct: false, Feedback: "Это не то слово."}

	_, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)

	result, err := f.trainer.SubmitAnswer(ctx, 1, "sombrero")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, "Это не то слово.", result.Feedback)
	assert.Equal(t, 1, f.ver.calls)
	assert.Equal(t, "sombrero", f.ver.lastSubmitted)

	// The entry stays in rotation and the question is closed.
	assert.Len(t, f.sessions.stored.Active, 2)
	assert.Empty(t, f.sessions.stored.Passed)
	assert.Nil(t, f.sessions.stored.Current)
}

func TestTrainer_SubmitWithoutQuestion(t *testing.T) {
	f := newTrainerFixture(t, [2]string{"кот", "gato"})

	_, err := f.trainer.SubmitAnswer(context.Background(), 1, "gato")
	assert.ErrorIs(t, err, ErrNoOpenQuestion)
}

func TestTrainer_RetryAfterVerifierFailure(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"}, [2]string{"собака", "perro"})

	_, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)
	open := copySession(f.sessions.stored)

	// First grading attempt dies on the wire.
	f.ver.err = errors.New("rate limited")
	_, err = f.trainer.SubmitAnswer(ctx, 1, "sombrero")
	assert.ErrorIs(t, err, ErrVerificationUnavailable)

	// Nothing moved: the same question is still open, no transition recorded.
	assert.Equal(t, open, f.sessions.stored)

	// The identical resubmission counts exactly once.
	f.ver.err = nil
	f.ver.verdict = Verdict{Correct: true}
	result, err := f.trainer.SubmitAnswer(ctx, 1, "sombrero")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Len(t, f.sessions.stored.Passed, 1)
	assert.Equal(t, 2, f.ver.calls)
}

func TestTrainer_Skip(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"}, [2]string{"собака", "perro"})

	prompt, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)

	result, err := f.trainer.Skip(ctx, 1)
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, prompt.EntryID, result.EntryID)
	assert.NotEmpty(t, result.CorrectAnswer)
	assert.Zero(t, f.ver.calls, "skip must not invoke the verifier")

	assert.Len(t, f.sessions.stored.Active, 2)
	assert.Nil(t, f.sessions.stored.Current)
	assert.Equal(t, prompt.EntryID, f.sessions.stored.LastEntryID)
}

func TestTrainer_SwitchMode(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"}, [2]string{"собака", "perro"})

	_, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)

	err = f.trainer.SwitchMode(ctx, 1, entities.ModeSentence)
	assert.ErrorIs(t, err, ErrQuestionOpen)

	_, err = f.trainer.Skip(ctx, 1)
	require.NoError(t, err)

	activeBefore := append([]int64(nil), f.sessions.stored.Active...)

	require.NoError(t, f.trainer.SwitchMode(ctx, 1, entities.ModeSentence))
	assert.Equal(t, entities.ModeSentence, f.sessions.stored.Mode)
	assert.Equal(t, activeBefore, f.sessions.stored.Active, "switching modes keeps the set")
}

func TestTrainer_SentenceTurn(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"})
	require.NoError(t, f.trainer.SwitchMode(ctx, 1, entities.ModeSentence))

	prompt, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, f.gen.sentence)
	assert.Equal(t, 1, f.gen.calls)
	assert.Equal(t, f.gen.sentence, f.sessions.stored.Current.Sentence)

	// Re-presenting the open question reuses the cached sentence.
	again, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, prompt.Text, again.Text)
	assert.Equal(t, 1, f.gen.calls)

	// Grading goes through the verifier with the sentence as source.
	f.ver.verdict = Verdict{Correct: true, Feedback: "Отлично!"}
	result, err := f.trainer.SubmitAnswer(ctx, 1, "Кот спит на стуле.")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, "Отлично!", result.Feedback)
	assert.Equal(t, f.gen.sentence, f.ver.lastSource)
}

func TestTrainer_GenerationFailureLeavesNoQuestion(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"})
	require.NoError(t, f.trainer.SwitchMode(ctx, 1, entities.ModeSentence))

	f.gen.err = fmt.Errorf("model overloaded")
	_, err := f.trainer.StartTurn(ctx, 1)
	assert.ErrorIs(t, err, ErrVerificationUnavailable)
	assert.Nil(t, f.sessions.stored.Current, "failed turn must not persist an open question")

	// Retry succeeds from scratch.
	f.gen.err = nil
	prompt, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, f.gen.sentence)
}

func TestTrainer_Progress(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t, [2]string{"кот", "gato"}, [2]string{"собака", "perro"})

	_, err := f.trainer.StartTurn(ctx, 1)
	require.NoError(t, err)

	_, err = f.trainer.SubmitAnswer(ctx, 1, answerFor(t, f))
	require.NoError(t, err)

	progress, err := f.trainer.Progress(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ModeWord, progress.Mode)
	assert.Equal(t, 1, progress.ActiveCount)
	assert.Equal(t, 1, progress.PassedCount)
	assert.Equal(t, 2, progress.DictionarySize)
	assert.False(t, progress.QuestionOpen)
}

// answerFor returns the correct translation for the currently open question.
func answerFor(t *testing.T, f *trainerFixture) string {
	t.Helper()

	require.NotNil(t, f.sessions.stored.Current)
	entry, ok := f.vocab.entries[f.sessions.stored.Current.EntryID]
	require.True(t, ok)
	return entry.TargetText
}
