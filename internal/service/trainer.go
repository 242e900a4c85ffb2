package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
	"github.com/mkuznetsov/vocab-llm-bot/internal/repository"
)

const defaultLLMTimeout = 25 * time.Second

// Trainer drives the turn protocol of a training session: it picks the
// next question via ActiveSetManager, builds the prompt for the current
// mode, grades submitted answers and persists every state transition.
//
// Turns of the same user are serialized through a per-user lock, so a
// duplicate message can never double-apply an answer. The LLM-backed
// calls are the only suspension points; each one must complete (or fail)
// before anything is persisted, which keeps retries after a transient
// failure idempotent.
type Trainer struct {
	vocabRepo   VocabularyRepository
	sessionRepo SessionRepository
	sets        *ActiveSetManager
	word        *wordMode
	sentence    *sentenceMode
	llmTimeout  time.Duration
	logger      *zap.Logger

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewTrainer creates a new Trainer.
func NewTrainer(
	vocabRepo VocabularyRepository,
	sessionRepo SessionRepository,
	sets *ActiveSetManager,
	generator SentenceGenerator,
	verifier TranslationVerifier,
	llmTimeout time.Duration,
	logger *zap.Logger,
) *Trainer {
	if llmTimeout <= 0 {
		llmTimeout = defaultLLMTimeout
	}

	return &Trainer{
		vocabRepo:   vocabRepo,
		sessionRepo: sessionRepo,
		sets:        sets,
		word:        &wordMode{verifier: verifier, matcher: NewAnswerMatcher()},
		sentence:    &sentenceMode{generator: generator, verifier: verifier},
		llmTimeout:  llmTimeout,
		logger:      logger,
	}
}

// lockUser acquires the exclusive section of one user and returns its
// release function. Locks are created lazily and never removed; the bot
// serves a handful of users, not a fleet.
func (t *Trainer) lockUser(userID int64) func() {
	t.mu.Lock()
	if t.userLocks == nil {
		t.userLocks = make(map[int64]*sync.Mutex)
	}
	lock, ok := t.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.userLocks[userID] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (t *Trainer) strategyFor(mode entities.TrainingMode) modeStrategy {
	if mode == entities.ModeSentence {
		return t.sentence
	}
	return t.word
}

func (t *Trainer) loadSession(ctx context.Context, userID int64) (*entities.Session, error) {
	sess, err := t.sessionRepo.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// StartSession seeds a fresh active set from the user's dictionary and
// persists it, replacing any previous session.
func (t *Trainer) StartSession(ctx context.Context, userID int64) error {
	unlock := t.lockUser(userID)
	defer unlock()

	ids, err := t.vocabRepo.ListEntryIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	sess, err := t.sets.InitSession(userID, ids)
	if err != nil {
		return err
	}

	if err := t.sessionRepo.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// StartTurn opens the next question and returns its prompt. If a question
// is already open it is re-presented as is: the cached sentence is reused
// and the generator is not invoked again.
func (t *Trainer) StartTurn(ctx context.Context, userID int64) (*entities.Prompt, error) {
	unlock := t.lockUser(userID)
	defer unlock()

	sess, err := t.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !sess.HasOpenQuestion() {
		entryID, err := t.sets.NextEntry(sess)
		if err != nil {
			return nil, err
		}
		sess.Current = &entities.QuestionRef{EntryID: entryID}
	}

	entry, langs, err := t.questionContext(ctx, sess)
	if err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, t.llmTimeout)
	defer cancel()

	text, err := t.strategyFor(sess.Mode).BuildPrompt(llmCtx, *entry, langs, sess.Current)
	if err != nil {
		// Nothing has been persisted; the user simply retries the turn.
		t.logger.Warn("prompt build failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	if err := t.sessionRepo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &entities.Prompt{EntryID: sess.Current.EntryID, Text: text}, nil
}

// SubmitAnswer grades the submitted text for the open question, records
// the pass/fail transition and closes the question. On a transient
// grading failure the question stays open and nothing is recorded, so
// resubmitting the identical answer counts exactly once.
func (t *Trainer) SubmitAnswer(ctx context.Context, userID int64, text string) (*entities.AttemptResult, error) {
	unlock := t.lockUser(userID)
	defer unlock()

	sess, err := t.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sess.HasOpenQuestion() {
		return nil, ErrNoOpenQuestion
	}

	entry, langs, err := t.questionContext(ctx, sess)
	if err != nil {
		return nil, err
	}

	strategy := t.strategyFor(sess.Mode)

	llmCtx, cancel := context.WithTimeout(ctx, t.llmTimeout)
	defer cancel()

	verdict, err := strategy.GradeAnswer(llmCtx, *entry, langs, sess.Current, text)
	if err != nil {
		t.logger.Warn("answer grading failed",
			zap.Int64("user_id", userID),
			zap.Int64("entry_id", entry.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	return t.closeQuestion(ctx, sess, *entry, strategy, verdict)
}

// Skip closes the open question as incorrect without invoking the
// verifier and reveals the correct answer. The entry stays in the set.
func (t *Trainer) Skip(ctx context.Context, userID int64) (*entities.AttemptResult, error) {
	unlock := t.lockUser(userID)
	defer unlock()

	sess, err := t.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sess.HasOpenQuestion() {
		return nil, ErrNoOpenQuestion
	}

	entry, err := t.vocabRepo.GetByID(ctx, sess.UserID, sess.Current.EntryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return t.closeQuestion(ctx, sess, *entry, t.strategyFor(sess.Mode), Verdict{Correct: false})
}

// closeQuestion applies the verdict to the active set, persists the
// session and builds the displayable result. Callers hold the user lock.
func (t *Trainer) closeQuestion(
	ctx context.Context,
	sess *entities.Session,
	entry entities.Entry,
	strategy modeStrategy,
	verdict Verdict,
) (*entities.AttemptResult, error) {
	dictIDs, err := t.vocabRepo.ListEntryIDs(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	t.sets.RecordAnswer(sess, dictIDs, entry.ID, verdict.Correct)
	sess.Current = nil

	if err := t.sessionRepo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &entities.AttemptResult{
		EntryID:       entry.ID,
		Correct:       verdict.Correct,
		Feedback:      verdict.Feedback,
		CorrectAnswer: strategy.Reveal(entry),
		SetRemaining:  len(sess.Active),
		RoundDone:     len(sess.Active) == 0,
	}, nil
}

// SwitchMode changes the training mode between turns. The active set and
// its bookkeeping are preserved; only the prompt/grading strategy changes.
func (t *Trainer) SwitchMode(ctx context.Context, userID int64, mode entities.TrainingMode) error {
	unlock := t.lockUser(userID)
	defer unlock()

	sess, err := t.loadSession(ctx, userID)
	if err != nil {
		return err
	}
	if sess.HasOpenQuestion() {
		return ErrQuestionOpen
	}

	sess.Mode = mode
	if err := t.sessionRepo.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Reset clears the persisted session of a user.
func (t *Trainer) Reset(ctx context.Context, userID int64) error {
	unlock := t.lockUser(userID)
	defer unlock()

	if err := t.sessionRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// TrainingProgress is a display snapshot for the /progress command.
type TrainingProgress struct {
	Mode           entities.TrainingMode
	ActiveCount    int
	PassedCount    int
	DictionarySize int
	QuestionOpen   bool
}

// Progress returns the current session counters.
func (t *Trainer) Progress(ctx context.Context, userID int64) (*TrainingProgress, error) {
	sess, err := t.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids, err := t.vocabRepo.ListEntryIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return &TrainingProgress{
		Mode:           sess.Mode,
		ActiveCount:    len(sess.Active),
		PassedCount:    len(sess.Passed),
		DictionarySize: len(ids),
		QuestionOpen:   sess.HasOpenQuestion(),
	}, nil
}

func (t *Trainer) questionContext(ctx context.Context, sess *entities.Session) (*entities.Entry, entities.LanguagePair, error) {
	entry, err := t.vocabRepo.GetByID(ctx, sess.UserID, sess.Current.EntryID)
	if err != nil {
		return nil, entities.LanguagePair{}, fmt.Errorf("get entry: %w", err)
	}

	langs, err := t.vocabRepo.LanguageLabels(ctx, sess.UserID)
	if err != nil {
		return nil, entities.LanguagePair{}, fmt.Errorf("get language labels: %w", err)
	}

	return entry, langs, nil
}
