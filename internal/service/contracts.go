package service

import (
	"context"
	"time"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *entities.User) error
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// VocabularyRepository is the read side of a user's imported dictionary
// plus the rewrite path used by the importer.
type VocabularyRepository interface {
	ListEntries(ctx context.Context, userID int64) ([]entities.Entry, error)
	ListEntryIDs(ctx context.Context, userID int64) ([]int64, error)
	GetByID(ctx context.Context, userID, entryID int64) (*entities.Entry, error)
	LanguageLabels(ctx context.Context, userID int64) (entities.LanguagePair, error)
	ReplaceDictionary(ctx context.Context, userID int64, langs entities.LanguagePair, pairs []entities.WordPair) error
}

// SessionRepository persists training sessions between interactions.
type SessionRepository interface {
	Load(ctx context.Context, userID int64) (*entities.Session, error)
	Save(ctx context.Context, session *entities.Session) error
	Clear(ctx context.Context, userID int64) error
}

// ReminderRepository manages reminder persistence.
type ReminderRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.UserReminder, error)
	Upsert(ctx context.Context, rem *entities.UserReminder) error
	GetDueUsers(ctx context.Context, hourUTC int) ([]int64, error)
	MarkAsSent(ctx context.Context, userID int64, sentAt time.Time) error
}

// SentenceGenerator produces an example sentence in the target language
// containing the given word.
type SentenceGenerator interface {
	Generate(ctx context.Context, entry entities.Entry, langs entities.LanguagePair) (string, error)
}

// Verdict is the verifier's judgment of one submitted answer.
type Verdict struct {
	Correct  bool
	Feedback string // natural-language feedback, non-empty when incorrect
}

// TranslationVerifier judges whether a submitted translation of sourceText
// is acceptable for the given entry.
type TranslationVerifier interface {
	Verify(ctx context.Context, sourceText, submitted string, entry entities.Entry, langs entities.LanguagePair) (Verdict, error)
}

// ReminderNotifier sends training nudges to users.
type ReminderNotifier interface {
	SendTrainingReminder(chatID int64) error
}
