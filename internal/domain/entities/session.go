package entities

import "fmt"

// TrainingMode selects the quiz strategy for a session.
type TrainingMode string

const (
	ModeWord     TrainingMode = "word"     // translate a single word
	ModeSentence TrainingMode = "sentence" // translate a generated sentence
)

// ParseTrainingMode validates a raw mode string.
func ParseTrainingMode(s string) (TrainingMode, error) {
	switch TrainingMode(s) {
	case ModeWord, ModeSentence:
		return TrainingMode(s), nil
	default:
		return "", fmt.Errorf("unknown training mode: %q", s)
	}
}

// QuestionRef points at the currently open question of a session.
// Sentence is filled lazily in sentence mode and cached so re-presenting
// the same question never calls the generator again.
type QuestionRef struct {
	EntryID  int64
	Sentence string
}

// Session is the persistent training state of one user: the rotating
// active set, the entries already passed this round and the open question.
type Session struct {
	UserID      int64
	Mode        TrainingMode
	Active      []int64      // entry IDs still pending in the active set
	Passed      []int64      // entry IDs passed this round (never re-enter)
	LastEntryID int64        // entry asked on the previous turn, 0 if none
	Current     *QuestionRef // open question, nil between turns
}

// NewSession creates a session seeded with the given active entry IDs.
func NewSession(userID int64, active []int64) *Session {
	return &Session{
		UserID: userID,
		Mode:   ModeWord,
		Active: active,
	}
}

// HasOpenQuestion reports whether a question is awaiting an answer.
func (s *Session) HasOpenQuestion() bool {
	return s.Current != nil
}

// InActive reports whether the entry is currently part of the active set.
func (s *Session) InActive(entryID int64) bool {
	for _, id := range s.Active {
		if id == entryID {
			return true
		}
	}
	return false
}
