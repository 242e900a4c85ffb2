package service

import "errors"

var (
	// ErrEmptyDictionary means a session cannot start because the user's
	// dictionary has no entries.
	ErrEmptyDictionary = errors.New("dictionary is empty")

	// ErrEmptySet is the terminal condition: every dictionary entry has
	// been passed and the active set drained.
	ErrEmptySet = errors.New("active set is empty")

	// ErrVerificationUnavailable wraps transient generator/verifier
	// failures. The open question is left untouched, so resubmitting the
	// same answer is safe.
	ErrVerificationUnavailable = errors.New("verification temporarily unavailable")

	// ErrNoSession means the user has not connected a dictionary yet.
	ErrNoSession = errors.New("session not found")

	// ErrNoOpenQuestion means an answer arrived with no question pending.
	ErrNoOpenQuestion = errors.New("no open question")

	// ErrQuestionOpen rejects operations that are only allowed between
	// turns, such as switching the training mode.
	ErrQuestionOpen = errors.New("question is still open")
)
