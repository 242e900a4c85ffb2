package entities

// Prompt is the question text presented to the user for one turn.
type Prompt struct {
	EntryID int64
	Text    string
}

// AttemptResult is the outcome of one answered (or skipped) question.
// It is returned to the transport for display and never persisted.
type AttemptResult struct {
	EntryID       int64
	Correct       bool
	Feedback      string // verifier feedback, non-empty when incorrect
	CorrectAnswer string // target text of the asked entry
	SetRemaining  int    // active set size after the attempt
	RoundDone     bool   // true when the set drained and the pool is empty
}
