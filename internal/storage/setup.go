package storage

import "sync"

// SetupStage is a step of the dictionary connection flow.
type SetupStage int

const (
	StageAwaitingLink  SetupStage = iota // waiting for the spreadsheet link
	StageAwaitingSheet                   // waiting for the sheet tab choice
)

// SetupState tracks one user's progress through the /connect flow.
type SetupState struct {
	Stage         SetupStage
	SpreadsheetID string
	SheetTitles   []string // tab titles offered to the user, indexed by callback
}

// SetupStorage provides in-memory storage for in-flight /connect flows,
// keyed by user ID. The flow is short-lived chat state; it does not
// survive a restart and does not need to.
type SetupStorage struct {
	mu     sync.RWMutex
	states map[int64]*SetupState
}

// NewSetupStorage creates a new SetupStorage.
func NewSetupStorage() *SetupStorage {
	return &SetupStorage{
		states: make(map[int64]*SetupState),
	}
}

// Set saves the setup state for a user.
func (s *SetupStorage) Set(userID int64, state *SetupState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// Get retrieves the setup state for a user, or nil.
func (s *SetupStorage) Get(userID int64) *SetupState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[userID]
}

// Clear removes the setup state for a user.
func (s *SetupStorage) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
