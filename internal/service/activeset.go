package service

import (
	"math/rand"
	"time"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

// DefaultActiveSetSize is the size of the rotating learning window.
const DefaultActiveSetSize = 10

// ActiveSetManager owns the fixed-size rotating subset of dictionary
// entries and its pass/fail bookkeeping. All operations are pure state
// transitions on the session value; persistence is the caller's job.
type ActiveSetManager struct {
	setSize int
	rng     *rand.Rand
}

// NewActiveSetManager creates a manager with the given window size.
// Non-positive sizes fall back to DefaultActiveSetSize.
func NewActiveSetManager(setSize int) *ActiveSetManager {
	if setSize <= 0 {
		setSize = DefaultActiveSetSize
	}
	return &ActiveSetManager{
		setSize: setSize,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// InitSession seeds a fresh session by drawing min(setSize, len(dictIDs))
// distinct entry IDs uniformly at random from the dictionary.
func (m *ActiveSetManager) InitSession(userID int64, dictIDs []int64) (*entities.Session, error) {
	if len(dictIDs) == 0 {
		return nil, ErrEmptyDictionary
	}

	ids := append([]int64(nil), dictIDs...)
	m.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	n := m.setSize
	if len(ids) < n {
		n = len(ids)
	}

	return entities.NewSession(userID, ids[:n]), nil
}

// NextEntry selects the entry for the next question uniformly at random
// among the active set. The previously asked entry is excluded whenever
// the set has more than one member, so no entry repeats back-to-back.
func (m *ActiveSetManager) NextEntry(s *entities.Session) (int64, error) {
	if len(s.Active) == 0 {
		return 0, ErrEmptySet
	}

	candidates := s.Active
	if len(s.Active) > 1 && s.LastEntryID != 0 {
		filtered := excludeID(s.Active, s.LastEntryID)
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	return candidates[m.rng.Intn(len(candidates))], nil
}

// RecordAnswer applies one pass/fail transition. A correct answer removes
// the entry and, while unused entries remain in the dictionary, draws a
// replacement uniformly from the pool (entries neither active nor already
// passed this round). An incorrect answer or skip leaves the set unchanged;
// the entry stays eligible for future turns.
func (m *ActiveSetManager) RecordAnswer(s *entities.Session, dictIDs []int64, entryID int64, correct bool) {
	s.LastEntryID = entryID

	if !correct {
		return
	}

	s.Active = excludeID(s.Active, entryID)
	s.Passed = append(s.Passed, entryID)

	pool := poolIDs(dictIDs, s.Active, s.Passed)
	if len(pool) > 0 {
		s.Active = append(s.Active, pool[m.rng.Intn(len(pool))])
	}
}

// excludeID returns a copy of ids without the given id.
func excludeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// poolIDs returns the dictionary entries that are neither in the active
// set nor already passed this round.
func poolIDs(dictIDs, active, passed []int64) []int64 {
	used := make(map[int64]struct{}, len(active)+len(passed))
	for _, id := range active {
		used[id] = struct{}{}
	}
	for _, id := range passed {
		used[id] = struct{}{}
	}

	out := make([]int64, 0, len(dictIDs))
	for _, id := range dictIDs {
		if _, ok := used[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
