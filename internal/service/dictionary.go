package service

import (
	"context"
	"fmt"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

// SheetSource reads a user's dictionary from an external spreadsheet.
type SheetSource interface {
	ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	ReadDictionary(ctx context.Context, spreadsheetID, sheetTitle string) (entities.LanguagePair, []entities.WordPair, error)
}

// DictionaryService imports spreadsheets into the vocabulary store.
type DictionaryService struct {
	source      SheetSource
	vocabRepo   VocabularyRepository
	sessionRepo SessionRepository
}

// NewDictionaryService creates a new DictionaryService.
func NewDictionaryService(source SheetSource, vocabRepo VocabularyRepository, sessionRepo SessionRepository) *DictionaryService {
	return &DictionaryService{
		source:      source,
		vocabRepo:   vocabRepo,
		sessionRepo: sessionRepo,
	}
}

// ListSheetTitles returns the tab titles of a spreadsheet.
func (s *DictionaryService) ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	return s.source.ListSheetTitles(ctx, spreadsheetID)
}

// Import reads the chosen sheet and replaces the user's dictionary with
// its word pairs. Any previous session is dropped: old entry IDs are
// meaningless against the new dictionary.
func (s *DictionaryService) Import(ctx context.Context, userID int64, spreadsheetID, sheetTitle string) (int, entities.LanguagePair, error) {
	langs, pairs, err := s.source.ReadDictionary(ctx, spreadsheetID, sheetTitle)
	if err != nil {
		return 0, entities.LanguagePair{}, fmt.Errorf("read dictionary: %w", err)
	}
	if len(pairs) == 0 {
		return 0, entities.LanguagePair{}, ErrEmptyDictionary
	}

	if err := s.vocabRepo.ReplaceDictionary(ctx, userID, langs, pairs); err != nil {
		return 0, entities.LanguagePair{}, fmt.Errorf("replace dictionary: %w", err)
	}

	if err := s.sessionRepo.Clear(ctx, userID); err != nil {
		return 0, entities.LanguagePair{}, fmt.Errorf("clear stale session: %w", err)
	}

	return len(pairs), langs, nil
}
