package sheets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

var (
	ErrEmptySheet      = errors.New("sheet has no rows")
	ErrNoLanguagePairs = errors.New("sheet header has fewer than two language columns")
)

// statusHeaders are header names that mark a bookkeeping column rather
// than a language column.
var statusHeaders = map[string]struct{}{
	"status":  {},
	"статус":  {},
	"learned": {},
	"note":    {},
	"notes":   {},
}

// parseRows turns raw sheet values into language labels and word pairs.
// The first row is the header: its first two non-status cells name the
// native and target languages and fix the pair columns. Rows missing
// either cell are skipped.
func parseRows(rows [][]interface{}) (entities.LanguagePair, []entities.WordPair, error) {
	if len(rows) == 0 {
		return entities.LanguagePair{}, nil, ErrEmptySheet
	}

	header := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		header = append(header, strings.TrimSpace(fmt.Sprint(cell)))
	}

	nativeCol, targetCol, ok := detectLanguageColumns(header)
	if !ok {
		return entities.LanguagePair{}, nil, ErrNoLanguagePairs
	}

	langs := entities.LanguagePair{
		Native: header[nativeCol],
		Target: header[targetCol],
	}

	var pairs []entities.WordPair
	for _, row := range rows[1:] {
		native := cellText(row, nativeCol)
		target := cellText(row, targetCol)
		if native == "" || target == "" {
			continue
		}

		pairs = append(pairs, entities.WordPair{
			NativeText: native,
			TargetText: target,
		})
	}

	return langs, pairs, nil
}

// detectLanguageColumns picks the first two header columns that carry a
// language name, skipping status-like columns.
func detectLanguageColumns(header []string) (nativeCol, targetCol int, ok bool) {
	found := make([]int, 0, 2)
	for i, name := range header {
		if name == "" {
			continue
		}
		if _, skip := statusHeaders[strings.ToLower(name)]; skip {
			continue
		}

		found = append(found, i)
		if len(found) == 2 {
			return found[0], found[1], true
		}
	}

	return 0, 0, false
}

func cellText(row []interface{}, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[col]))
}

// ParseSpreadsheetLink extracts the spreadsheet ID from a pasted URL.
// A bare ID is returned as is.
func ParseSpreadsheetLink(text string) string {
	text = strings.TrimSpace(text)

	const marker = "spreadsheets/d/"
	if idx := strings.Index(text, marker); idx != -1 {
		rest := text[idx+len(marker):]
		if end := strings.IndexAny(rest, "/?#"); end != -1 {
			rest = rest[:end]
		}
		return rest
	}

	return text
}
