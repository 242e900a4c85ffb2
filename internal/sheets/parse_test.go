package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

func TestParseRows(t *testing.T) {
	rows := [][]interface{}{
		{"Русский", "Español", "Status"},
		{"кот", "gato", "learned"},
		{"собака", "perro"},
		{"", "caballo"},
		{"дом", ""},
		{"  хлеб  ", "  pan  ", ""},
	}

	langs, pairs, err := parseRows(rows)
	require.NoError(t, err)

	assert.Equal(t, entities.LanguagePair{Native: "Русский", Target: "Español"}, langs)
	assert.Equal(t, []entities.WordPair{
		{NativeText: "кот", TargetText: "gato"},
		{NativeText: "собака", TargetText: "perro"},
		{NativeText: "хлеб", TargetText: "pan"},
	}, pairs)
}

func TestParseRowsStatusColumnFirst(t *testing.T) {
	rows := [][]interface{}{
		{"Статус", "English", "Deutsch"},
		{"done", "house", "Haus"},
	}

	langs, pairs, err := parseRows(rows)
	require.NoError(t, err)

	assert.Equal(t, entities.LanguagePair{Native: "English", Target: "Deutsch"}, langs)
	require.Len(t, pairs, 1)
	assert.Equal(t, entities.WordPair{NativeText: "house", TargetText: "Haus"}, pairs[0])
}

func TestParseRowsEmptySheet(t *testing.T) {
	_, _, err := parseRows(nil)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestParseRowsNoLanguagePairs(t *testing.T) {
	rows := [][]interface{}{
		{"Status", ""},
		{"done", ""},
	}

	_, _, err := parseRows(rows)
	assert.ErrorIs(t, err, ErrNoLanguagePairs)
}

func TestParseRowsHeaderOnly(t *testing.T) {
	rows := [][]interface{}{
		{"Русский", "Español"},
	}

	langs, pairs, err := parseRows(rows)
	require.NoError(t, err)
	assert.Equal(t, "Русский", langs.Native)
	assert.Empty(t, pairs)
}

func TestParseSpreadsheetLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "full edit link",
			in:   "https://docs.google.com/spreadsheets/d/1AbCdEfGh_123/edit#gid=0",
			want: "1AbCdEfGh_123",
		},
		{
			name: "link with query",
			in:   "https://docs.google.com/spreadsheets/d/1AbCdEfGh_123?usp=sharing",
			want: "1AbCdEfGh_123",
		},
		{
			name: "link without suffix",
			in:   "https://docs.google.com/spreadsheets/d/1AbCdEfGh_123",
			want: "1AbCdEfGh_123",
		},
		{
			name: "bare id",
			in:   "1AbCdEfGh_123",
			want: "1AbCdEfGh_123",
		},
		{
			name: "padded bare id",
			in:   "  1AbCdEfGh_123\n",
			want: "1AbCdEfGh_123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSpreadsheetLink(tt.in))
		})
	}
}
