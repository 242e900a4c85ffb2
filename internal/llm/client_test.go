package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			in:   `{"correct": true, "feedback": ""}`,
			want: `{"correct": true, "feedback": ""}`,
		},
		{
			name: "markdown fenced",
			in:   "```json\n{\"correct\": false, \"feedback\": \"no\"}\n```",
			want: `{"correct": false, "feedback": "no"}`,
		},
		{
			name: "surrounding prose",
			in:   `Sure, here is the verdict: {"correct": true, "feedback": ""} Hope that helps!`,
			want: `{"correct": true, "feedback": ""}`,
		},
		{
			name:    "no object",
			in:      "the answer is correct",
			wantErr: true,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVerdict(t *testing.T) {
	v, err := parseVerdict(`{"correct": false, "feedback": "  Вы перепутали род существительного.  "}`)
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, "Вы перепутали род существительного.", v.Feedback)

	v, err = parseVerdict("Verdict:\n{\"correct\": true, \"feedback\": \"\"}")
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.Empty(t, v.Feedback)

	_, err = parseVerdict(`{"correct": tru`)
	assert.Error(t, err)
}

func TestGeneratePrompt(t *testing.T) {
	entry := entities.Entry{NativeText: "кот", TargetText: "gato"}
	langs := entities.LanguagePair{Native: "Русский", Target: "Español"}

	prompt := generatePrompt(entry, langs)
	assert.Contains(t, prompt, `"gato"`)
	assert.Contains(t, prompt, "Español")
	assert.Contains(t, prompt, "Don't greet the user")
}

func TestVerifyPrompt(t *testing.T) {
	entry := entities.Entry{NativeText: "кот", TargetText: "gato"}
	langs := entities.LanguagePair{Native: "Русский", Target: "Español"}

	prompt := verifyPrompt("El gato duerme.", "Кот спит.", entry, langs)
	assert.Contains(t, prompt, `"El gato duerme."`)
	assert.Contains(t, prompt, `"Кот спит."`)
	assert.Contains(t, prompt, `"correct": true or false`)
	assert.Contains(t, prompt, "Русский")
	assert.Contains(t, prompt, "Español")
}
