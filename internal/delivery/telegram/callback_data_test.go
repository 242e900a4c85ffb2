package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackDataRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		action  string
		params  []string
	}{
		{name: "bare action", encoded: "skip", action: actionSkip, params: nil},
		{name: "mode switch", encoded: "mode:sentence", action: actionMode, params: []string{"sentence"}},
		{name: "sheet index", encoded: "sheet:2", action: actionSheet, params: []string{"2"}},
		{name: "reset confirm", encoded: "reset:confirm", action: actionReset, params: []string{resetConfirm}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := decodeCallback(tt.encoded)
			assert.Equal(t, tt.action, cd.Action)
			if len(tt.params) == 0 {
				assert.Empty(t, cd.Params)
			} else {
				assert.Equal(t, tt.params, cd.Params)
			}
			assert.Equal(t, tt.encoded, cd.encode())
		})
	}
}

func TestBuildCallbacks(t *testing.T) {
	assert.Equal(t, "mode:word", buildModeCallback("word"))
	assert.Equal(t, "sheet:0", buildSheetCallback(0))
	assert.Equal(t, "reset:cancel", buildResetCallback(resetCancel))

	// Sheet tab selection is by index, so the payload never outgrows the
	// 64-byte callback data limit.
	assert.LessOrEqual(t, len(buildSheetCallback(999)), 64)
}
