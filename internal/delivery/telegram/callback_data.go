package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionSkip  = "skip"
	actionMode  = "mode"
	actionSheet = "sheet"
	actionReset = "reset"
)

// Reset sub-actions.
const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildModeCallback builds callback data for switching the training mode.
func buildModeCallback(mode string) string {
	return callbackData{
		Action: actionMode,
		Params: []string{mode},
	}.encode()
}

// buildSheetCallback builds callback data for choosing a sheet tab by its
// index in the offered list. Titles themselves don't fit the 64-byte
// callback data limit.
func buildSheetCallback(index int) string {
	return callbackData{
		Action: actionSheet,
		Params: []string{strconv.Itoa(index)},
	}.encode()
}

// buildResetCallback builds callback data for the reset confirmation.
func buildResetCallback(subAction string) string {
	return callbackData{
		Action: actionReset,
		Params: []string{subAction},
	}.encode()
}
